package processor

import (
	"context"
	"fmt"
	"slices"

	"github.com/woozymasta/geosym/internal/catalog"
	"github.com/woozymasta/geosym/internal/geo"
	"github.com/woozymasta/geosym/internal/metrics"
	"github.com/woozymasta/geosym/internal/source"
	"github.com/woozymasta/geosym/internal/style"

	"github.com/paulmach/orb"
	"github.com/rs/zerolog/log"
)

// ExtractResult summarizes an extraction run.
type ExtractResult struct {
	Thumbnail string          // written thumbnail path, empty when none
	Entries   []catalog.Entry // merged into the catalog, in run order
	Extent    orb.Bound
	Failed    int // layers excluded by a PartialLayerError
	Dropped   int // features with untranslatable geometry
	Bounded   bool
}

type candidate struct {
	layer *source.Layer
	entry catalog.Entry
}

// Extract reads every source, writes the artifacts of each layer, merges the
// produced layers into the catalog and writes the map info. A source that
// cannot be opened aborts the run; a failing layer is only logged.
func (p *Processor) Extract(ctx context.Context, sources []string) (*ExtractResult, error) {
	filter := p.cfg.Filter()

	var candidates []candidate
	for _, src := range sources {
		reader, err := source.Open(src, p.client)
		if err != nil {
			return nil, err
		}

		layers, err := reader.Read(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", src, err)
		}
		log.Info().Str("source", src).Int("layers", len(layers)).Msg("Source read")

		for _, layer := range layers {
			if len(layer.Features) == 0 {
				log.Warn().Str("layer", layer.Name).Int("dropped", layer.Dropped).Msg("Layer is empty, skipping")
				p.metrics.Layer(metrics.StatusSkipped)
				continue
			}
			if source.Slug(layer.Name) == "" {
				log.Warn().Str("layer", layer.Name).Msg("Layer name yields no id, skipping")
				p.metrics.Layer(metrics.StatusSkipped)
				continue
			}
			candidates = append(candidates, candidate{layer: layer, entry: p.describe(layer)})
		}
	}

	entries := make([]catalog.Entry, len(candidates))
	for i, c := range candidates {
		entries[i] = c.entry
	}

	result := &ExtractResult{}
	for _, winner := range catalog.Supersede(entries) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// first layer carrying the winning id and count, matching Supersede
		i := slices.IndexFunc(candidates, func(c candidate) bool {
			return c.entry.ID == winner.ID && c.entry.FeatureCount == winner.FeatureCount
		})
		layer := candidates[i].layer

		if err := p.extractLayer(winner, layer); err != nil {
			log.Error().Err(err).Str("layer", winner.ID).Msg("Layer failed")
			p.metrics.Layer(metrics.StatusFailed)
			result.Failed++
			continue
		}

		p.metrics.Layer(metrics.StatusOK)
		p.metrics.Features(len(layer.Features), layer.Dropped)
		result.Dropped += layer.Dropped
		result.Entries = append(result.Entries, winner)

		if b, ok := geo.Extent(layer.Collection()); ok {
			if result.Bounded {
				result.Extent = result.Extent.Union(b)
			} else {
				result.Extent, result.Bounded = b, true
			}
		}
	}

	cat := p.Catalog()
	if err := cat.Merge(result.Entries); err != nil {
		return nil, fmt.Errorf("save catalog: %w", err)
	}
	log.Info().
		Int("layers", len(result.Entries)).
		Int("catalog", cat.Len()).
		Str("path", cat.Path()).
		Msg("Catalog updated")

	thumbnail, err := p.Thumbnail(ctx)
	if err != nil {
		log.Warn().Err(err).Str("source", p.cfg.Map.Thumbnail).Msg("Thumbnail skipped")
	}
	result.Thumbnail = thumbnail

	if err := p.WriteMapInfo(result); err != nil {
		return nil, err
	}

	return result, nil
}

// describe builds the catalog entry of a layer and attaches its localized label.
func (p *Processor) describe(layer *source.Layer) catalog.Entry {
	id := source.Slug(layer.Name)
	fields := layer.Fields
	if len(fields) == 0 {
		fields = style.Fields(layer.Features)
	}
	fields = slices.DeleteFunc(slices.Clone(fields), func(f string) bool { return f == "geometry" })

	name := layer.Name
	if localized, ok := p.cfg.LocalizedName(id); ok {
		name = localized
		field := p.cfg.Labels.LocalizedField
		if field != "" {
			for _, f := range layer.Features {
				f.Properties[field] = localized
			}
			if !slices.Contains(fields, field) {
				fields = append(fields, field)
			}
		}
	}
	layer.Fields = fields

	return catalog.Entry{
		ID:           id,
		Name:         name,
		Filename:     Filename(id),
		FeatureCount: len(layer.Features),
		GeometryType: geo.GeometryType(layer.Collection()),
		HasStyle:     true,
		Properties:   fields,
	}
}

// extractLayer writes the GeoJSON and style document of one layer. A style
// computation never fails the layer; write errors do.
func (p *Processor) extractLayer(entry catalog.Entry, layer *source.Layer) error {
	in := style.Input{
		Type:         style.TypeDefault,
		LayerID:      entry.ID,
		LayerName:    entry.Name,
		GeometryType: entry.GeometryType,
		Fields:       layer.Fields,
		Features:     layer.Features,
	}
	if entry.Name != layer.Name {
		in.OriginalName = layer.Name
	}
	doc := p.styles.Build(in)

	if err := p.saveGeoJSON(entry.ID, entry.Name, layer.Fields, layer.Features); err != nil {
		return &PartialLayerError{Layer: entry.ID, Err: err}
	}
	if err := p.saveStyle(entry.ID, doc); err != nil {
		return &PartialLayerError{Layer: entry.ID, Err: err}
	}

	log.Info().
		Str("layer", entry.ID).
		Str("geometry", entry.GeometryType).
		Int("features", entry.FeatureCount).
		Int("dropped", layer.Dropped).
		Int("property_styles", len(doc.PropertyStyles)).
		Msg("Layer extracted")

	return nil
}
