package processor

import (
	"context"
	"errors"
	"fmt"

	"github.com/woozymasta/geosym/internal/catalog"
	"github.com/woozymasta/geosym/internal/classify"
	"github.com/woozymasta/geosym/internal/config"
	"github.com/woozymasta/geosym/internal/geo"
	"github.com/woozymasta/geosym/internal/metrics"
	"github.com/woozymasta/geosym/internal/style"

	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog/log"
)

// Properties written on every thematic feature besides the localized label.
const (
	NeighborhoodProperty = "neighborhood"
	BinProperty          = "bin"
	ColorProperty        = "color"
	CostProperty         = "cost"
)

// ThematicResult summarizes a thematic run.
type ThematicResult struct {
	Entries      []catalog.Entry
	Failed       int
	Unclassified int // layers written without a classification
}

// Thematic derives the configured choropleth layers from the base layer
// produced by Extract. A missing base layer aborts the run.
func (p *Processor) Thematic(ctx context.Context) (*ThematicResult, error) {
	basePath := p.dataPath(Filename(p.cfg.Thematic.Base))
	base, err := loadGeoJSON(basePath)
	if err != nil {
		return nil, fmt.Errorf("base layer %s: %w", p.cfg.Thematic.Base, err)
	}
	log.Info().Str("path", basePath).Int("features", len(base.Features)).Msg("Base layer loaded")

	result := &ThematicResult{}
	for _, layer := range p.cfg.Thematic.Layers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		entry, classified, err := p.thematicLayer(layer, base.Features)
		if err != nil {
			log.Error().Err(err).Str("layer", layer.ID).Msg("Thematic layer failed")
			p.metrics.Layer(metrics.StatusFailed)
			result.Failed++
			continue
		}
		if !classified {
			result.Unclassified++
		}

		p.metrics.Layer(metrics.StatusOK)
		p.metrics.Features(entry.FeatureCount, 0)
		result.Entries = append(result.Entries, entry)
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

	return result, nil
}

// thematicLayer writes one derived layer. The boolean reports whether the
// property could be classified; without values the layer is still written
// with the default style and unclassified features.
func (p *Processor) thematicLayer(layer config.ThematicLayer, base []*geojson.Feature) (catalog.Entry, bool, error) {
	scheme, err := classify.New(base, layer.Property, layer.Ramp)
	if err != nil {
		if !errors.Is(err, classify.ErrEmptyData) {
			return catalog.Entry{}, false, &PartialLayerError{Layer: layer.ID, Err: err}
		}
		log.Warn().Err(err).Str("layer", layer.ID).Msg("Thematic classification skipped, using default style")
	}

	features := p.thematicFeatures(layer, base, scheme)
	fc := geojson.NewFeatureCollection()
	fc.Features = features
	geometryType := geo.GeometryType(fc)

	name := layer.Name
	if name == "" {
		name = layer.ID
	}

	localized := p.localizedField()
	fields := []string{localized, NeighborhoodProperty, layer.Property, BinProperty, ColorProperty}
	if layer.CostProperty != "" {
		fields = append(fields, CostProperty)
	}

	if err := p.saveGeoJSON(layer.ID, name, fields, features); err != nil {
		return catalog.Entry{}, false, &PartialLayerError{Layer: layer.ID, Err: err}
	}
	if err := p.saveStyle(layer.ID, p.thematicStyle(layer, name, geometryType, scheme)); err != nil {
		return catalog.Entry{}, false, &PartialLayerError{Layer: layer.ID, Err: err}
	}

	ev := log.Info().Str("layer", layer.ID).Int("features", len(features))
	if scheme != nil {
		ev = ev.Float64("min", scheme.Min).Float64("max", scheme.Max).Int("bins", len(scheme.Bins))
	}
	ev.Msg("Thematic layer written")

	return catalog.Entry{
		ID:           layer.ID,
		Name:         name,
		Filename:     Filename(layer.ID),
		GeometryType: geometryType,
		Properties:   fields,
		FeatureCount: len(features),
		HasStyle:     true,
	}, scheme != nil, nil
}

func (p *Processor) thematicFeatures(layer config.ThematicLayer, base []*geojson.Feature, scheme *classify.Scheme) []*geojson.Feature {
	labelProperty := layer.LabelProperty
	if labelProperty == "" {
		labelProperty = p.cfg.Thematic.LabelField
	}
	localized := p.localizedField()

	features := make([]*geojson.Feature, 0, len(base))
	for _, src := range base {
		if src == nil {
			continue
		}

		f := geojson.NewFeature(src.Geometry)
		f.Properties[localized] = propertyOr(src.Properties, labelProperty)
		f.Properties[NeighborhoodProperty] = propertyOr(src.Properties, p.cfg.Thematic.NeighborhoodField)

		if v, ok := src.Properties[layer.Property]; ok && v != nil {
			f.Properties[layer.Property] = v
			if scheme != nil {
				if bin, ok := scheme.Classify(src); ok {
					f.Properties[BinProperty] = bin.Label()
					f.Properties[ColorProperty] = bin.Color
				}
			}
		}

		if layer.CostProperty != "" {
			if v, ok := src.Properties[layer.CostProperty]; ok {
				f.Properties[CostProperty] = v
			}
		}

		features = append(features, f)
	}

	return features
}

// thematicStyle colors features by their precomputed ramp color.
func (p *Processor) thematicStyle(layer config.ThematicLayer, name, geometryType string, scheme *classify.Scheme) *style.Document {
	doc := style.Default(geometryType, style.NoDataColor, p.styles.Labels())
	doc.Type = style.TypeThematic
	doc.DefaultStyle = style.FillPaint(style.NoDataColor)
	doc.LayerName = name
	doc.Property = layer.Property

	localized := p.localizedField()
	doc.Labels.Fields = []string{localized}
	doc.Labels.DefaultField = localized

	if scheme == nil {
		return doc
	}

	ps := style.PropertyStyle{
		Type:   style.KindCategorical,
		Field:  ColorProperty,
		Values: make(map[string]style.Paint, len(scheme.Bins)),
	}
	for _, bin := range scheme.Bins {
		ps.Values[bin.Color] = style.FillPaint(bin.Color)
	}
	doc.PropertyStyles[ColorProperty] = ps

	return doc
}

func (p *Processor) localizedField() string {
	if f := p.cfg.Labels.LocalizedField; f != "" {
		return f
	}
	return config.LocalizedField
}

// propertyOr returns props[key], or an empty string when it is absent or null.
func propertyOr(props geojson.Properties, key string) interface{} {
	if key == "" {
		return ""
	}
	if v, ok := props[key]; ok && v != nil {
		return v
	}
	return ""
}
