package processor

import (
	"context"
	"fmt"
	"os"

	"github.com/woozymasta/geosym/internal/catalog"
	"github.com/woozymasta/geosym/internal/geo"
	"github.com/woozymasta/geosym/internal/metrics"
	"github.com/woozymasta/geosym/internal/style"

	"github.com/rs/zerolog/log"
)

// SymbologyResult summarizes a symbology run.
type SymbologyResult struct {
	Styled  []string // layer ids with a regenerated document
	Skipped []string // layer ids whose data file could not be loaded
}

// Symbology regenerates the style document of every catalog entry from the
// GeoJSON written by a previous job, applying theme colors and range rules.
// An entry whose data file cannot be loaded keeps its previous document and
// has_style reports whether that document exists.
func (p *Processor) Symbology(ctx context.Context) (*SymbologyResult, error) {
	cat := p.Catalog()
	result := &SymbologyResult{}

	for _, entry := range cat.Entries() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := p.restyle(&entry); err != nil {
			// the previous document, if any, stays in place
			_, statErr := os.Stat(p.stylePath(entry.ID))
			entry.HasStyle = statErr == nil
			cat.Upsert(entry)

			log.Error().
				Err(err).
				Str("layer", entry.ID).
				Bool("has_style", entry.HasStyle).
				Msg("Symbology skipped, previous style kept")
			p.metrics.Layer(metrics.StatusSkipped)
			result.Skipped = append(result.Skipped, entry.ID)
			continue
		}

		cat.Upsert(entry)
		p.metrics.Layer(metrics.StatusOK)
		result.Styled = append(result.Styled, entry.ID)
	}

	if err := cat.Save(); err != nil {
		return nil, fmt.Errorf("save catalog: %w", err)
	}
	log.Info().
		Int("styled", len(result.Styled)).
		Int("skipped", len(result.Skipped)).
		Str("path", cat.Path()).
		Msg("Symbology regenerated")

	return result, nil
}

func (p *Processor) restyle(entry *catalog.Entry) error {
	filename := entry.Filename
	if filename == "" {
		filename = Filename(entry.ID)
	}

	fc, err := loadGeoJSON(p.dataPath(filename))
	if err != nil {
		return &PartialLayerError{Layer: entry.ID, Err: err}
	}

	geometryType := geo.GeometryType(fc)
	if geometryType == "" {
		geometryType = entry.GeometryType
	}

	doc := p.styles.Build(style.Input{
		Type:         style.TypeMXD,
		LayerID:      entry.ID,
		LayerName:    entry.Name,
		GeometryType: geometryType,
		Fields:       entry.Properties,
		Features:     fc.Features,
	})

	if err := p.saveStyle(entry.ID, doc); err != nil {
		return &PartialLayerError{Layer: entry.ID, Err: err}
	}
	entry.HasStyle = true

	log.Debug().
		Str("layer", entry.ID).
		Str("geometry", geometryType).
		Int("property_styles", len(doc.PropertyStyles)).
		Msg("Style regenerated")

	return nil
}
