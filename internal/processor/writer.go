package processor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/woozymasta/geosym/internal/catalog"
	"github.com/woozymasta/geosym/internal/export"
	"github.com/woozymasta/geosym/internal/style"

	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog/log"
	"github.com/tdewolff/minify/v2"
	minjson "github.com/tdewolff/minify/v2/json"
)

const jsonMIME = "application/json"

var minifier = func() *minify.M {
	m := minify.New()
	m.AddFunc(jsonMIME, minjson.Minify)
	return m
}()

// saveJSON encodes v and replaces path with the result. Documents are
// indented unless minification is enabled.
func (p *Processor) saveJSON(path string, v interface{}, indent bool) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent && !p.cfg.Output.Minify {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	data := buf.Bytes()
	if p.cfg.Output.Minify {
		out, err := minifier.Bytes(jsonMIME, data)
		if err != nil {
			return fmt.Errorf("minify %s: %w", path, err)
		}
		data = out
	}

	return catalog.WriteFile(path, data)
}

// saveGeoJSON writes the features of a layer as a GeoJSON FeatureCollection,
// plus a FlatGeobuf copy when enabled.
func (p *Processor) saveGeoJSON(id, name string, fields []string, features []*geojson.Feature) error {
	fc := geojson.NewFeatureCollection()
	fc.Features = features

	if err := p.saveJSON(p.dataPath(Filename(id)), fc, false); err != nil {
		return err
	}

	if !p.cfg.Output.FlatGeobuf {
		return nil
	}

	if err := os.MkdirAll(p.cfg.Output.DataDir, 0755); err != nil {
		return err
	}
	path := p.dataPath(id + ".fgb")
	err := export.WriteFlatGeobufFile(path, fields, features, export.Options{
		Name:        id,
		Description: name,
		Index:       p.cfg.Output.FGBIndex,
	})
	if err != nil {
		return fmt.Errorf("flatgeobuf %s: %w", path, err)
	}

	log.Debug().Str("layer", id).Str("path", path).Msg("FlatGeobuf written")
	return nil
}

// saveStyle writes the style document of a layer.
func (p *Processor) saveStyle(id string, doc *style.Document) error {
	if err := p.saveJSON(p.stylePath(id), doc, true); err != nil {
		return err
	}
	p.metrics.Style(doc.Type)
	return nil
}

// loadGeoJSON reads a FeatureCollection written by a previous job.
func loadGeoJSON(path string) (*geojson.FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return fc, nil
}
