// Package source reads vector layers from ESRI JSON exports and from
// geodatabases through the GDAL command line tools.
package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/paulmach/orb/geojson"
)

// ErrDataset is returned when a dataset cannot be opened at all.
var ErrDataset = errors.New("dataset unavailable")

// Layer is one vector layer read from a source.
type Layer struct {
	Name     string
	Fields   []string // source column order
	Features []*geojson.Feature
	Dropped  int // features whose geometry could not be translated
}

// Collection wraps the layer features as a feature collection.
func (l *Layer) Collection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	fc.Features = l.Features
	return fc
}

// Reader yields the layers of one dataset.
type Reader interface {
	Read(ctx context.Context, filter Filter) ([]*Layer, error)
}

// Filter selects layers by name.
type Filter struct {
	SkipPrefixes []string // system tables, e.g. "a0"
	Targets      []string // when set, only layers matching one of them
}

// Keep reports whether the layer name passes the filter. A target matches when
// either name contains the other, case-insensitively.
func (f Filter) Keep(name string) bool {
	for _, p := range f.SkipPrefixes {
		if p != "" && strings.HasPrefix(name, p) {
			return false
		}
	}

	if len(f.Targets) == 0 {
		return true
	}

	lower := strings.ToLower(name)
	for _, t := range f.Targets {
		t = strings.ToLower(t)
		if t != "" && (strings.Contains(lower, t) || strings.Contains(t, lower)) {
			return true
		}
	}
	return false
}

// Open picks a reader for location: http(s) URLs and *.json files or
// directories holding them are read as ESRI JSON, anything else (a .gdb
// directory, a shapefile, a GeoPackage) through GDAL.
func Open(location string, client *http.Client) (Reader, error) {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return &EsriReader{Location: location, Client: client}, nil
	}

	info, err := os.Stat(location)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataset, err)
	}

	if !info.IsDir() {
		if strings.EqualFold(filepath.Ext(location), ".json") {
			return &EsriReader{Location: location, Client: client}, nil
		}
		return &OGRReader{Dataset: location}, nil
	}

	if strings.EqualFold(filepath.Ext(location), ".gdb") {
		return &OGRReader{Dataset: location}, nil
	}

	matches, err := filepath.Glob(filepath.Join(location, "*.json"))
	if err != nil {
		return nil, err
	}
	if len(matches) > 0 {
		return &EsriReader{Location: location, Client: client}, nil
	}

	return &OGRReader{Dataset: location}, nil
}

// Slug normalizes a layer name into an identifier: lower case with every run
// of characters other than letters and digits collapsed into one underscore.
func Slug(name string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	return b.String()
}

// keyOrder returns the keys of a JSON object in document order.
func keyOrder(raw json.RawMessage) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}
		keys = append(keys, key)

		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
	}

	return keys, nil
}

// firstPropertyOrder finds the first feature of a FeatureCollection-like
// document and returns the key order of the object under member.
func firstPropertyOrder(data []byte, member string) []string {
	var doc struct {
		Features []map[string]json.RawMessage `json:"features"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil
	}
	for _, f := range doc.Features {
		raw, ok := f[member]
		if !ok || len(raw) == 0 || string(raw) == "null" {
			continue
		}
		keys, err := keyOrder(raw)
		if err == nil {
			return keys
		}
	}
	return nil
}
