package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/woozymasta/geosym/internal/geo"

	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog/log"
)

// EsriReader reads ESRI JSON FeatureSets from a file, a directory of *.json
// files (one layer per file named after its stem) or an ArcGIS REST query URL.
type EsriReader struct {
	Client   *http.Client
	Location string
}

// FeatureSet is the subset of an ESRI FeatureSet document used here.
type FeatureSet struct {
	Error            *esriError        `json:"error,omitempty" yaml:"-"`
	SpatialReference map[string]any    `json:"spatialReference,omitempty" yaml:"spatialReference,omitempty"`
	GeometryType     string            `json:"geometryType,omitempty" yaml:"geometryType,omitempty"`
	Fields           []Field           `json:"fields,omitempty" yaml:"fields,omitempty"`
	Features         []json.RawMessage `json:"features" yaml:"-"` // decoded one by one
}

// Field describes one attribute column of a FeatureSet.
type Field struct {
	Name  string `json:"name" yaml:"name"`
	Type  string `json:"type,omitempty" yaml:"type,omitempty"`
	Alias string `json:"alias,omitempty" yaml:"alias,omitempty"`
}

type esriError struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// Read implements Reader.
func (r *EsriReader) Read(ctx context.Context, filter Filter) ([]*Layer, error) {
	if strings.HasPrefix(r.Location, "http://") || strings.HasPrefix(r.Location, "https://") {
		layer, err := r.fetch(ctx)
		if err != nil {
			return nil, err
		}
		return keep([]*Layer{layer}, filter), nil
	}

	info, err := os.Stat(r.Location)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataset, err)
	}

	paths := []string{r.Location}
	if info.IsDir() {
		if paths, err = filepath.Glob(filepath.Join(r.Location, "*.json")); err != nil {
			return nil, err
		}
		sort.Strings(paths)
	}

	var layers []*Layer
	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if !filter.Keep(name) {
			log.Debug().Str("layer", name).Msg("Layer filtered out")
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDataset, err)
		}

		layer, err := DecodeFeatureSet(name, data)
		if err != nil {
			// a broken file is a broken layer, not a broken dataset
			log.Error().Err(err).Str("path", path).Msg("Failed to decode layer")
			continue
		}
		layers = append(layers, layer)
	}

	return layers, nil
}

func (r *EsriReader) fetch(ctx context.Context) (*Layer, error) {
	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.Location, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataset, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataset, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrDataset, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataset, err)
	}

	return DecodeFeatureSet(urlLayerName(r.Location), data)
}

// DecodeFeatureSet decodes an ESRI FeatureSet into a layer. Features whose
// geometry cannot be translated are dropped and counted.
func DecodeFeatureSet(name string, data []byte) (*Layer, error) {
	var fs FeatureSet
	if err := json.Unmarshal(data, &fs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	if fs.Error != nil {
		return nil, fmt.Errorf("%s: service error %d: %s", name, fs.Error.Code, fs.Error.Message)
	}

	layer := &Layer{
		Name:     name,
		Features: make([]*geojson.Feature, 0, len(fs.Features)),
	}

	for _, field := range fs.Fields {
		layer.Fields = append(layer.Fields, field.Name)
	}
	if len(layer.Fields) == 0 {
		layer.Fields = firstPropertyOrder(data, "attributes")
	}

	for i, raw := range fs.Features {
		f, err := geo.UnmarshalEsriFeature(raw)
		if err != nil {
			if !errors.Is(err, geo.ErrInputFormat) {
				return nil, err
			}
			log.Trace().Err(err).Str("layer", name).Int("feature", i).Msg("Feature dropped")
			layer.Dropped++
			continue
		}
		layer.Features = append(layer.Features, f)
	}

	return layer, nil
}

// urlLayerName derives a layer name from a REST URL such as
// ".../MapServer/3/query?..." or ".../roads.json".
func urlLayerName(rawURL string) string {
	path := rawURL
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	parts := strings.Split(strings.Trim(path, "/"), "/")

	for i := len(parts) - 1; i >= 0; i-- {
		p := parts[i]
		if p == "" || p == "query" {
			continue
		}
		if i > 0 && isNumber(p) {
			return parts[i-1] + "_" + p
		}
		return strings.TrimSuffix(p, filepath.Ext(p))
	}

	return "layer"
}

func isNumber(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func keep(layers []*Layer, filter Filter) []*Layer {
	out := layers[:0]
	for _, l := range layers {
		if filter.Keep(l.Name) {
			out = append(out, l)
		}
	}
	return out
}
