package source

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog/log"
)

// Runner executes an external command and returns its standard output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// OGRReader reads every layer of a dataset GDAL can open, typically a file
// geodatabase, by listing layers with ogrinfo and streaming each one as
// GeoJSON through ogr2ogr.
type OGRReader struct {
	Run     Runner // defaults to ExecRunner
	Dataset string
	OGRInfo string // defaults to "ogrinfo"
	OGR2OGR string // defaults to "ogr2ogr"
}

// ExecRunner runs the command with os/exec, folding stderr into the error.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

// Read implements Reader. Failing to list layers aborts; a layer that fails
// to convert is logged and skipped.
func (r *OGRReader) Read(ctx context.Context, filter Filter) ([]*Layer, error) {
	if _, err := os.Stat(r.Dataset); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataset, err)
	}

	names, err := r.Layers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataset, err)
	}
	log.Info().Str("source", r.Dataset).Strs("layers", names).Msg("Layers found")

	var layers []*Layer
	for _, name := range names {
		if !filter.Keep(name) {
			log.Debug().Str("layer", name).Msg("Layer filtered out")
			continue
		}

		layer, err := r.Layer(ctx, name)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			log.Error().Err(err).Str("layer", name).Msg("Failed to read layer")
			continue
		}
		layers = append(layers, layer)
	}

	return layers, nil
}

// Layers lists the layer names of the dataset in ogrinfo order.
func (r *OGRReader) Layers(ctx context.Context) ([]string, error) {
	out, err := r.runner()(ctx, pick(r.OGRInfo, "ogrinfo"), "-ro", "-q", r.Dataset)
	if err != nil {
		return nil, err
	}
	return parseLayerList(out), nil
}

// Layer converts one layer to GeoJSON and decodes it.
func (r *OGRReader) Layer(ctx context.Context, name string) (*Layer, error) {
	out, err := r.runner()(ctx, pick(r.OGR2OGR, "ogr2ogr"), "-f", "GeoJSON", "/vsistdout/", r.Dataset, name)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fc, err := geojson.UnmarshalFeatureCollection(out)
	if err != nil {
		return nil, fmt.Errorf("decode layer %s: %w", name, err)
	}

	layer := &Layer{
		Name:     name,
		Fields:   firstPropertyOrder(out, "properties"),
		Features: make([]*geojson.Feature, 0, len(fc.Features)),
	}
	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			layer.Dropped++
			continue
		}
		layer.Features = append(layer.Features, f)
	}

	return layer, nil
}

func (r *OGRReader) runner() Runner {
	if r.Run != nil {
		return r.Run
	}
	return ExecRunner
}

// parseLayerList extracts names from ogrinfo lines like
// "1: roads (Multi Line String)" or "2: lookup".
func parseLayerList(out []byte) []string {
	var names []string
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		idx, rest, ok := strings.Cut(line, ": ")
		if !ok || !isNumber(idx) {
			continue
		}
		if i := strings.LastIndex(rest, " ("); i > 0 && strings.HasSuffix(rest, ")") {
			rest = rest[:i]
		}
		if rest = strings.TrimSpace(rest); rest != "" {
			names = append(names, rest)
		}
	}
	return names
}

func pick(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
