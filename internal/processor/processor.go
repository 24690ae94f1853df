// Package processor runs the batch jobs turning source layers into map
// artifacts: GeoJSON, FlatGeobuf, style documents and the layer catalog.
package processor

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/woozymasta/geosym/internal/catalog"
	"github.com/woozymasta/geosym/internal/config"
	"github.com/woozymasta/geosym/internal/metrics"
	"github.com/woozymasta/geosym/internal/style"
)

// PartialLayerError reports a layer that failed as a whole. The layer is left
// out of the catalog and its siblings are still processed.
type PartialLayerError struct {
	Err   error
	Layer string
}

func (e *PartialLayerError) Error() string {
	return fmt.Sprintf("layer %s: %v", e.Layer, e.Err)
}

func (e *PartialLayerError) Unwrap() error {
	return e.Err
}

// Processor carries the configuration shared by every job.
type Processor struct {
	cfg     *config.Config
	styles  *style.Builder
	metrics *metrics.Recorder
	client  *http.Client
}

// New returns a processor. rec and client may be nil.
func New(cfg *config.Config, rec *metrics.Recorder, client *http.Client) *Processor {
	if client == nil {
		client = http.DefaultClient
	}
	return &Processor{
		cfg:     cfg,
		styles:  style.NewBuilder(cfg.StyleOptions()),
		metrics: rec,
		client:  client,
	}
}

// Catalog opens the layer catalog in the data directory.
func (p *Processor) Catalog() *catalog.Catalog {
	return catalog.Open(filepath.Join(p.cfg.Output.DataDir, p.cfg.Output.Catalog))
}

func (p *Processor) dataPath(filename string) string {
	return filepath.Join(p.cfg.Output.DataDir, filename)
}

func (p *Processor) stylePath(id string) string {
	return filepath.Join(p.cfg.Output.StylesDir, id+"_style.json")
}

// Filename returns the GeoJSON file name of a layer id.
func Filename(id string) string {
	return id + ".geojson"
}
