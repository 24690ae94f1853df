// Package cli holds the option group and run lifecycle shared by the batch commands.
package cli

import (
	"context"
	"crypto/tls"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/woozymasta/geosym/internal/config"
	"github.com/woozymasta/geosym/internal/metrics"

	"github.com/google/uuid"
	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

// Options is the go-flags group common to every batch command.
type Options struct {
	ConfigFile  string `short:"c" long:"config"       env:"CONFIG_FILE"  description:"Path to configuration file, built-in defaults when absent" default:"config.yaml"`
	DataDir     string `short:"d" long:"data-dir"     env:"DATA_DIR"     description:"Override output data directory"`
	StylesDir   string `short:"s" long:"styles-dir"   env:"STYLES_DIR"   description:"Override output styles directory"`
	MetricsFile string `short:"m" long:"metrics-file" env:"METRICS_FILE" description:"Write run metrics to a node_exporter textfile"`
	Minify      bool   `long:"minify"                 env:"MINIFY"       description:"Minify JSON artifacts"`
}

// Parse parses the command line into opts, exiting on error or help.
func Parse(opts interface{}) {
	parser := flags.NewParser(opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
}

// Config loads the configuration file, falling back to the defaults when it
// does not exist, applies the flag overrides and validates the result.
func (o *Options) Config() (*config.Config, error) {
	cfg, err := config.Load(o.ConfigFile)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug().Str("path", o.ConfigFile).Msg("Configuration file not found, using defaults")
		cfg, err = config.Default(), nil
	}
	if err != nil {
		return nil, err
	}

	if o.DataDir != "" {
		cfg.Output.DataDir = o.DataDir
	}
	if o.StylesDir != "" {
		cfg.Output.StylesDir = o.StylesDir
	}
	if o.Minify {
		cfg.Output.Minify = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Run is the lifecycle of one command invocation.
type Run struct {
	Metrics *metrics.Recorder
	ID      string
	file    string
	started time.Time
}

// Start tags the global logger with a run id and returns a context canceled
// on SIGINT or SIGTERM.
func (o *Options) Start(job string) (context.Context, context.CancelFunc, *Run) {
	run := &Run{
		ID:      uuid.NewString(),
		Metrics: metrics.New(job),
		file:    o.MetricsFile,
		started: time.Now(),
	}
	log.Logger = log.With().Str("run_id", run.ID).Str("job", job).Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	return ctx, stop, run
}

// Finish stamps and writes the run metrics. It is called before reporting a
// run-aborting err so the textfile also covers failed runs.
func (r *Run) Finish(err error) {
	r.Metrics.Succeeded(err == nil)
	r.Metrics.Finish(time.Now())
	if err := r.Metrics.WriteTextfile(r.file); err != nil {
		log.Error().Err(err).Str("path", r.file).Msg("Failed to write metrics")
	}

	log.Info().Dur("elapsed", time.Since(r.started)).Bool("ok", err == nil).Msg("Run finished")
}

// HTTPClient returns the client used for remote sources and thumbnails.
func HTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			TLSNextProto:        make(map[string]func(string, *tls.Conn) http.RoundTripper),
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
		},
		Timeout: 60 * time.Second,
	}
}
