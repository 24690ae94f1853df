package main

import (
	"github.com/woozymasta/geosym/internal/cli"
	"github.com/woozymasta/geosym/internal/logger"
	"github.com/woozymasta/geosym/internal/processor"

	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`
	Run    cli.Options   `group:"Run options"`

	Sources    []string `short:"i" long:"source"     env:"SOURCES"   env-delim:"," description:"Dataset to read: .gdb, ESRI JSON file or directory, ArcGIS REST URL"`
	Targets    []string `short:"t" long:"target"     env:"TARGETS"   env-delim:"," description:"Only extract layers matching these names"`
	Thumbnail  string   `long:"thumbnail"            env:"THUMBNAIL"               description:"Map thumbnail image to convert"`
	FlatGeobuf bool     `short:"f" long:"flatgeobuf" env:"FLATGEOBUF"              description:"Also write FlatGeobuf copies of every layer"`
}

func main() {
	var opts Options
	cli.Parse(&opts)

	opts.Logger.Setup()

	cfg, err := opts.Run.Config()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if len(opts.Sources) > 0 {
		cfg.Source.Paths = opts.Sources
	}
	if len(opts.Targets) > 0 {
		cfg.Source.Targets = opts.Targets
	}
	if opts.Thumbnail != "" {
		cfg.Map.Thumbnail = opts.Thumbnail
	}
	if opts.FlatGeobuf {
		cfg.Output.FlatGeobuf = true
	}

	if len(cfg.Source.Paths) == 0 {
		log.Fatal().Msg("No source given, use --source or source.paths")
	}

	ctx, stop, run := opts.Run.Start("extract")
	defer stop()

	log.Info().
		Strs("sources", cfg.Source.Paths).
		Strs("targets", cfg.Source.Targets).
		Str("data_dir", cfg.Output.DataDir).
		Msg("Starting extract")

	p := processor.New(cfg, run.Metrics, cli.HTTPClient())
	res, err := p.Extract(ctx, cfg.Source.Paths)
	run.Finish(err)
	if err != nil {
		log.Fatal().Err(err).Msg("Extract failed")
	}

	log.Info().
		Int("layers", len(res.Entries)).
		Int("failed", res.Failed).
		Int("dropped", res.Dropped).
		Msg("Extract finished successfully")
}
