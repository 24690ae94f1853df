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

	Base  string   `short:"b" long:"base"  env:"THEMATIC_BASE"                 description:"Catalog id of the base layer"`
	Limit []string `short:"l" long:"limit" env:"THEMATIC_LIMIT" env-delim:"," description:"Only derive these thematic layer ids"`
}

func main() {
	var opts Options
	cli.Parse(&opts)

	opts.Logger.Setup()

	cfg, err := opts.Run.Config()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if opts.Base != "" {
		cfg.Thematic.Base = opts.Base
	}

	if len(opts.Limit) > 0 {
		byID := make(map[string]bool, len(opts.Limit))
		for _, id := range opts.Limit {
			byID[id] = true
		}

		layers := cfg.Thematic.Layers[:0]
		for _, l := range cfg.Thematic.Layers {
			if byID[l.ID] {
				layers = append(layers, l)
				delete(byID, l.ID)
			}
		}
		for id := range byID {
			log.Error().Str("layer", id).Msg("Layer specified in --limit not found in configuration")
		}
		cfg.Thematic.Layers = layers
	}

	ctx, stop, run := opts.Run.Start("thematic")
	defer stop()

	log.Info().
		Str("base", cfg.Thematic.Base).
		Int("layers", len(cfg.Thematic.Layers)).
		Msg("Starting thematic")

	res, err := processor.New(cfg, run.Metrics, nil).Thematic(ctx)
	run.Finish(err)
	if err != nil {
		log.Fatal().Err(err).Msg("Thematic failed")
	}

	log.Info().
		Int("layers", len(res.Entries)).
		Int("unclassified", res.Unclassified).
		Int("failed", res.Failed).
		Msg("Thematic finished successfully")
}
