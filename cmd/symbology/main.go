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
}

func main() {
	var opts Options
	cli.Parse(&opts)

	opts.Logger.Setup()

	cfg, err := opts.Run.Config()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx, stop, run := opts.Run.Start("symbology")
	defer stop()

	res, err := processor.New(cfg, run.Metrics, nil).Symbology(ctx)
	run.Finish(err)
	if err != nil {
		log.Fatal().Err(err).Msg("Symbology failed")
	}

	if len(res.Skipped) > 0 {
		log.Warn().Strs("layers", res.Skipped).Msg("Layers without data were skipped")
	}
	log.Info().Int("styled", len(res.Styled)).Msg("Symbology finished successfully")
}
