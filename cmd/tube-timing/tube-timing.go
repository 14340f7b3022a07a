package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"github.com/versjoost/tube-timing/pkg/board"

	_ "time/tzdata"
)

func main() {
	if os.Getenv("TUBE_TIMING_LOG_FORMAT") != "JSON" {
		// Departure output goes to stdout; keep logs off it
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	if os.Getenv("TUBE_TIMING_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "tube-timing",
		Description: "London Underground departure boards from the TfL Unified API",

		Commands: board.RegisterCLI(),
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
