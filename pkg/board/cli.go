package board

import (
	"github.com/urfave/cli/v2"
)

// RegisterCLI returns the departure board command set.
func RegisterCLI() []*cli.Command {
	return []*cli.Command{
		{
			Name:      "now",
			Usage:     "Show live and scheduled departures in a future window",
			ArgsUsage: "<station> <window>",
			Description: "Show expected departures for a station.\n\n" +
				"Examples:\n" +
				"  tube-timing now \"Regent's Park\" 30m\n" +
				"  tube-timing now \"Regent's Park\" 60m --direction southbound\n" +
				"  tube-timing now \"Waterloo\" 60m --line jubilee --line northern\n" +
				"  tube-timing now \"Bank\" 20m --towards \"Charing Cross\"",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "mode",
					Value: "tube",
					Usage: "TfL mode filter",
				},
				&cli.StringSliceFlag{
					Name:    "line",
					Aliases: []string{"l"},
					Usage:   "Filter by line name/id (repeatable or comma-separated)",
				},
				&cli.BoolFlag{
					Name:  "full-timetable",
					Usage: "Allow per-line timetables on stations with many lines (may be slow)",
				},
				&cli.StringFlag{
					Name:  "direction",
					Usage: "Filter by direction (inbound/outbound or northbound/southbound/etc)",
				},
				&cli.StringFlag{
					Name:  "towards",
					Usage: "Filter by destination text, e.g. Morden or High Barnet",
				},
				&cli.BoolFlag{
					Name:  "debug",
					Usage: "Write raw API payloads to " + defaultDebugPath,
				},
				&cli.StringFlag{
					Name:  "debug-file",
					Usage: "Write raw API payloads to the given JSON file",
				},
				&cli.StringFlag{
					Name:  "format",
					Value: "text",
					Usage: "Output format: text, json or csv",
				},
			},
			Action: runNow,
		},
		{
			Name:      "list",
			Usage:     "List available directions and destinations for a station",
			ArgsUsage: "<station>",
			Description: "List available directions and destinations for a station.\n\n" +
				"Examples:\n" +
				"  tube-timing list \"Oxford Circus\"\n" +
				"  tube-timing list \"Oxford Circus\" --line victoria\n" +
				"  tube-timing list \"Waterloo\" --direction southbound",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "mode",
					Value: "tube",
					Usage: "TfL mode filter",
				},
				&cli.StringSliceFlag{
					Name:    "line",
					Aliases: []string{"l"},
					Usage:   "Filter by line name/id (repeatable or comma-separated)",
				},
				&cli.BoolFlag{
					Name:  "full-timetable",
					Usage: "Allow per-line timetables on stations with many lines (may be slow)",
				},
				&cli.StringFlag{
					Name:  "direction",
					Usage: "Filter destinations by direction (inbound/outbound or northbound)",
				},
			},
			Action: runList,
		},
		{
			Name:   "env",
			Usage:  "Check API environment variables",
			Action: runEnv,
		},
	}
}
