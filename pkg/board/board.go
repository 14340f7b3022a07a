package board

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/kr/pretty"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"github.com/versjoost/tube-timing/pkg/departures"
	"github.com/versjoost/tube-timing/pkg/tfl"
	"github.com/versjoost/tube-timing/pkg/util"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// boardContext is everything the now/list commands resolve before they can
// ask for departures: the station, its line universe, the live arrivals, and
// the validated filters.
type boardContext struct {
	client  *tfl.Client
	aliases departures.AliasIndex
	debug   *debugCapture

	stopID      string
	stationName string
	lineDetails []departures.LineDetail
	arrivals    []departures.ArrivalPrediction

	selectedLines map[string]bool
	direction     string
}

type filterState struct {
	Lines              []string
	Direction          string
	TimetableDirection string
	Towards            string
}

func runNow(c *cli.Context) error {
	station := c.Args().Get(0)
	window := c.Args().Get(1)
	if station == "" {
		return cli.Exit("Missing required argument: station (example: \"Oxford Circus\").", 2)
	}
	if window == "" {
		return cli.Exit("Missing required argument: window (example: 10m or 1h30m).", 2)
	}

	format := c.String("format")
	if !validOutputFormat(format) {
		return cli.Exit(fmt.Sprintf("Unknown output format %q (expected text, json or csv).", format), 2)
	}

	location := departures.LondonLocation()
	now := time.Now().In(location)

	windowDuration, err := departures.ParseWindow(window)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Invalid window: %s", err), 2)
	}
	windowEnd := now.Add(windowDuration)

	board, err := resolveBoardContext(c)
	if err != nil {
		return err
	}

	towards := c.String("towards")
	allowLineTimetables := shouldFetchLineTimetables(board.selectedLines, board.lineDetails, c.Bool("full-timetable"), towards != "")
	if !allowLineTimetables {
		log.Warn().
			Str("station", board.stationName).
			Int("lines", len(board.lineDetails)).
			Msg("Skipping per-line timetables; use --line or --full-timetable")
	} else if towards != "" && len(board.selectedLines) == 0 && !c.Bool("full-timetable") && len(board.lineDetails) > 1 {
		log.Info().Msg("--towards enabled per-line timetables for this multi-line station. Use --line to limit requests")
	}

	filteredArrivals := departures.FilterArrivalsByLine(board.arrivals, board.selectedLines)
	filteredArrivals = departures.FilterArrivalsByDirection(filteredArrivals, board.direction)
	live := departures.ArrivalsToDepartures(filteredArrivals, now, windowEnd, location)

	arrivalsForDirection := filteredArrivals
	if len(board.selectedLines) == 0 && len(arrivalsForDirection) == 0 {
		arrivalsForDirection = board.arrivals
	}
	timetableDirection := departures.InferTimetableDirection(arrivalsForDirection, board.direction)
	if departures.IsCardinalDirection(board.direction) && timetableDirection == "" {
		return cli.Exit(fmt.Sprintf("Could not infer inbound/outbound for '%s'.", board.direction), 2)
	}

	log.Debug().Msgf("Resolved filters: %s", pretty.Sprint(filterState{
		Lines:              sortedKeys(board.selectedLines),
		Direction:          board.direction,
		TimetableDirection: timetableDirection,
		Towards:            towards,
	}))

	var scheduled []departures.Departure
	var timetableErrors []string

	if len(board.selectedLines) == 0 {
		payload, err := board.client.GetStopPointTimetable(board.stopID, timetableDirection)
		if err != nil {
			timetableErrors = append(timetableErrors, err.Error())
		} else {
			board.debug.add("stop_point_timetable", payload)
			scheduled = departures.TimetableToDepartures(payload, now, windowEnd, location)
		}
	}

	if len(scheduled) == 0 && allowLineTimetables {
		lineIDs := timetableLineIDs(board.lineDetails, board.selectedLines)
		results := fetchLineTimetables(board.client, lineIDs, board.stopID, timetableDirections(timetableDirection))

		for _, result := range results {
			if result.err == nil {
				board.debug.add(result.key, result.payload)
			}
		}

		lineScheduled, lineErrors := expandTimetableResults(results, now, windowEnd, location)
		scheduled = append(scheduled, lineScheduled...)
		timetableErrors = append(timetableErrors, lineErrors...)
	}

	combined := departures.MergeDepartures(live, scheduled)

	if towards != "" {
		combinedBefore := len(combined)
		combined = departures.FilterByTowards(combined, towards, board.direction, board.aliases)

		if combinedBefore > 0 && len(combined) == 0 {
			var sample []string
			for _, departure := range live {
				sample = append(sample, board.aliases.CanonicalizeDisplayDestination(departure.Destination))
			}
			sample = util.RemoveDuplicateStrings(sample, nil)
			sort.Strings(sample)
			if len(sample) > 5 {
				sample = sample[:5]
			}

			if len(sample) > 0 {
				log.Info().
					Str("towards", towards).
					Strs("live_destinations", sample).
					Msg("--towards filtered out all departures")
			}
		}
	}

	ordered := departures.OrderDeparturesForDisplay(combined, board.aliases)

	board.debug.add("timetable_errors", timetableErrors)
	board.debug.add("combined_count", len(ordered))
	board.debug.write(board.client)

	if format == formatText {
		directionLabel := ""
		if board.direction != "" {
			directionLabel = fmt.Sprintf(", direction: %s", board.direction)
		}
		fmt.Printf("Expected departures at %s (next %s%s):\n", board.stationName, window, directionLabel)

		if len(ordered) == 0 {
			fmt.Println("No departures found in this window.")
			return nil
		}
	}

	return renderDepartures(ordered, now, format, board.aliases)
}

// resolveBoardContext performs the shared now/list prelude: credentials,
// station search and selection, stop metadata, live arrivals, and line and
// direction filter validation.
func resolveBoardContext(c *cli.Context) (*boardContext, error) {
	env := util.GetEnvironmentVariables()

	client, err := tfl.NewClientFromEnvironment(env)
	if err != nil {
		return nil, cli.Exit(err.Error(), 2)
	}

	debugPath := c.String("debug-file")
	if debugPath == "" && c.Bool("debug") {
		debugPath = defaultDebugPath
	}

	board := &boardContext{
		client:  client,
		aliases: departures.AliasIndexFromEnvironment(env),
		debug:   newDebugCapture(debugPath),
	}

	station := c.Args().Get(0)
	stationQuery := ResolveStationQuery(station)
	if stationQuery != station {
		log.Info().Str("station", station).Str("query", stationQuery).Msg("Interpreting station alias")
	}

	matches, err := client.SearchStopPoints(stationQuery, []string{c.String("mode")})
	if err != nil {
		return nil, cli.Exit(err.Error(), 2)
	}
	if len(matches) == 0 {
		return nil, cli.Exit(fmt.Sprintf("No station matches for '%s'.", station), 2)
	}
	board.debug.add("matches", matches)

	match, usedFallback := chooseStationMatch(stationQuery, matches)
	if usedFallback {
		log.Info().Str("match", match.Name).Str("query", stationQuery).Msg("Using closest station match")
	}

	board.stopID = match.ID
	board.stationName = match.Name

	stopPoint, err := client.GetStopPoint(match.ID)
	if err != nil {
		// Stop metadata is optional - the line universe falls back to
		// whatever the arrivals mention
		log.Debug().Err(err).Msg("Failed to fetch stop point metadata")
	} else {
		board.debug.add("stop_point", stopPoint)
		if stopPoint.CommonName != "" {
			board.stationName = stopPoint.CommonName
		}
		for _, line := range stopPoint.Lines {
			if line.ID != "" {
				name := line.Name
				if name == "" {
					name = line.ID
				}
				board.lineDetails = append(board.lineDetails, departures.LineDetail{ID: line.ID, Name: name})
			}
		}
	}

	board.arrivals, err = client.GetArrivals(match.ID)
	if err != nil {
		return nil, cli.Exit(err.Error(), 2)
	}
	board.debug.add("arrivals", board.arrivals)

	if len(board.lineDetails) == 0 {
		board.lineDetails = departures.CollectLineDetails(board.arrivals)
	}

	var unknownLines []string
	board.selectedLines, unknownLines = departures.ResolveLineFilter(c.StringSlice("line"), board.lineDetails)
	if len(unknownLines) > 0 {
		message := fmt.Sprintf("%s.", departures.LineFilterError(unknownLines))
		if available := formatAvailableLines(board.lineDetails); len(available) > 0 {
			message += fmt.Sprintf("\nAvailable lines: %s", strings.Join(available, ", "))
		}
		return nil, cli.Exit(message, 2)
	}

	if direction := c.String("direction"); direction != "" {
		board.direction = departures.NormalizeDirection(direction)
		if board.direction == "" {
			return nil, cli.Exit(departures.ErrInvalidDirection.Error(), 2)
		}
		if departures.IsCardinalDirection(board.direction) && len(board.selectedLines) > 1 {
			return nil, cli.Exit("Cardinal directions require a single line; use inbound/outbound or select one line.", 2)
		}
	}

	return board, nil
}

func sortedKeys(set map[string]bool) []string {
	keys := maps.Keys(set)
	slices.Sort(keys)

	return keys
}
