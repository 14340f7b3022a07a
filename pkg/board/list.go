package board

import (
	"fmt"
	"sort"
	"strings"

	"github.com/urfave/cli/v2"
	"github.com/versjoost/tube-timing/pkg/departures"
	"github.com/versjoost/tube-timing/pkg/util"
)

func runList(c *cli.Context) error {
	if c.Args().Get(0) == "" {
		return cli.Exit("Missing required argument: station (example: \"Oxford Circus\").", 2)
	}

	board, err := resolveBoardContext(c)
	if err != nil {
		return err
	}

	allowLineTimetables := shouldFetchLineTimetables(board.selectedLines, board.lineDetails, c.Bool("full-timetable"), false)
	if !allowLineTimetables {
		fmt.Printf("Warning: %s has %d lines; skipping per-line timetables. Use --line or --full-timetable.\n",
			board.stationName, len(board.lineDetails))
	}

	fmt.Printf("Available options for %s:\n", board.stationName)

	arrivalsForDisplay := departures.FilterArrivalsByLine(board.arrivals, board.selectedLines)
	printDirections(arrivalsForDisplay)

	filteredArrivals := departures.FilterArrivalsByDirection(arrivalsForDisplay, board.direction)
	liveDestinations := extractLiveDestinations(filteredArrivals)
	if len(liveDestinations) > 0 {
		fmt.Println("Live destinations:")
		for _, destination := range liveDestinations {
			fmt.Println(destination)
		}
	}

	arrivalsForDirection := arrivalsForDisplay
	if len(board.selectedLines) == 0 && len(arrivalsForDirection) == 0 {
		arrivalsForDirection = board.arrivals
	}
	timetableDirection := departures.InferTimetableDirection(arrivalsForDirection, board.direction)
	if departures.IsCardinalDirection(board.direction) && timetableDirection == "" {
		return cli.Exit(fmt.Sprintf("Could not infer inbound/outbound for '%s'.", board.direction), 2)
	}

	var timetableDestinations []string
	if allowLineTimetables {
		lineIDs := timetableLineIDs(board.lineDetails, board.selectedLines)
		results := fetchLineTimetables(board.client, lineIDs, board.stopID, timetableDirections(timetableDirection))

		for _, result := range results {
			if result.err != nil {
				continue
			}
			timetableDestinations = append(timetableDestinations, departures.TimetableDestinations(result.payload)...)
		}

		timetableDestinations = util.RemoveDuplicateStrings(timetableDestinations, nil)
		sort.Strings(timetableDestinations)
	}

	if len(timetableDestinations) > 0 {
		fmt.Println("Timetable destinations:")
		for _, destination := range timetableDestinations {
			fmt.Println(departures.CompactDestination(destination))
		}
	}

	if len(liveDestinations) == 0 && len(timetableDestinations) == 0 {
		if !allowLineTimetables {
			fmt.Println("No live destinations right now. Timetable destinations skipped; use --line or --full-timetable.")
		} else {
			fmt.Println("No destinations available right now.")
		}
	}

	return nil
}

func extractLiveDestinations(arrivals []departures.ArrivalPrediction) []string {
	var destinations []string
	for _, arrival := range arrivals {
		destination := arrival.Towards
		if destination == "" {
			destination = arrival.DestinationName
		}
		if arrival.Via != "" && !strings.Contains(destination, arrival.Via) {
			destination = strings.TrimSpace(fmt.Sprintf("%s via %s", destination, arrival.Via))
		}

		if destination != "" {
			destinations = append(destinations, departures.CompactDestination(destination))
		}
	}

	destinations = util.RemoveDuplicateStrings(destinations, nil)
	sort.Strings(destinations)

	return destinations
}

// printDirections summarises the directions observable in live arrivals:
// cardinals found in platform names (with their majority inbound/outbound
// reading) followed by the plain inbound/outbound values.
func printDirections(arrivals []departures.ArrivalPrediction) {
	directionCounts := map[string]int{}
	cardinalMap := map[string]map[string]int{}

	for _, arrival := range arrivals {
		if arrival.Direction != "" {
			directionCounts[arrival.Direction] += 1
		}

		platform := strings.ToLower(arrival.PlatformName)
		for _, cardinal := range []string{"northbound", "southbound", "eastbound", "westbound"} {
			if !strings.Contains(platform, cardinal) {
				continue
			}

			if cardinalMap[cardinal] == nil {
				cardinalMap[cardinal] = map[string]int{}
			}
			if arrival.Direction != "" {
				cardinalMap[cardinal][arrival.Direction] += 1
			}
		}
	}

	if len(directionCounts) == 0 && len(cardinalMap) == 0 {
		fmt.Println("Directions: no live arrivals to infer.")
		return
	}

	fmt.Println("Directions:")

	cardinals := make([]string, 0, len(cardinalMap))
	for cardinal := range cardinalMap {
		cardinals = append(cardinals, cardinal)
	}
	sort.Strings(cardinals)

	for _, cardinal := range cardinals {
		preferred := ""
		preferredCount := 0
		for direction, count := range cardinalMap[cardinal] {
			if count > preferredCount || (count == preferredCount && direction < preferred) {
				preferred = direction
				preferredCount = count
			}
		}

		if preferred != "" {
			fmt.Printf("%s (%s)\n", cardinal, preferred)
		} else {
			fmt.Println(cardinal)
		}
	}

	directions := make([]string, 0, len(directionCounts))
	for direction := range directionCounts {
		directions = append(directions, direction)
	}
	sort.Strings(directions)

	for _, direction := range directions {
		if direction == "inbound" || direction == "outbound" {
			fmt.Println(direction)
		}
	}
}
