package board

import (
	"fmt"
	"sort"
	"time"

	"github.com/sourcegraph/conc/pool"
	"github.com/versjoost/tube-timing/pkg/departures"
	"github.com/versjoost/tube-timing/pkg/tfl"
)

type lineTimetableResult struct {
	key     string
	payload any
	err     error
}

// fetchLineTimetables pulls the per-line timetables for every line/direction
// pair concurrently and returns the raw payloads keyed for debug capture.
func fetchLineTimetables(client *tfl.Client, lineIDs []string, stopID string, directions []string) []lineTimetableResult {
	p := pool.NewWithResults[lineTimetableResult]()
	p.WithMaxGoroutines(4)

	for _, lineID := range lineIDs {
		for _, direction := range directions {
			lineID, direction := lineID, direction
			p.Go(func() lineTimetableResult {
				payload, err := client.GetLineTimetable(lineID, stopID, direction)

				return lineTimetableResult{
					key:     fmt.Sprintf("line_timetable_%s_%s", lineID, direction),
					payload: payload,
					err:     err,
				}
			})
		}
	}

	results := p.Wait()
	sort.Slice(results, func(i, j int) bool { return results[i].key < results[j].key })

	return results
}

// timetableLineIDs decides which lines to fetch timetables for: every known
// line, narrowed to the selected set when a line filter is active.
func timetableLineIDs(lineDetails []departures.LineDetail, selectedLines map[string]bool) []string {
	var lineIDs []string
	for _, line := range lineDetails {
		if len(selectedLines) == 0 || selectedLines[line.ID] {
			lineIDs = append(lineIDs, line.ID)
		}
	}

	// A line filter can name lines the stop metadata never mentioned
	if len(lineIDs) == 0 && len(selectedLines) > 0 {
		for lineID := range selectedLines {
			lineIDs = append(lineIDs, lineID)
		}
		sort.Strings(lineIDs)
	}

	return lineIDs
}

func timetableDirections(timetableDirection string) []string {
	if timetableDirection != "" {
		return []string{timetableDirection}
	}

	return []string{"inbound", "outbound"}
}

// expandTimetableResults runs every successfully fetched payload through the
// timetable expander, collecting error messages from the failures.
func expandTimetableResults(results []lineTimetableResult, now time.Time, windowEnd time.Time, location *time.Location) ([]departures.Departure, []string) {
	var scheduled []departures.Departure
	var errorMessages []string

	for _, result := range results {
		if result.err != nil {
			errorMessages = append(errorMessages, result.err.Error())
			continue
		}

		scheduled = append(scheduled, departures.TimetableToDepartures(result.payload, now, windowEnd, location)...)
	}

	return scheduled, errorMessages
}
