package board

import (
	"strings"

	"github.com/versjoost/tube-timing/pkg/departures"
	"github.com/versjoost/tube-timing/pkg/tfl"
)

// Shorthand station queries people actually type.
var stationQueryAliases = map[string]string{
	"tcr": "Tottenham Court Road",
}

// ResolveStationQuery expands a shorthand station query into the search text
// TfL will recognise.
func ResolveStationQuery(value string) string {
	token := departures.NormalizeLineToken(value)
	if alias, ok := stationQueryAliases[token]; ok {
		return alias
	}

	return value
}

func stationInitials(name string) string {
	words := strings.Fields(departures.NormalizeName(name))
	if len(words) < 2 {
		return ""
	}

	var initials strings.Builder
	for _, word := range words {
		initials.WriteByte(word[0])
	}

	return initials.String()
}

// chooseStationMatch picks the best stop point for a station query: an exact
// normalized-name match, else a candidate whose name initials spell the query
// ("tcr" -> Tottenham Court Road), else the first search result. The second
// return reports whether a fallback was used.
func chooseStationMatch(stationQuery string, matches []tfl.StopPointMatch) (tfl.StopPointMatch, bool) {
	queryNorm := departures.NormalizeName(stationQuery)
	for _, candidate := range matches {
		if departures.NormalizeName(candidate.Name) == queryNorm {
			return candidate, false
		}
	}

	if queryToken := departures.NormalizeLineToken(stationQuery); queryToken != "" {
		for _, candidate := range matches {
			if stationInitials(candidate.Name) == queryToken {
				return candidate, true
			}
		}
	}

	return matches[0], true
}

// Stations with this many lines or more skip per-line timetable fetches
// unless explicitly asked.
const lineTimetableLineThreshold = 2

func shouldFetchLineTimetables(selectedLines map[string]bool, lineDetails []departures.LineDetail, fullTimetable bool, allowIfTowards bool) bool {
	if len(selectedLines) > 0 || fullTimetable || allowIfTowards {
		return true
	}

	return len(lineDetails) < lineTimetableLineThreshold
}

func formatAvailableLines(lineDetails []departures.LineDetail) []string {
	seen := map[string]bool{}

	var formatted []string
	for _, line := range lineDetails {
		if line.ID == "" || seen[line.ID] {
			continue
		}
		seen[line.ID] = true

		name := line.Name
		if name == "" {
			name = line.ID
		}

		if departures.NormalizeLineToken(name) != departures.NormalizeLineToken(line.ID) {
			formatted = append(formatted, name+" ("+line.ID+")")
		} else {
			formatted = append(formatted, name)
		}
	}

	return formatted
}
