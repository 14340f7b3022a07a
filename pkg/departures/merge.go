package departures

import (
	"sort"
	"strings"
	"time"
)

// DuplicateTolerance is how far apart a live and a scheduled departure for a
// similar destination can be while still being treated as the same physical
// service. Tunable; the default matches observed TfL feed skew.
const DuplicateTolerance = 90 * time.Second

// MergeDepartures combines live and scheduled departures into one ascending
// list. Every live departure is kept; a scheduled departure is dropped when a
// live one exists within DuplicateTolerance of it with a similar destination.
func MergeDepartures(live []Departure, scheduled []Departure) []Departure {
	merged := make([]Departure, 0, len(live)+len(scheduled))
	merged = append(merged, live...)

	for _, candidate := range scheduled {
		if isDuplicateOfLive(candidate, live) {
			continue
		}
		merged = append(merged, candidate)
	}

	sort.Slice(merged, func(i, j int) bool {
		return merged[i].When.Before(merged[j].When)
	})

	return merged
}

func isDuplicateOfLive(candidate Departure, live []Departure) bool {
	for _, liveDeparture := range live {
		delta := liveDeparture.When.Sub(candidate.When)
		if delta < 0 {
			delta = -delta
		}

		if delta <= DuplicateTolerance && similarDestination(liveDeparture.Destination, candidate.Destination) {
			return true
		}
	}

	return false
}

// similarDestination tolerates partial destination text from either feed:
// the normalized forms match when one contains the other. Deliberately loose;
// tunable alongside DuplicateTolerance.
func similarDestination(left string, right string) bool {
	if left == "" || right == "" {
		return false
	}

	leftNorm := NormalizeName(left)
	rightNorm := NormalizeName(right)

	return strings.Contains(rightNorm, leftNorm) || strings.Contains(leftNorm, rightNorm)
}

// DedupeKey is the canonicalised destination key deciding whether two
// departures refer to the same place.
func DedupeKey(departure Departure, aliases AliasIndex) string {
	return aliases.NormalizeDestinationKey(aliases.CanonicalizeDisplayDestination(departure.Destination))
}

// OrderDeparturesForDisplay arranges departures for the terminal: all live
// departures first (ascending), then surviving scheduled ones (ascending).
// A scheduled departure sharing a dedup key with live data is suppressed when
// it sits within DuplicateTolerance of any live time for that key, or when it
// is earlier than the latest live time for that key - live data supersedes
// older schedule predictions.
func OrderDeparturesForDisplay(combined []Departure, aliases AliasIndex) []Departure {
	var live []Departure
	var scheduled []Departure
	for _, departure := range combined {
		if departure.Source == SourceLive {
			live = append(live, departure)
		} else {
			scheduled = append(scheduled, departure)
		}
	}

	if len(live) > 0 {
		latestByKey := map[string]time.Time{}
		liveTimesByKey := map[string][]time.Time{}
		for _, departure := range live {
			key := DedupeKey(departure, aliases)
			if departure.When.After(latestByKey[key]) {
				latestByKey[key] = departure.When
			}
			liveTimesByKey[key] = append(liveTimesByKey[key], departure.When)
		}

		var surviving []Departure
		for _, departure := range scheduled {
			key := DedupeKey(departure, aliases)

			if nearAnyLiveTime(departure.When, liveTimesByKey[key]) {
				continue
			}
			if latest, ok := latestByKey[key]; ok && departure.When.Before(latest) {
				continue
			}

			surviving = append(surviving, departure)
		}
		scheduled = surviving
	}

	sort.Slice(live, func(i, j int) bool { return live[i].When.Before(live[j].When) })
	sort.Slice(scheduled, func(i, j int) bool { return scheduled[i].When.Before(scheduled[j].When) })

	return append(live, scheduled...)
}

func nearAnyLiveTime(when time.Time, liveTimes []time.Time) bool {
	for _, liveTime := range liveTimes {
		delta := when.Sub(liveTime)
		if delta < 0 {
			delta = -delta
		}
		if delta <= DuplicateTolerance {
			return true
		}
	}

	return false
}
