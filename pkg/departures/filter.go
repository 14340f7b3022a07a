package departures

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/versjoost/tube-timing/pkg/util"
)

// LineDetail is a line serving a stop, discovered from stop metadata or
// inferred from live arrivals.
type LineDetail struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Common abbreviations for TfL line ids, keyed by alphanumeric-only token.
var lineAliases = map[string]string{
	"bakerloo":           "bakerloo",
	"central":            "central",
	"circle":             "circle",
	"district":           "district",
	"dlr":                "dlr",
	"elizabeth":          "elizabeth",
	"elizabethline":      "elizabeth",
	"hammersmithandcity": "hammersmith-city",
	"hammersmithcity":    "hammersmith-city",
	"hmc":                "hammersmith-city",
	"jub":                "jubilee",
	"jubilee":            "jubilee",
	"met":                "metropolitan",
	"metropolitan":       "metropolitan",
	"northern":           "northern",
	"overground":         "london-overground",
	"picc":               "piccadilly",
	"piccadilly":         "piccadilly",
	"victoria":           "victoria",
	"waterlooandcity":    "waterloo-city",
	"waterloocity":       "waterloo-city",
	"wac":                "waterloo-city",
}

var directionAliases = map[string]string{
	"in":    "inbound",
	"out":   "outbound",
	"nb":    "northbound",
	"sb":    "southbound",
	"eb":    "eastbound",
	"wb":    "westbound",
	"north": "northbound",
	"south": "southbound",
	"east":  "eastbound",
	"west":  "westbound",
}

var canonicalDirections = []string{"inbound", "outbound", "northbound", "southbound", "eastbound", "westbound"}

var (
	lineTokenPattern = regexp.MustCompile(`[^a-z0-9]+`)
	slugPattern      = regexp.MustCompile(`[^a-z0-9]+`)
)

// NormalizeLineToken reduces a line name/id to its alphanumeric-only
// lowercase comparison token.
func NormalizeLineToken(value string) string {
	return lineTokenPattern.ReplaceAllString(strings.ToLower(strings.TrimSpace(value)), "")
}

// GuessLineID slugs a free-text line name into a plausible line id. Only used
// when no line universe was observed at all.
func GuessLineID(value string) string {
	return strings.Trim(slugPattern.ReplaceAllString(strings.ToLower(strings.TrimSpace(value)), "-"), "-")
}

// ResolveLineFilter resolves user-supplied line tokens (repeatable and
// comma-separated) against the observed line universe, then the static alias
// table, then - only when nothing was observed - a permissive slug guess.
// Returns the resolved line id set and any tokens that matched nothing. A nil
// set means no filter was requested.
func ResolveLineFilter(requested []string, availableLines []LineDetail) (map[string]bool, []string) {
	var tokens []string
	for _, value := range requested {
		for _, part := range strings.Split(value, ",") {
			if text := strings.TrimSpace(part); text != "" {
				tokens = append(tokens, text)
			}
		}
	}
	if len(tokens) == 0 {
		return nil, nil
	}

	lookup := map[string]string{}
	availableIDs := map[string]bool{}
	for _, line := range availableLines {
		if line.ID == "" {
			continue
		}
		availableIDs[line.ID] = true
		lookup[NormalizeLineToken(line.ID)] = line.ID
		if line.Name != "" {
			lookup[NormalizeLineToken(line.Name)] = line.ID
		}
	}

	resolved := map[string]bool{}
	var unknown []string
	for _, token := range tokens {
		normalized := NormalizeLineToken(token)
		if normalized == "" {
			continue
		}

		lineID, ok := lookup[normalized]
		if !ok {
			lineID, ok = lineAliases[normalized]
		}
		if !ok && len(availableIDs) == 0 {
			if guess := GuessLineID(token); guess != "" {
				lineID, ok = guess, true
			}
		}

		if !ok {
			unknown = append(unknown, token)
			continue
		}
		if len(availableIDs) > 0 && !availableIDs[lineID] {
			unknown = append(unknown, token)
			continue
		}

		resolved[lineID] = true
	}

	if len(resolved) == 0 && len(unknown) == 0 {
		return nil, nil
	}

	return resolved, unknown
}

// LineFilterError wraps the tokens a line filter could not resolve.
func LineFilterError(unknown []string) error {
	return fmt.Errorf("%w(s): %s", ErrUnknownLine, strings.Join(unknown, ", "))
}

// NormalizeDirection maps short direction forms to their canonical token.
// Returns "" for anything unrecognised.
func NormalizeDirection(value string) string {
	text := strings.ToLower(strings.TrimSpace(value))
	if text == "" {
		return ""
	}

	if alias, ok := directionAliases[text]; ok {
		text = alias
	}
	if util.ContainsString(canonicalDirections, text) {
		return text
	}

	return ""
}

// IsCardinalDirection reports whether a canonical direction is a compass
// direction rather than inbound/outbound. Cardinal meaning is line-specific,
// so such filters need an inbound/outbound reading inferred per line.
func IsCardinalDirection(direction string) bool {
	return direction != "" && direction != "inbound" && direction != "outbound"
}

// FilterArrivalsByLine keeps arrivals whose line id (or normalized line name)
// is in the resolved set. A nil set keeps everything.
func FilterArrivalsByLine(arrivals []ArrivalPrediction, lineIDs map[string]bool) []ArrivalPrediction {
	if len(lineIDs) == 0 {
		return arrivals
	}

	allowedTokens := map[string]bool{}
	for lineID := range lineIDs {
		allowedTokens[NormalizeLineToken(lineID)] = true
	}

	return util.Filter(arrivals, func(arrival ArrivalPrediction) bool {
		return lineIDs[arrival.LineID] || allowedTokens[NormalizeLineToken(arrival.LineName)]
	})
}

// FilterArrivalsByDirection keeps arrivals matching a canonical direction:
// the direction field for inbound/outbound, the platform name text for
// cardinals.
func FilterArrivalsByDirection(arrivals []ArrivalPrediction, direction string) []ArrivalPrediction {
	if direction == "" {
		return arrivals
	}

	if !IsCardinalDirection(direction) {
		return util.Filter(arrivals, func(arrival ArrivalPrediction) bool {
			return arrival.Direction == direction
		})
	}

	needle := strings.ToLower(direction)
	return util.Filter(arrivals, func(arrival ArrivalPrediction) bool {
		return strings.Contains(strings.ToLower(arrival.PlatformName), needle)
	})
}

// InferTimetableDirection translates a cardinal direction into the
// inbound/outbound value the timetable API understands, by majority vote over
// live arrivals whose platform name mentions the cardinal. Returns "" when no
// co-occurrence exists to vote on.
func InferTimetableDirection(arrivals []ArrivalPrediction, direction string) string {
	if direction == "" {
		return ""
	}
	if !IsCardinalDirection(direction) {
		return direction
	}

	needle := strings.ToLower(direction)
	counts := map[string]int{}
	for _, arrival := range arrivals {
		if !strings.Contains(strings.ToLower(arrival.PlatformName), needle) {
			continue
		}
		if arrival.Direction != "" {
			counts[arrival.Direction] += 1
		}
	}

	best := ""
	bestCount := 0
	for candidate, count := range counts {
		if count > bestCount || (count == bestCount && candidate < best) {
			best = candidate
			bestCount = count
		}
	}

	return best
}

// CollectLineDetails infers the line universe from live arrivals when stop
// metadata provided none.
func CollectLineDetails(arrivals []ArrivalPrediction) []LineDetail {
	seen := map[string]bool{}

	var details []LineDetail
	for _, arrival := range arrivals {
		if arrival.LineID == "" || seen[arrival.LineID] {
			continue
		}
		seen[arrival.LineID] = true

		name := arrival.LineName
		if name == "" {
			name = arrival.LineID
		}
		details = append(details, LineDetail{ID: arrival.LineID, Name: name})
	}

	return details
}

// FilterByTowards keeps departures matching a "towards" query: the needle
// closure is tested against the destination, every intermediate stop on the
// departure's interval, and the via part. Via matches on direction-sensitive
// interchanges are rejected for live outbound departures unless an explicit
// direction filter is active.
func FilterByTowards(combined []Departure, query string, directionFilter string, aliases AliasIndex) []Departure {
	needles := aliases.TowardsNeedles(query)
	if len(needles) == 0 {
		return combined
	}
	viaSensitive := aliases.IsViaDirectionSensitive(query)

	return util.Filter(combined, func(departure Departure) bool {
		return departureMatchesTowards(departure, needles, directionFilter, viaSensitive)
	})
}

func departureMatchesTowards(departure Departure, needles map[string]bool, directionFilter string, viaSensitive bool) bool {
	destination, via := SplitDestinationVia(departure.Destination)

	if anyNeedleIn(NormalizeName(destination), needles) {
		return true
	}

	for _, stopName := range departure.Stops {
		if anyNeedleIn(NormalizeName(stopName), needles) {
			return true
		}
	}

	if via != "" && anyNeedleIn(NormalizeName(via), needles) {
		if directionFilter != "" {
			return true
		}
		if viaSensitive && departure.Source == SourceLive && departure.Direction == "outbound" {
			return false
		}
		return true
	}

	return false
}

func anyNeedleIn(haystack string, needles map[string]bool) bool {
	for needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}

	return false
}
