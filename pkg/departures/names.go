package departures

import (
	"regexp"
	"strings"
)

var (
	nonAlphanumericPattern = regexp.MustCompile(`[^a-z0-9]+`)
	viaSplitPattern        = regexp.MustCompile(`(?i)\s+via\s+`)
)

// NormalizeName reduces a free-text station/line/destination name to the
// lowercase alphanumeric key used for every name comparison in the engine.
// "Underground Station"/"Station" suffixes are stripped so the TfL search
// name and the arrivals "towards" text compare equal.
func NormalizeName(value string) string {
	text := nonAlphanumericPattern.ReplaceAllString(strings.ToLower(value), " ")
	text = " " + text + " "
	text = strings.ReplaceAll(text, " underground station ", " ")
	text = strings.ReplaceAll(text, " station ", " ")

	return strings.Join(strings.Fields(text), " ")
}

// CompactDestination trims the "Underground Station" noise off a destination
// for display without otherwise changing its casing.
func CompactDestination(value string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(value, " Underground Station", "")), " ")
}

// SplitDestinationVia splits "Edgware via Bank" into ("Edgware", "Bank").
// The via part is empty when the destination has no standalone via token.
func SplitDestinationVia(value string) (string, string) {
	parts := viaSplitPattern.Split(value, 2)
	if len(parts) == 2 {
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}

	return strings.TrimSpace(value), ""
}
