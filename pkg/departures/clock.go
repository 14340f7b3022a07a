package departures

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/versjoost/tube-timing/pkg/util"
)

var clockDigitsPattern = regexp.MustCompile(`^\d{3,4}$`)

// LondonLocation resolves the Europe/London zone, falling back to UTC when no
// zone database is available. All departure instants end up in this location.
func LondonLocation() *time.Location {
	location, err := time.LoadLocation("Europe/London")
	if err != nil {
		return time.UTC
	}

	return location
}

// ParseISODateTime parses an RFC3339-ish timestamp, accepting a literal Z
// suffix and timestamps with no offset at all (assumed to be in location).
// Malformed input reports ok=false rather than an error - timetable feeds
// routinely contain junk here.
func ParseISODateTime(value string, location *time.Location) (time.Time, bool) {
	text := strings.TrimSpace(value)
	if text == "" {
		return time.Time{}, false
	}

	if parsed, err := time.Parse(time.RFC3339, text); err == nil {
		return parsed.In(location), true
	}

	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if parsed, err := time.ParseInLocation(layout, text, location); err == nil {
			return parsed, true
		}
	}

	return time.Time{}, false
}

// ParseTimeOfDay parses a clock-of-day value ("945", "0945", "9:45", "09:45")
// into an instant on the reference date. Hours of 24 and above roll over to
// the following day, so a timetable's "25:30" is 01:30 tomorrow.
func ParseTimeOfDay(value string, reference time.Time, location *time.Location) (time.Time, bool) {
	text := strings.TrimSpace(value)
	if text == "" {
		return time.Time{}, false
	}

	if clockDigitsPattern.MatchString(text) {
		hours, _ := strconv.Atoi(text[:len(text)-2])
		minutes, _ := strconv.Atoi(text[len(text)-2:])

		return combineHourMinute(hours, minutes, reference, location)
	}

	if strings.Contains(text, ":") {
		parts := strings.Split(text, ":")
		if len(parts) >= 2 {
			hours, hourErr := strconv.Atoi(strings.TrimSpace(parts[0]))
			minutes, minuteErr := strconv.Atoi(strings.TrimSpace(parts[1]))
			if hourErr != nil || minuteErr != nil {
				return time.Time{}, false
			}

			return combineHourMinute(hours, minutes, reference, location)
		}
	}

	return time.Time{}, false
}

func combineHourMinute(hour int, minute int, reference time.Time, location *time.Location) (time.Time, bool) {
	if hour < 0 || minute < 0 || minute >= 60 {
		return time.Time{}, false
	}

	dayOffset := 0
	for hour >= 24 {
		hour -= 24
		dayOffset += 1
	}

	date := reference.In(location).AddDate(0, 0, dayOffset)
	clock := time.Date(0, time.January, 1, hour, minute, 0, 0, location)

	return util.AddTimeToDate(date, clock), true
}

// parseTimeValue handles the time shapes a decoded timetable value can carry:
// a {hour, minute} object (values may be JSON numbers or strings) or a
// clock-of-day string.
func parseTimeValue(value any, reference time.Time, location *time.Location) (time.Time, bool) {
	switch typed := value.(type) {
	case map[string]any:
		hour, hourOk := toInt(typed["hour"])
		minute, minuteOk := toInt(typed["minute"])
		if hourOk && minuteOk {
			return combineHourMinute(hour, minute, reference, location)
		}
	case string:
		return ParseTimeOfDay(typed, reference, location)
	}

	return time.Time{}, false
}

func toInt(value any) (int, bool) {
	switch typed := value.(type) {
	case float64:
		return int(typed), true
	case int:
		return typed, true
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(typed))
		if err != nil {
			return 0, false
		}
		return parsed, true
	}

	return 0, false
}

func toFloat(value any) (float64, bool) {
	switch typed := value.(type) {
	case float64:
		return typed, true
	case int:
		return float64(typed), true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	}

	return 0, false
}
