package departures

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	iso8601 "github.com/senseyeio/duration"
)

var windowPattern = regexp.MustCompile(`(\d+)([smhd])`)

// ParseWindow converts a lookahead window like "30m", "1h30m" or "2h" into a
// duration. Windows are a concatenation of <int><unit> tokens with unit one
// of s/m/h/d; anything left over is an error. ISO8601 durations ("PT1H30M",
// "P1D") are accepted too.
func ParseWindow(value string) (time.Duration, error) {
	text := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(value), " ", ""))
	if text == "" {
		return 0, fmt.Errorf("window value is empty: %w", ErrInvalidWindow)
	}

	if strings.HasPrefix(text, "p") {
		isoDuration, err := iso8601.ParseISO8601(strings.ToUpper(text))
		if err != nil {
			return 0, fmt.Errorf("%q: %w", value, ErrInvalidWindow)
		}

		reference := time.Now()
		return isoDuration.Shift(reference).Sub(reference), nil
	}

	matches := windowPattern.FindAllStringSubmatch(text, -1)

	var rebuilt strings.Builder
	var total time.Duration
	for _, match := range matches {
		rebuilt.WriteString(match[0])

		amount, err := strconv.Atoi(match[1])
		if err != nil {
			return 0, fmt.Errorf("%q: %w", value, ErrInvalidWindow)
		}

		switch match[2] {
		case "s":
			total += time.Duration(amount) * time.Second
		case "m":
			total += time.Duration(amount) * time.Minute
		case "h":
			total += time.Duration(amount) * time.Hour
		case "d":
			total += time.Duration(amount) * 24 * time.Hour
		}
	}

	// Every character of the input must belong to a token
	if len(matches) == 0 || rebuilt.String() != text {
		return 0, fmt.Errorf("%q: %w", value, ErrInvalidWindow)
	}

	return total, nil
}
