package departures

import (
	"fmt"
	"math"
	"time"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
)

// FormatDeparture renders a departure as a display line:
// "<destination> <HH:MM> (<due|in Nm>) <LIVE|SCHEDULED>". A departure 60
// seconds or less away is "due"; otherwise minutes are rounded up.
func FormatDeparture(departure Departure, now time.Time) string {
	destination := CompactDestination(departure.Destination)
	whenLabel := departure.When.Format("15:04")

	seconds := departure.When.Sub(now).Seconds()
	relative := "due"
	if seconds > 60 {
		relative = fmt.Sprintf("in %dm", int(math.Ceil(seconds/60)))
	}

	sourceLabel := "SCHEDULED"
	if departure.Source == SourceLive {
		sourceLabel = "LIVE"
	}

	return fmt.Sprintf("%s %s (%s) %s", destination, whenLabel, relative, sourceLabel)
}

// FormatDepartureDisplay formats a departure with its destination rewritten
// through the alias table's display canonicalisation. The input departure is
// not mutated.
func FormatDepartureDisplay(departure Departure, now time.Time, aliases AliasIndex) string {
	displayDestination := aliases.CanonicalizeDisplayDestination(departure.Destination)
	if displayDestination == departure.Destination {
		return FormatDeparture(departure, now)
	}

	var displayDeparture Departure
	if err := copier.Copy(&displayDeparture, &departure); err != nil {
		log.Debug().Err(err).Msg("Failed to copy departure for display")
		return FormatDeparture(departure, now)
	}
	displayDeparture.Destination = displayDestination

	return FormatDeparture(displayDeparture, now)
}
