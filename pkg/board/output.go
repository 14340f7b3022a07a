package board

import (
	"fmt"
	"os"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/liip/sheriff"
	"github.com/versjoost/tube-timing/pkg/departures"

	"encoding/json"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatCSV  = "csv"
)

func validOutputFormat(format string) bool {
	return format == formatText || format == formatJSON || format == formatCSV
}

// renderDepartures writes the ordered departure list to stdout in the chosen
// format. Text output canonicalises each destination for display; the
// structured formats carry the display destination in the record itself.
func renderDepartures(ordered []departures.Departure, now time.Time, format string, aliases departures.AliasIndex) error {
	switch format {
	case formatJSON:
		reduced, err := sheriff.Marshal(&sheriff.Options{
			Groups: []string{"basic"},
		}, displayDepartures(ordered, aliases))
		if err != nil {
			return err
		}

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(reduced)

	case formatCSV:
		csvText, err := gocsv.MarshalString(displayDepartures(ordered, aliases))
		if err != nil {
			return err
		}

		fmt.Print(csvText)
		return nil
	}

	for _, departure := range ordered {
		fmt.Println(departures.FormatDepartureDisplay(departure, now, aliases))
	}

	return nil
}

func displayDepartures(ordered []departures.Departure, aliases departures.AliasIndex) []departures.Departure {
	display := make([]departures.Departure, len(ordered))
	for i, departure := range ordered {
		display[i] = departure
		display[i].Destination = aliases.CanonicalizeDisplayDestination(departure.Destination)
	}

	return display
}
