package departures

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// ArrivalPrediction is a single record from the TfL StopPoint arrivals API.
type ArrivalPrediction struct {
	ID            string `json:"id"`
	OperationType int    `json:"operationType"`
	VehicleID     string `json:"vehicleId"`

	NaptanID    string `json:"naptanId"`
	StationName string `json:"stationName"`

	LineID   string `json:"lineId"`
	LineName string `json:"lineName"`

	PlatformName string `json:"platformName"`
	Direction    string `json:"direction"`
	Bearing      string `json:"bearing"`

	DestinationNaptanID string `json:"destinationNaptanId"`
	DestinationName     string `json:"destinationName"`

	// Seconds until arrival. Pointer so an absent countdown is
	// distinguishable from a vehicle that is due right now.
	TimeToStation *int `json:"timeToStation"`

	CurrentLocation string `json:"currentLocation"`
	Towards         string `json:"towards"`
	Via             string `json:"via"`

	ExpectedArrival   string `json:"expectedArrival"`
	ExpectedDeparture string `json:"expectedDeparture"`

	ModeName string `json:"modeName"`
}

// ArrivalsToDepartures maps live arrival predictions into canonical
// departures within [now, windowEnd]. Records with no resolvable time are
// dropped; everything kept is tagged as live and sorted ascending.
func ArrivalsToDepartures(arrivals []ArrivalPrediction, now time.Time, windowEnd time.Time, location *time.Location) []Departure {
	var liveDepartures []Departure

	for _, arrival := range arrivals {
		when, ok := resolveArrivalTime(arrival, now, location)
		if !ok {
			continue
		}
		if when.Before(now) || when.After(windowEnd) {
			continue
		}

		liveDepartures = append(liveDepartures, Departure{
			When:        when,
			Destination: arrivalDestination(arrival),
			Source:      SourceLive,
			Line:        arrivalLine(arrival),
			Direction:   arrival.Direction,
		})
	}

	sort.Slice(liveDepartures, func(i, j int) bool {
		return liveDepartures[i].When.Before(liveDepartures[j].When)
	})

	return liveDepartures
}

func resolveArrivalTime(arrival ArrivalPrediction, now time.Time, location *time.Location) (time.Time, bool) {
	expected := arrival.ExpectedArrival
	if expected == "" {
		expected = arrival.ExpectedDeparture
	}

	if expected != "" {
		return ParseISODateTime(expected, location)
	}

	if arrival.TimeToStation != nil {
		return now.Add(time.Duration(*arrival.TimeToStation) * time.Second), true
	}

	return time.Time{}, false
}

func arrivalDestination(arrival ArrivalPrediction) string {
	destination := arrival.Towards
	if destination == "" {
		destination = arrival.DestinationName
	}

	if arrival.Via != "" && !strings.Contains(destination, arrival.Via) {
		destination = strings.TrimSpace(fmt.Sprintf("%s via %s", destination, arrival.Via))
	}

	if destination == "" {
		destination = arrivalLine(arrival)
	}
	if destination == "" {
		destination = "Unknown"
	}

	return destination
}

func arrivalLine(arrival ArrivalPrediction) string {
	if arrival.LineName != "" {
		return arrival.LineName
	}

	return arrival.LineID
}
