package departures

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPointer(value int) *int {
	return &value
}

func TestArrivalsToDepartures(t *testing.T) {
	location := time.UTC
	now := time.Date(2024, 5, 6, 8, 0, 0, 0, location)
	windowEnd := now.Add(30 * time.Minute)

	t.Run("ExpectedArrivalPreferred", func(t *testing.T) {
		departures := ArrivalsToDepartures([]ArrivalPrediction{
			{
				Towards:         "Morden",
				ExpectedArrival: "2024-05-06T08:10:00Z",
				TimeToStation:   intPointer(60),
			},
		}, now, windowEnd, location)

		require.Len(t, departures, 1)
		assert.Equal(t, now.Add(10*time.Minute), departures[0].When)
		assert.Equal(t, SourceLive, departures[0].Source)
	})

	t.Run("CountdownFallback", func(t *testing.T) {
		departures := ArrivalsToDepartures([]ArrivalPrediction{
			{Towards: "Morden", TimeToStation: intPointer(300)},
		}, now, windowEnd, location)

		require.Len(t, departures, 1)
		assert.Equal(t, now.Add(5*time.Minute), departures[0].When)
	})

	t.Run("NoResolvableTimeDropped", func(t *testing.T) {
		departures := ArrivalsToDepartures([]ArrivalPrediction{
			{Towards: "Morden"},
		}, now, windowEnd, location)

		assert.Empty(t, departures)
	})

	t.Run("OutsideWindowDropped", func(t *testing.T) {
		departures := ArrivalsToDepartures([]ArrivalPrediction{
			{Towards: "Too far", TimeToStation: intPointer(3600)},
			{Towards: "In the past", ExpectedArrival: "2024-05-06T07:59:00Z"},
			{Towards: "Kept", TimeToStation: intPointer(600)},
		}, now, windowEnd, location)

		require.Len(t, departures, 1)
		assert.Equal(t, "Kept", departures[0].Destination)
	})

	t.Run("ViaAppendedWhenMissing", func(t *testing.T) {
		departures := ArrivalsToDepartures([]ArrivalPrediction{
			{Towards: "Edgware", Via: "Bank", TimeToStation: intPointer(120)},
			{Towards: "Edgware via Bank", Via: "Bank", TimeToStation: intPointer(180)},
		}, now, windowEnd, location)

		require.Len(t, departures, 2)
		assert.Equal(t, "Edgware via Bank", departures[0].Destination)
		assert.Equal(t, "Edgware via Bank", departures[1].Destination)
	})

	t.Run("DestinationFallsBackToLine", func(t *testing.T) {
		departures := ArrivalsToDepartures([]ArrivalPrediction{
			{LineName: "Northern", TimeToStation: intPointer(120)},
			{TimeToStation: intPointer(180)},
		}, now, windowEnd, location)

		require.Len(t, departures, 2)
		assert.Equal(t, "Northern", departures[0].Destination)
		assert.Equal(t, "Unknown", departures[1].Destination)
	})

	t.Run("SortedAscending", func(t *testing.T) {
		departures := ArrivalsToDepartures([]ArrivalPrediction{
			{Towards: "Later", TimeToStation: intPointer(600)},
			{Towards: "Sooner", TimeToStation: intPointer(60)},
		}, now, windowEnd, location)

		require.Len(t, departures, 2)
		assert.Equal(t, "Sooner", departures[0].Destination)
		assert.Equal(t, "Later", departures[1].Destination)
	})
}
