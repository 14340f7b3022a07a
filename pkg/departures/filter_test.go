package departures

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLineFilter(t *testing.T) {
	universe := []LineDetail{
		{ID: "victoria", Name: "Victoria"},
		{ID: "bakerloo", Name: "Bakerloo"},
	}

	t.Run("NoFilterRequested", func(t *testing.T) {
		resolved, unknown := ResolveLineFilter(nil, universe)
		assert.Nil(t, resolved)
		assert.Empty(t, unknown)
	})

	t.Run("MatchesByName", func(t *testing.T) {
		resolved, unknown := ResolveLineFilter([]string{"Victoria"}, universe)
		assert.Empty(t, unknown)
		assert.Equal(t, map[string]bool{"victoria": true}, resolved)
	})

	t.Run("CommaSeparatedTokens", func(t *testing.T) {
		resolved, unknown := ResolveLineFilter([]string{"victoria,bakerloo"}, universe)
		assert.Empty(t, unknown)
		assert.Len(t, resolved, 2)
	})

	t.Run("AliasOutsideUniverseIsUnknown", func(t *testing.T) {
		_, unknown := ResolveLineFilter([]string{"picc"}, universe)
		assert.Equal(t, []string{"picc"}, unknown)
	})

	t.Run("AliasTableUsedAgainstUniverse", func(t *testing.T) {
		resolved, unknown := ResolveLineFilter([]string{"hmc"}, []LineDetail{
			{ID: "hammersmith-city", Name: "Hammersmith & City"},
		})
		assert.Empty(t, unknown)
		assert.Equal(t, map[string]bool{"hammersmith-city": true}, resolved)
	})

	t.Run("SlugGuessOnlyWithoutUniverse", func(t *testing.T) {
		resolved, unknown := ResolveLineFilter([]string{"Some Future Line"}, nil)
		assert.Empty(t, unknown)
		assert.Equal(t, map[string]bool{"some-future-line": true}, resolved)
	})

	t.Run("UnknownToken", func(t *testing.T) {
		_, unknown := ResolveLineFilter([]string{"hogwarts express"}, universe)
		assert.Equal(t, []string{"hogwarts express"}, unknown)
	})
}

func TestLineFilterError(t *testing.T) {
	err := LineFilterError([]string{"foo", "bar"})
	assert.ErrorIs(t, err, ErrUnknownLine)
	assert.Contains(t, err.Error(), "foo, bar")
}

func TestNormalizeDirection(t *testing.T) {
	assert.Equal(t, "inbound", NormalizeDirection("in"))
	assert.Equal(t, "northbound", NormalizeDirection("NB"))
	assert.Equal(t, "southbound", NormalizeDirection(" south "))
	assert.Equal(t, "outbound", NormalizeDirection("outbound"))
	assert.Equal(t, "", NormalizeDirection("sideways"))
	assert.Equal(t, "", NormalizeDirection(""))
}

func TestIsCardinalDirection(t *testing.T) {
	assert.True(t, IsCardinalDirection("northbound"))
	assert.False(t, IsCardinalDirection("inbound"))
	assert.False(t, IsCardinalDirection("outbound"))
	assert.False(t, IsCardinalDirection(""))
}

func TestFilterArrivalsByLine(t *testing.T) {
	arrivals := []ArrivalPrediction{
		{LineID: "victoria", LineName: "Victoria"},
		{LineID: "northern", LineName: "Northern"},
		{LineName: "Victoria"},
	}

	t.Run("NilSetKeepsAll", func(t *testing.T) {
		assert.Len(t, FilterArrivalsByLine(arrivals, nil), 3)
	})

	t.Run("MatchesIDOrName", func(t *testing.T) {
		filtered := FilterArrivalsByLine(arrivals, map[string]bool{"victoria": true})
		assert.Len(t, filtered, 2)
	})
}

func TestFilterArrivalsByDirection(t *testing.T) {
	arrivals := []ArrivalPrediction{
		{Direction: "inbound", PlatformName: "Northbound - Platform 1"},
		{Direction: "outbound", PlatformName: "Southbound - Platform 2"},
	}

	t.Run("InboundOutboundUsesDirectionField", func(t *testing.T) {
		filtered := FilterArrivalsByDirection(arrivals, "inbound")
		require.Len(t, filtered, 1)
		assert.Equal(t, "inbound", filtered[0].Direction)
	})

	t.Run("CardinalUsesPlatformText", func(t *testing.T) {
		filtered := FilterArrivalsByDirection(arrivals, "southbound")
		require.Len(t, filtered, 1)
		assert.Equal(t, "outbound", filtered[0].Direction)
	})

	t.Run("EmptyDirectionKeepsAll", func(t *testing.T) {
		assert.Len(t, FilterArrivalsByDirection(arrivals, ""), 2)
	})
}

func TestInferTimetableDirection(t *testing.T) {
	arrivals := []ArrivalPrediction{
		{Direction: "inbound", PlatformName: "Northbound - Platform 1"},
		{Direction: "inbound", PlatformName: "Northbound - Platform 1"},
		{Direction: "outbound", PlatformName: "Northbound - Platform 1"},
		{Direction: "outbound", PlatformName: "Southbound - Platform 2"},
	}

	t.Run("MajorityVote", func(t *testing.T) {
		assert.Equal(t, "inbound", InferTimetableDirection(arrivals, "northbound"))
	})

	t.Run("PassThroughInboundOutbound", func(t *testing.T) {
		assert.Equal(t, "outbound", InferTimetableDirection(arrivals, "outbound"))
	})

	t.Run("NoCoOccurrence", func(t *testing.T) {
		assert.Equal(t, "", InferTimetableDirection(arrivals, "eastbound"))
	})

	t.Run("NoFilter", func(t *testing.T) {
		assert.Equal(t, "", InferTimetableDirection(arrivals, ""))
	})
}

func TestCollectLineDetails(t *testing.T) {
	arrivals := []ArrivalPrediction{
		{LineID: "victoria", LineName: "Victoria"},
		{LineID: "victoria", LineName: "Victoria"},
		{LineID: "northern"},
		{LineName: "No ID"},
	}

	details := CollectLineDetails(arrivals)

	assert.Equal(t, []LineDetail{
		{ID: "victoria", Name: "Victoria"},
		{ID: "northern", Name: "northern"},
	}, details)
}

func TestFilterByTowards(t *testing.T) {
	index := NewAliasIndex()
	when := time.Date(2024, 5, 6, 8, 30, 0, 0, time.UTC)

	t.Run("DestinationMatch", func(t *testing.T) {
		combined := []Departure{
			{When: when, Destination: "Morden Underground Station", Source: SourceScheduled},
			{When: when, Destination: "High Barnet", Source: SourceScheduled},
		}

		filtered := FilterByTowards(combined, "Morden", "", index)
		require.Len(t, filtered, 1)
		assert.Equal(t, "Morden Underground Station", filtered[0].Destination)
	})

	t.Run("IntermediateStopMatch", func(t *testing.T) {
		combined := []Departure{
			{When: when, Destination: "Morden", Source: SourceScheduled, Stops: []string{"Balham Underground Station"}},
			{When: when, Destination: "Morden", Source: SourceScheduled},
		}

		filtered := FilterByTowards(combined, "Balham", "", index)
		assert.Len(t, filtered, 1)
	})

	t.Run("AliasedQueryMatches", func(t *testing.T) {
		combined := []Departure{
			{When: when, Destination: "Charing Cross", Source: SourceScheduled},
		}

		filtered := FilterByTowards(combined, "cx", "", index)
		assert.Len(t, filtered, 1)
	})

	t.Run("ViaSensitiveLiveOutboundRejected", func(t *testing.T) {
		combined := []Departure{
			{When: when, Destination: "Edgware via Bank", Source: SourceLive, Direction: "outbound"},
		}

		filtered := FilterByTowards(combined, "Bank", "", index)
		assert.Empty(t, filtered)
	})

	t.Run("ViaSensitiveAllowedWithDirectionFilter", func(t *testing.T) {
		combined := []Departure{
			{When: when, Destination: "Edgware via Bank", Source: SourceLive, Direction: "outbound"},
		}

		filtered := FilterByTowards(combined, "Bank", "northbound", index)
		assert.Len(t, filtered, 1)
	})

	t.Run("ViaSensitiveScheduledAllowed", func(t *testing.T) {
		combined := []Departure{
			{When: when, Destination: "Edgware via Bank", Source: SourceScheduled},
		}

		filtered := FilterByTowards(combined, "Bank", "", index)
		assert.Len(t, filtered, 1)
	})

	t.Run("ViaMatchOnInsensitiveInterchange", func(t *testing.T) {
		combined := []Departure{
			{When: when, Destination: "Heathrow via Acton Town", Source: SourceLive, Direction: "outbound"},
		}

		filtered := FilterByTowards(combined, "Acton Town", "", index)
		assert.Len(t, filtered, 1)
	})

	t.Run("EmptyQueryKeepsAll", func(t *testing.T) {
		combined := []Departure{
			{When: when, Destination: "Morden", Source: SourceScheduled},
		}

		filtered := FilterByTowards(combined, "", "", index)
		assert.Len(t, filtered, 1)
	})
}
