package departures

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	location := time.UTC
	reference := time.Date(2024, 5, 6, 8, 0, 0, 0, location)

	t.Run("ThreeDigits", func(t *testing.T) {
		when, ok := ParseTimeOfDay("945", reference, location)
		require.True(t, ok)
		assert.Equal(t, time.Date(2024, 5, 6, 9, 45, 0, 0, location), when)
	})

	t.Run("FourDigits", func(t *testing.T) {
		when, ok := ParseTimeOfDay("0945", reference, location)
		require.True(t, ok)
		assert.Equal(t, time.Date(2024, 5, 6, 9, 45, 0, 0, location), when)
	})

	t.Run("ColonForm", func(t *testing.T) {
		when, ok := ParseTimeOfDay("9:45", reference, location)
		require.True(t, ok)
		assert.Equal(t, time.Date(2024, 5, 6, 9, 45, 0, 0, location), when)
	})

	t.Run("HourRollsOverMidnight", func(t *testing.T) {
		when, ok := ParseTimeOfDay("25:30", reference, location)
		require.True(t, ok)
		assert.Equal(t, time.Date(2024, 5, 7, 1, 30, 0, 0, location), when)
	})

	t.Run("MinuteOutOfRange", func(t *testing.T) {
		_, ok := ParseTimeOfDay("12:99", reference, location)
		assert.False(t, ok)
	})

	t.Run("NonNumeric", func(t *testing.T) {
		_, ok := ParseTimeOfDay("12:xx", reference, location)
		assert.False(t, ok)
	})

	t.Run("TooShort", func(t *testing.T) {
		_, ok := ParseTimeOfDay("9", reference, location)
		assert.False(t, ok)
	})

	t.Run("Empty", func(t *testing.T) {
		_, ok := ParseTimeOfDay("", reference, location)
		assert.False(t, ok)
	})
}

func TestParseISODateTime(t *testing.T) {
	location := time.UTC

	t.Run("RFC3339", func(t *testing.T) {
		when, ok := ParseISODateTime("2024-05-06T09:45:00Z", location)
		require.True(t, ok)
		assert.Equal(t, time.Date(2024, 5, 6, 9, 45, 0, 0, location), when)
	})

	t.Run("NoOffsetAssumesLocation", func(t *testing.T) {
		when, ok := ParseISODateTime("2024-05-06T09:45:00", location)
		require.True(t, ok)
		assert.Equal(t, time.Date(2024, 5, 6, 9, 45, 0, 0, location), when)
	})

	t.Run("SpaceSeparator", func(t *testing.T) {
		when, ok := ParseISODateTime("2024-05-06 09:45:00", location)
		require.True(t, ok)
		assert.Equal(t, time.Date(2024, 5, 6, 9, 45, 0, 0, location), when)
	})

	t.Run("Junk", func(t *testing.T) {
		_, ok := ParseISODateTime("not a timestamp", location)
		assert.False(t, ok)
	})
}
