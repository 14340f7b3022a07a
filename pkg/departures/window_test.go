package departures

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWindow(t *testing.T) {
	t.Run("SingleUnit", func(t *testing.T) {
		window, err := ParseWindow("30m")
		require.NoError(t, err)
		assert.Equal(t, 30*time.Minute, window)
	})

	t.Run("CompoundUnits", func(t *testing.T) {
		window, err := ParseWindow("1h30m")
		require.NoError(t, err)
		assert.Equal(t, 90*time.Minute, window)
	})

	t.Run("Seconds", func(t *testing.T) {
		window, err := ParseWindow("90s")
		require.NoError(t, err)
		assert.Equal(t, 90*time.Second, window)
	})

	t.Run("Days", func(t *testing.T) {
		window, err := ParseWindow("2d")
		require.NoError(t, err)
		assert.Equal(t, 48*time.Hour, window)
	})

	t.Run("SpacesAndCaseIgnored", func(t *testing.T) {
		window, err := ParseWindow(" 1H 30M ")
		require.NoError(t, err)
		assert.Equal(t, 90*time.Minute, window)
	})

	t.Run("ISO8601", func(t *testing.T) {
		window, err := ParseWindow("PT1H30M")
		require.NoError(t, err)
		assert.Equal(t, 90*time.Minute, window)
	})

	t.Run("ISO8601Days", func(t *testing.T) {
		window, err := ParseWindow("P1D")
		require.NoError(t, err)
		assert.Greater(t, window, 20*time.Hour)
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := ParseWindow("")
		assert.ErrorIs(t, err, ErrInvalidWindow)
	})

	t.Run("MissingUnit", func(t *testing.T) {
		_, err := ParseWindow("30")
		assert.ErrorIs(t, err, ErrInvalidWindow)
	})

	t.Run("UnknownUnit", func(t *testing.T) {
		_, err := ParseWindow("1x")
		assert.ErrorIs(t, err, ErrInvalidWindow)
	})

	t.Run("LeftoverCharacters", func(t *testing.T) {
		_, err := ParseWindow("1h30mxx")
		assert.ErrorIs(t, err, ErrInvalidWindow)
	})

	t.Run("MalformedISO", func(t *testing.T) {
		_, err := ParseWindow("PTXM")
		assert.ErrorIs(t, err, ErrInvalidWindow)
	})
}
