package departures

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTowardsNeedles(t *testing.T) {
	index := NewAliasIndex()

	t.Run("AliasExpandsToCanonicalAndSiblings", func(t *testing.T) {
		needles := index.TowardsNeedles("cx")
		assert.True(t, needles["cx"])
		assert.True(t, needles["charing cross"])
		assert.True(t, needles["chx"])
	})

	t.Run("CanonicalExpandsToAliases", func(t *testing.T) {
		needles := index.TowardsNeedles("Charing Cross")
		assert.True(t, needles["cx"])
		assert.True(t, needles["chx"])
	})

	t.Run("PowerStationStripped", func(t *testing.T) {
		needles := index.TowardsNeedles("Battersea Power Station")
		assert.True(t, needles["battersea"])
		assert.True(t, needles["battersea power station"])
	})

	t.Run("ViaTokenStripped", func(t *testing.T) {
		needles := index.TowardsNeedles("via Bank")
		assert.True(t, needles["bank"])
	})

	t.Run("UnknownQueryIsItsOwnNeedle", func(t *testing.T) {
		needles := index.TowardsNeedles("Morden")
		assert.Equal(t, map[string]bool{"morden": true}, needles)
	})
}

func TestCanonical(t *testing.T) {
	index := NewAliasIndex()

	assert.Equal(t, "charing cross", index.Canonical("cx"))
	assert.Equal(t, "charing cross", index.Canonical("charing cross"))
	assert.Equal(t, "morden", index.Canonical("morden"))
}

func TestCanonicalizeDisplayDestination(t *testing.T) {
	index := NewAliasIndex()

	t.Run("DisplayOverrideApplied", func(t *testing.T) {
		assert.Equal(t, "Charing Cross", index.CanonicalizeDisplayDestination("charing cross"))
	})

	t.Run("ViaPartCanonicalised", func(t *testing.T) {
		assert.Equal(t, "Edgware via Charing Cross", index.CanonicalizeDisplayDestination("Edgware via chx"))
	})

	t.Run("Idempotent", func(t *testing.T) {
		once := index.CanonicalizeDisplayDestination("Edgware via chx")
		assert.Equal(t, once, index.CanonicalizeDisplayDestination(once))
	})

	t.Run("UnknownDestinationUnchanged", func(t *testing.T) {
		assert.Equal(t, "Morden", index.CanonicalizeDisplayDestination("Morden"))
	})
}

func TestNormalizeDestinationKey(t *testing.T) {
	index := NewAliasIndex()

	t.Run("PowerStationAndSuffixesCollapse", func(t *testing.T) {
		assert.Equal(t,
			index.NormalizeDestinationKey("Battersea Power Station Underground Station"),
			index.NormalizeDestinationKey("Battersea"))
	})

	t.Run("ViaPartsCanonicalise", func(t *testing.T) {
		assert.Equal(t,
			index.NormalizeDestinationKey("Edgware via chx"),
			index.NormalizeDestinationKey("Edgware via Charing Cross"))
	})

	t.Run("DistinctViasStayDistinct", func(t *testing.T) {
		assert.NotEqual(t,
			index.NormalizeDestinationKey("Edgware via Bank"),
			index.NormalizeDestinationKey("Edgware via Charing Cross"))
	})
}

func TestIsViaDirectionSensitive(t *testing.T) {
	index := NewAliasIndex()

	assert.True(t, index.IsViaDirectionSensitive("Bank"))
	assert.True(t, index.IsViaDirectionSensitive("Charing Cross"))
	assert.True(t, index.IsViaDirectionSensitive("chx"))
	assert.False(t, index.IsViaDirectionSensitive("Morden"))
	assert.False(t, index.IsViaDirectionSensitive(""))
}

func TestAliasIndexFromEnvironment(t *testing.T) {
	t.Run("InlineOverrides", func(t *testing.T) {
		index := AliasIndexFromEnvironment(map[string]string{
			"TUBE_TIMING_TOWARDS_ALIASES": "Morden=mdn;High Barnet=barnet,hb",
		})

		needles := index.TowardsNeedles("mdn")
		assert.True(t, needles["morden"])

		needles = index.TowardsNeedles("hb")
		assert.True(t, needles["high barnet"])
		assert.True(t, needles["barnet"])
	})

	t.Run("YAMLFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "aliases.yaml")
		require.NoError(t, os.WriteFile(path, []byte("morden:\n  - mdn\n"), 0644))

		index := AliasIndexFromEnvironment(map[string]string{
			"TUBE_TIMING_TOWARDS_ALIASES_FILE": path,
		})

		needles := index.TowardsNeedles("mdn")
		assert.True(t, needles["morden"])
	})

	t.Run("MissingFileFallsBackToBase", func(t *testing.T) {
		index := AliasIndexFromEnvironment(map[string]string{
			"TUBE_TIMING_TOWARDS_ALIASES_FILE": "/nonexistent/aliases.yaml",
		})

		needles := index.TowardsNeedles("cx")
		assert.True(t, needles["charing cross"])
	})

	t.Run("MalformedEntriesIgnored", func(t *testing.T) {
		index := AliasIndexFromEnvironment(map[string]string{
			"TUBE_TIMING_TOWARDS_ALIASES": ";;no-equals-sign;=orphan;Morden=mdn",
		})

		needles := index.TowardsNeedles("mdn")
		assert.True(t, needles["morden"])
	})
}
