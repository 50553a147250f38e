package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveExact(t *testing.T) {
	match, dist, ok := Resolve("ABC", []string{"ABC", "ABD"})
	require.True(t, ok)
	assert.Equal(t, "ABC", match)
	assert.Equal(t, 0, dist)
}

func TestResolveExactAfterNormalizationBeatsFuzzy(t *testing.T) {
	// "rjo-01" normalizes to RJO01: must hit the exact pass even though
	// RJO02 is only one edit away.
	match, dist, ok := Resolve("  rjo-01 ", []string{"RJO02", "RJO01"})
	require.True(t, ok)
	assert.Equal(t, "RJO01", match)
	assert.Equal(t, 0, dist)
}

func TestResolveFuzzy(t *testing.T) {
	match, dist, ok := Resolve("ABX", []string{"ABC", "XYZ"})
	require.True(t, ok)
	assert.Equal(t, "ABC", match)
	assert.Equal(t, 1, dist)
}

func TestResolveFuzzyTieKeepsCatalogOrder(t *testing.T) {
	// Both candidates are one edit from the query; the first one wins.
	match, _, ok := Resolve("ABX", []string{"ABZ", "ABY"})
	require.True(t, ok)
	assert.Equal(t, "ABZ", match)
}

func TestResolveEmptyCandidates(t *testing.T) {
	_, _, ok := Resolve("ABC", nil)
	assert.False(t, ok)
}

func TestSuggestTiers(t *testing.T) {
	candidates := []string{"RJO01", "RJO02", "XRJO9", "RJX01", "SPO01"}

	// prefix tier first, then contains, then distance <= 1
	got := Suggest("RJO", candidates, 10)
	assert.Equal(t, []string{"RJO01", "RJO02", "XRJO9"}, got)

	got = Suggest("RJO01", candidates, 10)
	// exact/prefix: RJO01; contains adds nothing new; distance<=1: RJO02 and RJX01
	assert.Equal(t, []string{"RJO01", "RJO02", "RJX01"}, got)
}

func TestSuggestLimitAndNoDuplicates(t *testing.T) {
	candidates := []string{"RJO01", "RJO01", "RJO02", "RJO03"}
	got := Suggest("RJO", candidates, 2)
	assert.Len(t, got, 2)
	seen := map[string]bool{}
	for _, s := range got {
		assert.False(t, seen[s], "duplicate %q", s)
		seen[s] = true
	}
}

func TestSuggestZeroLimit(t *testing.T) {
	assert.Empty(t, Suggest("RJO", []string{"RJO01"}, 0))
}

func TestSuggestDistanceTierOrder(t *testing.T) {
	// Neither candidate shares a prefix or substring with the query;
	// both sit at distance 1, so catalog order decides.
	got := Suggest("ABC", []string{"ABE", "ABD"}, 10)
	assert.Equal(t, []string{"ABE", "ABD"}, got)
}
