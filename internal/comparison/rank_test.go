// internal/comparison/rank_test.go
package comparison

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRank_EmptyInput(t *testing.T) {
	entries, err := Rank(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, entries)

	entries, err = Rank([]RankInput{}, nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRank_DefaultWeights(t *testing.T) {
	entries, err := Rank([]RankInput{
		{ID: "mfr-low", ProfileScore: 50},
		{ID: "mfr-high", ProfileScore: 90},
	}, nil)
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, "mfr-high", entries[0].ID)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "mfr-low", entries[1].ID)
	assert.Equal(t, 2, entries[1].Rank)
}

func TestRank_RanksArePermutation(t *testing.T) {
	input := []RankInput{
		{ID: "a", ProfileScore: 10},
		{ID: "b", ProfileScore: 80, CertificationCount: 3},
		{ID: "c", MatchScore: 95},
		{ID: "d", ProfileScore: 80, ServicesCount: 5},
		{ID: "e"},
	}

	entries, err := Rank(input, nil)
	require.NoError(t, err)
	require.Len(t, entries, len(input))

	seen := map[int]bool{}
	for i, e := range entries {
		assert.Equal(t, i+1, e.Rank)
		assert.False(t, seen[e.Rank], "duplicate rank %d", e.Rank)
		seen[e.Rank] = true
		if i > 0 {
			assert.GreaterOrEqual(t, entries[i-1].Score, e.Score)
		}
	}
}

func TestRank_TiesKeepInputOrder(t *testing.T) {
	entries, err := Rank([]RankInput{
		{ID: "first", ProfileScore: 75},
		{ID: "second", ProfileScore: 75},
		{ID: "third", ProfileScore: 75},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "second", "third"},
		[]string{entries[0].ID, entries[1].ID, entries[2].ID})
	assert.Equal(t, []int{1, 2, 3},
		[]int{entries[0].Rank, entries[1].Rank, entries[2].Rank})
}

func TestRank_NonNormalizedWeightsAreNormalized(t *testing.T) {
	// 4/3/2/1 normalizes to the default 0.4/0.3/0.2/0.1.
	scaled := &RankWeights{ProfileScore: 4, MatchScore: 3, CertificationCount: 2, ServicesCount: 1}

	input := []RankInput{
		{ID: "a", ProfileScore: 90, MatchScore: 40, CertificationCount: 2, ServicesCount: 4},
		{ID: "b", ProfileScore: 55, MatchScore: 85, CertificationCount: 6, ServicesCount: 1},
	}

	withDefaults, err := Rank(input, nil)
	require.NoError(t, err)
	withScaled, err := Rank(input, scaled)
	require.NoError(t, err)

	for i := range withDefaults {
		assert.Equal(t, withDefaults[i].ID, withScaled[i].ID)
		assert.InDelta(t, withDefaults[i].Score, withScaled[i].Score, 1e-9)
	}
}

func TestRank_InvalidWeights(t *testing.T) {
	tests := []struct {
		name    string
		weights RankWeights
	}{
		{"negative weight", RankWeights{ProfileScore: -0.4, MatchScore: 0.6}},
		{"NaN weight", RankWeights{ProfileScore: math.NaN()}},
		{"infinite weight", RankWeights{MatchScore: math.Inf(1)}},
		{"all zero", RankWeights{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Rank([]RankInput{{ID: "a", ProfileScore: 50}}, &tt.weights)
			assert.Error(t, err)
		})
	}
}

func TestRank_CountNormalizationCaps(t *testing.T) {
	entries, err := Rank([]RankInput{
		{ID: "capped", CertificationCount: 50, ServicesCount: 50},
		{ID: "at-cap", CertificationCount: 10, ServicesCount: 10},
	}, nil)
	require.NoError(t, err)

	assert.InDelta(t, entries[0].Score, entries[1].Score, 1e-9,
		"counts beyond the cap contribute no extra score")
}

func TestRank_CompositeScoreWithinUnitInterval(t *testing.T) {
	entries, err := Rank([]RankInput{
		{ID: "max", ProfileScore: 100, MatchScore: 100, CertificationCount: 10, ServicesCount: 10},
		{ID: "overflow", ProfileScore: 900, MatchScore: -50, CertificationCount: 99, ServicesCount: -3},
	}, nil)
	require.NoError(t, err)

	for _, e := range entries {
		assert.GreaterOrEqual(t, e.Score, 0.0)
		assert.LessOrEqual(t, e.Score, 1.0)
	}
}
