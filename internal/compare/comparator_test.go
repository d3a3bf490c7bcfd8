package compare_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/photoscout/photoscout/internal/compare"
	"github.com/photoscout/photoscout/internal/scoring"
)

func candidate(id, name string, lighting, wx, visibility, overall float64) compare.Candidate {
	return compare.Candidate{
		ID:   id,
		Name: name,
		Score: &scoring.Score{
			Lighting:       lighting,
			Weather:        wx,
			Visibility:     visibility,
			Overall:        overall,
			Recommendation: scoring.DefaultConfig().TierFor(overall),
		},
	}
}

func TestCompareFindsOverallWinner(t *testing.T) {
	result := compare.Compare([]compare.Candidate{
		candidate("a", "Cliff Point", 80, 70, 60, 74),
		candidate("b", "Harbor View", 90, 60, 80, 81),
		candidate("c", "Old Pier", 50, 95, 40, 58),
	})

	require.NotNil(t, result.Winner)
	assert.Equal(t, "b", result.Winner.ID)
	assert.Equal(t, 81.0, result.Winner.Score)
	assert.False(t, result.InsufficientData)
}

func TestComparePerDimensionLeaders(t *testing.T) {
	result := compare.Compare([]compare.Candidate{
		candidate("a", "Cliff Point", 80, 70, 60, 74),
		candidate("b", "Harbor View", 90, 60, 80, 81),
		candidate("c", "Old Pier", 50, 95, 40, 58),
	})

	require.NotNil(t, result.Lighting)
	assert.Equal(t, "b", result.Lighting.ID)
	require.NotNil(t, result.Weather)
	assert.Equal(t, "c", result.Weather.ID)
	require.NotNil(t, result.Visibility)
	assert.Equal(t, "b", result.Visibility.ID)
}

func TestCompareTiesBreakToFirstListed(t *testing.T) {
	result := compare.Compare([]compare.Candidate{
		candidate("first", "First", 80, 80, 80, 80),
		candidate("second", "Second", 80, 80, 80, 80),
	})

	require.NotNil(t, result.Winner)
	assert.Equal(t, "first", result.Winner.ID)
	assert.Equal(t, "first", result.Lighting.ID)
	assert.Equal(t, "first", result.Weather.ID)
	assert.Equal(t, "first", result.Visibility.ID)
}

func TestCompareIgnoresFailedCandidates(t *testing.T) {
	result := compare.Compare([]compare.Candidate{
		candidate("a", "Cliff Point", 80, 70, 60, 74),
		{ID: "broken", Name: "Broken", Err: errors.New("weather fetch failed")},
		candidate("c", "Old Pier", 50, 95, 40, 58),
		{ID: "loading", Name: "Loading"}, // no score yet
	})

	require.NotNil(t, result.Winner)
	assert.Equal(t, "a", result.Winner.ID)
}

func TestCompareInsufficientData(t *testing.T) {
	tests := []struct {
		name       string
		candidates []compare.Candidate
	}{
		{"empty", nil},
		{"single usable", []compare.Candidate{
			candidate("a", "Cliff Point", 80, 70, 60, 74),
		}},
		{"one usable one failed", []compare.Candidate{
			candidate("a", "Cliff Point", 80, 70, 60, 74),
			{ID: "b", Name: "Broken", Err: errors.New("nope")},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := compare.Compare(tt.candidates)

			assert.True(t, result.InsufficientData)
			assert.Nil(t, result.Winner)
			assert.Nil(t, result.Lighting)
			assert.Nil(t, result.Weather)
			assert.Nil(t, result.Visibility)
		})
	}
}

func TestCompareIsDeterministic(t *testing.T) {
	candidates := []compare.Candidate{
		candidate("a", "Cliff Point", 80, 70, 60, 74),
		candidate("b", "Harbor View", 90, 60, 80, 81),
	}

	assert.Equal(t, compare.Compare(candidates), compare.Compare(candidates))
}
