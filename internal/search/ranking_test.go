package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func floatPtr(v float64) *float64 { return &v }

func TestParseStrategy(t *testing.T) {
	s, ok := ParseStrategy("experience_desc")
	assert.True(t, ok)
	assert.Equal(t, StrategyExperienceDesc, s)

	_, ok = ParseStrategy("by_vibes")
	assert.False(t, ok)
}

func TestRankStrategies(t *testing.T) {
	in := []Candidate{
		{ID: "a", Name: "Zed", ExperienceYears: 2, OpenJobs: 1, Applications: 9, DistanceKm: floatPtr(12.5)},
		{ID: "b", Name: "Amy", ExperienceYears: 10, OpenJobs: 4, Applications: 2, DistanceKm: floatPtr(3.1)},
		{ID: "c", Name: "Mia", ExperienceYears: 6, OpenJobs: 0, Applications: 5, DistanceKm: floatPtr(7.9)},
	}

	tests := []struct {
		strategy Strategy
		want     []string
	}{
		{StrategyNearest, []string{"b", "c", "a"}},
		{StrategyExperienceAsc, []string{"a", "c", "b"}},
		{StrategyExperienceDesc, []string{"b", "c", "a"}},
		{StrategyNameAsc, []string{"b", "c", "a"}},
		{StrategyNameDesc, []string{"a", "c", "b"}},
		{StrategyMostJobs, []string{"b", "a", "c"}},
		{StrategyFewestJobs, []string{"c", "a", "b"}},
		{StrategyMostApplications, []string{"a", "c", "b"}},
		{StrategyFewestApplications, []string{"b", "c", "a"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.strategy), func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Rank(in, tt.strategy)))
		})
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	in := []Candidate{
		{ID: "a", Name: "Zed"},
		{ID: "b", Name: "Amy"},
	}
	_ = Rank(in, StrategyNameAsc)
	assert.Equal(t, []string{"a", "b"}, ids(in))
}

func TestRankIsStableForEqualKeys(t *testing.T) {
	in := []Candidate{
		{ID: "a", ExperienceYears: 5},
		{ID: "b", ExperienceYears: 5},
		{ID: "c", ExperienceYears: 5},
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids(Rank(in, StrategyExperienceAsc)))
	assert.Equal(t, []string{"a", "b", "c"}, ids(Rank(in, StrategyExperienceDesc)))
}

func TestRankNearestPutsMissingDistanceLast(t *testing.T) {
	in := []Candidate{
		{ID: "a"},
		{ID: "b", DistanceKm: floatPtr(20)},
		{ID: "c"},
		{ID: "d", DistanceKm: floatPtr(5)},
	}
	assert.Equal(t, []string{"d", "b", "a", "c"}, ids(Rank(in, StrategyNearest)))
}

func TestRankUnknownStrategyFallsBackToNearest(t *testing.T) {
	in := []Candidate{
		{ID: "a", DistanceKm: floatPtr(9)},
		{ID: "b", DistanceKm: floatPtr(1)},
	}
	assert.Equal(t, []string{"b", "a"}, ids(Rank(in, Strategy("unknown"))))
}
