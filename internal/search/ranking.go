package search

import (
	"math"
	"sort"
)

// Strategy names a ranking order. All strategies sort stably so equal
// keys keep their input order, which keeps pagination reproducible.
type Strategy string

const (
	StrategyNearest            Strategy = "nearest"
	StrategyExperienceAsc      Strategy = "experience_asc"
	StrategyExperienceDesc     Strategy = "experience_desc"
	StrategyNameAsc            Strategy = "name_asc"
	StrategyNameDesc           Strategy = "name_desc"
	StrategyMostJobs           Strategy = "most_jobs"
	StrategyFewestJobs         Strategy = "fewest_jobs"
	StrategyMostApplications   Strategy = "most_applications"
	StrategyFewestApplications Strategy = "fewest_applications"
)

// ParseStrategy maps a query-string value to a Strategy.
func ParseStrategy(raw string) (Strategy, bool) {
	switch Strategy(raw) {
	case StrategyNearest, StrategyExperienceAsc, StrategyExperienceDesc,
		StrategyNameAsc, StrategyNameDesc, StrategyMostJobs, StrategyFewestJobs,
		StrategyMostApplications, StrategyFewestApplications:
		return Strategy(raw), true
	}
	return "", false
}

// Rank returns a new slice ordered by the strategy. The input is never
// mutated. Unknown strategies fall back to nearest.
func Rank(candidates []Candidate, strategy Strategy) []Candidate {
	out := make([]Candidate, len(candidates))
	copy(out, candidates)

	var less func(a, b Candidate) bool
	switch strategy {
	case StrategyExperienceAsc:
		less = func(a, b Candidate) bool { return a.ExperienceYears < b.ExperienceYears }
	case StrategyExperienceDesc:
		less = func(a, b Candidate) bool { return a.ExperienceYears > b.ExperienceYears }
	case StrategyNameAsc:
		less = func(a, b Candidate) bool { return a.Name < b.Name }
	case StrategyNameDesc:
		less = func(a, b Candidate) bool { return a.Name > b.Name }
	case StrategyMostJobs:
		less = func(a, b Candidate) bool { return a.OpenJobs > b.OpenJobs }
	case StrategyFewestJobs:
		less = func(a, b Candidate) bool { return a.OpenJobs < b.OpenJobs }
	case StrategyMostApplications:
		less = func(a, b Candidate) bool { return a.Applications > b.Applications }
	case StrategyFewestApplications:
		less = func(a, b Candidate) bool { return a.Applications < b.Applications }
	default:
		less = func(a, b Candidate) bool { return distanceOrInf(a) < distanceOrInf(b) }
	}

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// distanceOrInf treats a missing distance as +infinity so unlocatable
// candidates sort last under nearest.
func distanceOrInf(c Candidate) float64 {
	if c.DistanceKm == nil {
		return math.Inf(1)
	}
	return *c.DistanceKm
}
