package search

import "strings"

// Filters is the composable filter configuration applied to a geo-bounded
// candidate set. Filters AND together; a multi-select filter ORs within
// itself; zero values are pass-through. Applying filters never reorders
// candidates.
type Filters struct {
	Query           string   `json:"query,omitempty"`
	Specializations []string `json:"specializations,omitempty"`
	MinExperience   *int     `json:"min_experience,omitempty"`
	MaxExperience   *int     `json:"max_experience,omitempty"`
	VerifiedOnly    bool     `json:"verified_only,omitempty"`
	HasActiveJobs   bool     `json:"has_active_jobs,omitempty"`
}

// Apply returns the candidates matching every active filter, in input order.
func (f Filters) Apply(candidates []Candidate) []Candidate {
	out := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if f.matches(c) {
			out = append(out, c)
		}
	}
	return out
}

func (f Filters) matches(c Candidate) bool {
	return f.matchesQuery(c) &&
		f.matchesSpecializations(c) &&
		f.matchesExperience(c) &&
		f.matchesVerified(c) &&
		f.matchesActiveJobs(c)
}

// matchesQuery is a case-insensitive substring match over the searchable
// fields; any field containing the term matches.
func (f Filters) matchesQuery(c Candidate) bool {
	term := strings.ToLower(strings.TrimSpace(f.Query))
	if term == "" {
		return true
	}
	for _, field := range []string{c.Name, c.Specialization, c.Address} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// matchesSpecializations passes when the selection is empty or contains
// the candidate's specialization.
func (f Filters) matchesSpecializations(c Candidate) bool {
	if len(f.Specializations) == 0 {
		return true
	}
	for _, s := range f.Specializations {
		if strings.EqualFold(s, c.Specialization) {
			return true
		}
	}
	return false
}

// matchesExperience checks the inclusive [min, max] range.
func (f Filters) matchesExperience(c Candidate) bool {
	if f.MinExperience != nil && c.ExperienceYears < *f.MinExperience {
		return false
	}
	if f.MaxExperience != nil && c.ExperienceYears > *f.MaxExperience {
		return false
	}
	return true
}

func (f Filters) matchesVerified(c Candidate) bool {
	if !f.VerifiedOnly {
		return true
	}
	return c.Verified
}

func (f Filters) matchesActiveJobs(c Candidate) bool {
	if !f.HasActiveJobs {
		return true
	}
	return c.OpenJobs > 0
}
