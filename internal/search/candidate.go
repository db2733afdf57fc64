package search

import (
	"github.com/caretap/staffing-platform/internal/directory"
	"github.com/caretap/staffing-platform/internal/geo"
)

// Kind selects which side of the marketplace a query discovers.
type Kind string

const (
	KindDoctors Kind = "doctors"
	KindClinics Kind = "clinics"
	KindJobs    Kind = "jobs"
)

// Candidate is the uniform search row the filter and ranking stages
// operate on. It is JSON-encodable so geo-bounded snapshots can live in
// the cache between filter changes.
type Candidate struct {
	ID              string   `json:"id"`
	Kind            Kind     `json:"kind"`
	Name            string   `json:"name"`
	Specialization  string   `json:"specialization,omitempty"`
	Address         string   `json:"address,omitempty"`
	ExperienceYears int      `json:"experience_years,omitempty"`
	Verified        bool     `json:"verified,omitempty"`
	OpenJobs        int      `json:"open_jobs,omitempty"`
	Applications    int      `json:"applications,omitempty"`
	DistanceKm      *float64 `json:"distance_km,omitempty"`
}

func doctorCandidate(located geo.Located[*directory.Doctor]) Candidate {
	d := located.Candidate
	dist := located.DistanceKm
	return Candidate{
		ID:              d.ID,
		Kind:            KindDoctors,
		Name:            d.Name,
		Specialization:  string(d.Specialization),
		Address:         d.Address,
		ExperienceYears: d.ExperienceYears,
		DistanceKm:      &dist,
	}
}

func clinicCandidate(located geo.Located[*directory.Clinic]) Candidate {
	c := located.Candidate
	dist := located.DistanceKm
	return Candidate{
		ID:         c.ID,
		Kind:       KindClinics,
		Name:       c.Name,
		Address:    c.Address,
		Verified:   c.Verified,
		OpenJobs:   c.OpenJobs,
		DistanceKm: &dist,
	}
}

func jobCandidate(located geo.Located[*directory.JobRequirement]) Candidate {
	j := located.Candidate
	dist := located.DistanceKm
	return Candidate{
		ID:             j.ID,
		Kind:           KindJobs,
		Name:           j.Title,
		Specialization: string(j.Specialization),
		Address:        j.Address,
		Applications:   j.ApplicationsCount,
		DistanceKm:     &dist,
	}
}
