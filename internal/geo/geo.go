package geo

import (
	"fmt"
	"math"
)

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

// Coordinate is a validated latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NewCoordinate validates bounds at ingestion time. Out-of-range values are
// rejected here so radius queries never have to re-check.
func NewCoordinate(lat, lng float64) (Coordinate, error) {
	if lat < -90 || lat > 90 {
		return Coordinate{}, fmt.Errorf("%w: latitude %v out of range [-90,90]", ErrInvalidCoordinate, lat)
	}
	if lng < -180 || lng > 180 {
		return Coordinate{}, fmt.Errorf("%w: longitude %v out of range [-180,180]", ErrInvalidCoordinate, lng)
	}
	return Coordinate{Latitude: lat, Longitude: lng}, nil
}

// DistanceKm returns the great-circle distance between two coordinates
// using the haversine formula.
func DistanceKm(a, b Coordinate) float64 {
	lat1Rad := toRadians(a.Latitude)
	lat2Rad := toRadians(b.Latitude)
	deltaLat := toRadians(b.Latitude - a.Latitude)
	deltaLon := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}

func toRadians(degrees float64) float64 {
	return degrees * (math.Pi / 180)
}

// Locatable is anything that may carry a coordinate. Entities without one
// are not locatable and are skipped by radius queries.
type Locatable interface {
	Coordinate() (Coordinate, bool)
}

// Located pairs a candidate with its computed distance from the query origin.
type Located[T Locatable] struct {
	Candidate  T
	DistanceKm float64
}

// WithinRadius returns the candidates within radiusKm of center with their
// distances attached, preserving input order. Candidates lacking a
// coordinate are omitted, never defaulted.
func WithinRadius[T Locatable](center Coordinate, radiusKm float64, candidates []T) []Located[T] {
	out := make([]Located[T], 0, len(candidates))
	for _, c := range candidates {
		coord, ok := c.Coordinate()
		if !ok {
			continue
		}
		d := DistanceKm(center, coord)
		if d <= radiusKm {
			out = append(out, Located[T]{Candidate: c, DistanceKm: d})
		}
	}
	return out
}
