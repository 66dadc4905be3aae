// Package geo computes great-circle distances and filters located entities
// by radius. Everything here is a full scan; at tens of cards per field that
// is cheaper than maintaining a spatial index. Revisit past a few thousand.
package geo

import (
	"math"

	"github.com/geocards/geocards-api/internal/entities"
)

// EarthRadiusMeters is the spherical-Earth radius used by DistanceMeters
const EarthRadiusMeters = 6_371_000.0

// Located is anything with a fixed map position
type Located interface {
	Position() entities.Coordinate
}

// DistanceMeters returns the haversine distance between a and b.
// NaN or out-of-range inputs yield NaN and are not corrected.
func DistanceMeters(a, b entities.Coordinate) float64 {
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	dLat := toRadians(b.Lat - a.Lat)
	dLng := toRadians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)

	// rounding can push h a hair past 1 for antipodal points
	if h > 1 {
		h = 1
	}

	return 2 * EarthRadiusMeters * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// WithinRadius returns the items whose distance from center is at most
// radiusMeters, in input order. A NaN distance never matches.
func WithinRadius[T Located](center entities.Coordinate, radiusMeters float64, items []T) []T {
	var out []T
	for _, item := range items {
		if DistanceMeters(center, item.Position()) <= radiusMeters {
			out = append(out, item)
		}
	}
	return out
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
