// Package geo provides great-circle distance math for site lookups.
package geo

import (
	"math"

	"github.com/ph-robles/site-radar/internal/models"
)

// Mean Earth radius (IUGG).
const earthRadiusKm = 6371.0088

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// HaversineKm computes the great-circle distance between two points in
// kilometers. Inputs are decimal degrees.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := toRadians(lat1)
	lat2Rad := toRadians(lat2)
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// BatchKm computes the distance from one origin to every destination,
// elementwise: out[i] is the distance to dests[i].
func BatchKm(origin models.Coordinate, dests []models.Coordinate) []float64 {
	out := make([]float64, len(dests))
	for i, d := range dests {
		out[i] = HaversineKm(origin.Lat, origin.Lon, d.Lat, d.Lon)
	}
	return out
}
