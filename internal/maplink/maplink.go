// Package maplink builds Google Maps links for query results.
// String formatting only, no network access.
package maplink

import (
	"strconv"

	"github.com/ph-robles/site-radar/internal/models"
)

const (
	searchBase     = "https://www.google.com/maps/search/?api=1&query="
	directionsBase = "https://www.google.com/maps/dir/?api=1"
)

func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func pair(c models.Coordinate) string {
	return coord(c.Lat) + "," + coord(c.Lon)
}

// SearchURL returns the map-search link for a coordinate.
func SearchURL(lat, lon float64) string {
	return searchBase + pair(models.Coordinate{Lat: lat, Lon: lon})
}

// DirectionsURL returns the driving-route link from origin to destination.
func DirectionsURL(origin, dest models.Coordinate) string {
	return directionsBase + "&origin=" + pair(origin) + "&destination=" + pair(dest) + "&travelmode=driving"
}
