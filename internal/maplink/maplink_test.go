package maplink

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ph-robles/site-radar/internal/models"
)

func TestSearchURL(t *testing.T) {
	assert.Equal(t,
		"https://www.google.com/maps/search/?api=1&query=-22.9068,-43.1729",
		SearchURL(-22.9068, -43.1729))

	// No trailing-zero padding or rounding beyond float-to-string.
	assert.Equal(t,
		"https://www.google.com/maps/search/?api=1&query=-22.9,-43.2",
		SearchURL(-22.9, -43.2))
}

func TestSearchURLDeterministic(t *testing.T) {
	assert.Equal(t, SearchURL(-22.9068, -43.1729), SearchURL(-22.9068, -43.1729))
}

func TestDirectionsURL(t *testing.T) {
	origin := models.Coordinate{Lat: -22.9, Lon: -43.2}
	dest := models.Coordinate{Lat: -23.55, Lon: -46.63}
	assert.Equal(t,
		"https://www.google.com/maps/dir/?api=1&origin=-22.9,-43.2&destination=-23.55,-46.63&travelmode=driving",
		DirectionsURL(origin, dest))
}
