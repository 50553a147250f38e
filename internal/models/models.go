package models

import "time"

// Coordinate is a WGS84 point in decimal degrees.
type Coordinate struct {
	Lat float64
	Lon float64
}

// SiteRecord is one ERB row from the "enderecos" sheet.
// Lat/Lon are nil when the source cell is missing or unparseable;
// such rows stay in the catalog but are skipped by geo lookups.
type SiteRecord struct {
	Sigla      string
	Nome       string
	Endereco   string
	Detentora  string
	Lat        *float64
	Lon        *float64
	Capacitado bool
}

// HasCoords reports whether both coordinates are present.
func (r SiteRecord) HasCoords() bool {
	return r.Lat != nil && r.Lon != nil
}

// Coord returns the record position. Only meaningful when HasCoords is true.
func (r SiteRecord) Coord() Coordinate {
	if !r.HasCoords() {
		return Coordinate{}
	}
	return Coordinate{Lat: *r.Lat, Lon: *r.Lon}
}

// Access is one cleared-technician row from the "acessos" sheet.
type Access struct {
	Sigla   string
	Tecnico string
}

// RouteLeg is the routed distance/time to one destination, as reported
// by the routing table service.
type RouteLeg struct {
	DistanceKm  float64
	DurationMin int
}

// ProximityEntry pairs a site with its straight-line distance from the
// query origin. Route is nil while enrichment is unavailable.
// ForcedCapable marks the nearest capacitado site when it only entered
// the result because of the capability override.
type ProximityEntry struct {
	Record        SiteRecord
	DistanceKm    float64
	Route         *RouteLeg
	ForcedCapable bool
}

// Cadeado is one padlock-registry row, keyed by upper-cased sigla.
type Cadeado struct {
	Sigla      string
	Tipo       string
	Observacao string
	UpdatedAt  time.Time
}
