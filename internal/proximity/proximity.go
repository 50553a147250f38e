// Package proximity selects the nearest catalog sites to a query
// origin, with a capability override: the closest capacitado site is
// always part of the answer.
package proximity

import (
	"sort"

	"github.com/ph-robles/site-radar/internal/geo"
	"github.com/ph-robles/site-radar/internal/models"
	"github.com/ph-robles/site-radar/internal/normalize"
)

type candidate struct {
	rec  models.SiteRecord
	dist float64
}

// Nearest returns up to k coordinate-valid records ordered by ascending
// straight-line distance from origin. Records sharing a sigla collapse
// into their closest row. When the nearest capacitado record ranks
// outside the natural top k, it displaces the farthest natural pick and
// is tagged ForcedCapable. Empty output for k <= 0 or when no record
// has coordinates; never an error.
func Nearest(origin models.Coordinate, records []models.SiteRecord, k int) []models.ProximityEntry {
	if k <= 0 || len(records) == 0 {
		return nil
	}

	cands := make([]candidate, 0, len(records))
	for _, r := range records {
		if !r.HasCoords() {
			continue
		}
		d := geo.HaversineKm(origin.Lat, origin.Lon, *r.Lat, *r.Lon)
		cands = append(cands, candidate{rec: r, dist: d})
	}
	if len(cands) == 0 {
		return nil
	}

	// Stable sort keeps catalog order on equal distances.
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].dist < cands[j].dist })

	// Natural top k, first occurrence per sigla.
	seen := make(map[string]struct{}, k)
	top := make([]candidate, 0, k)
	for _, c := range cands {
		key := normalize.Sigla(c.rec.Sigla)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		top = append(top, c)
		if len(top) == k {
			break
		}
	}

	// Nearest capacitado record, if any. cands is sorted, so the first
	// hit is the closest one.
	var capable *candidate
	for i := range cands {
		if cands[i].rec.Capacitado {
			capable = &cands[i]
			break
		}
	}

	forcedKey := ""
	if capable != nil {
		key := normalize.Sigla(capable.rec.Sigla)
		if _, present := seen[key]; !present {
			// Outside the natural top k: drop the farthest natural pick
			// to make room, then restore ascending order.
			if len(top) == k {
				top = top[:len(top)-1]
			}
			top = append(top, *capable)
			sort.SliceStable(top, func(i, j int) bool { return top[i].dist < top[j].dist })
			forcedKey = key
		}
	}

	out := make([]models.ProximityEntry, len(top))
	for i, c := range top {
		out[i] = models.ProximityEntry{
			Record:        c.rec,
			DistanceKm:    c.dist,
			ForcedCapable: forcedKey != "" && normalize.Sigla(c.rec.Sigla) == forcedKey,
		}
	}
	return out
}
