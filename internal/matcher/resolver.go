// Package matcher resolves user-typed siglas against the catalog,
// exact match first and minimum edit distance as a fallback.
package matcher

import (
	"sort"
	"strings"

	"github.com/ph-robles/site-radar/internal/normalize"
)

// Resolve matches query against candidates. The exact pass returns the
// first candidate (catalog order) whose normalized form equals the
// normalized query; otherwise the candidate with minimum edit distance
// wins, ties kept in catalog order. ok is false only when candidates is
// empty. distance is 0 for an exact match.
func Resolve(query string, candidates []string) (match string, distance int, ok bool) {
	if len(candidates) == 0 {
		return "", 0, false
	}
	qn := normalize.Sigla(query)
	for _, c := range candidates {
		if normalize.Sigla(c) == qn {
			return c, 0, true
		}
	}
	best := ""
	bestDist := -1
	for _, c := range candidates {
		d := Distance(normalize.Sigla(c), qn)
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, bestDist, true
}

// Suggest produces up to limit candidates for incremental "did you
// mean" lookups. Three tiers, each consulted only while the previous
// ones produced fewer than limit results, never repeating a candidate:
//
//  1. normalized form starts with the normalized query
//  2. normalized form contains the normalized query
//  3. edit distance <= 1, ordered by distance then catalog order
func Suggest(query string, candidates []string, limit int) []string {
	if limit <= 0 {
		return nil
	}
	qn := normalize.Sigla(query)

	seen := make(map[string]struct{}, limit)
	out := make([]string, 0, limit)
	add := func(c string) bool {
		if _, dup := seen[c]; !dup {
			seen[c] = struct{}{}
			out = append(out, c)
		}
		return len(out) < limit
	}

	for _, c := range candidates {
		if strings.HasPrefix(normalize.Sigla(c), qn) {
			if !add(c) {
				return out
			}
		}
	}
	for _, c := range candidates {
		if strings.Contains(normalize.Sigla(c), qn) {
			if !add(c) {
				return out
			}
		}
	}

	type scored struct {
		c string
		d int
	}
	var near []scored
	for _, c := range candidates {
		if _, dup := seen[c]; dup {
			continue
		}
		if d := Distance(normalize.Sigla(c), qn); d <= 1 {
			near = append(near, scored{c, d})
		}
	}
	sort.SliceStable(near, func(i, j int) bool { return near[i].d < near[j].d })
	for _, s := range near {
		if !add(s.c) {
			break
		}
	}
	return out
}
