// Package routing queries an OSRM table service for routed
// distance/time from one origin to a fixed-order destination list.
// Any failure means "enrichment unavailable": callers keep their
// straight-line ranking and render the routed fields as absent.
package routing

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ph-robles/site-radar/internal/models"
)

const (
	defaultBaseURL = "https://router.project-osrm.org"
	defaultTimeout = 8 * time.Second
)

// Client is safe for concurrent use. Successful tables are memoized by
// coordinate set.
type Client struct {
	http    *http.Client
	baseURL string

	mu   sync.Mutex
	memo map[string][]models.RouteLeg
}

func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		memo:    make(map[string][]models.RouteLeg),
	}
}

// Table returns one leg per destination, positionally aligned with
// dests. nil when the service fails, the payload is malformed, or the
// leg count does not match; never an error.
func (c *Client) Table(ctx context.Context, origin models.Coordinate, dests []models.Coordinate) []models.RouteLeg {
	if len(dests) == 0 {
		return nil
	}

	key := coordKey(origin, dests)
	c.mu.Lock()
	if legs, ok := c.memo[key]; ok {
		c.mu.Unlock()
		return legs
	}
	c.mu.Unlock()

	legs := c.fetch(ctx, origin, dests)
	if legs != nil {
		c.mu.Lock()
		c.memo[key] = legs
		c.mu.Unlock()
	}
	return legs
}

func (c *Client) fetch(ctx context.Context, origin models.Coordinate, dests []models.Coordinate) []models.RouteLeg {
	// OSRM takes lon,lat pairs, origin first.
	var sb strings.Builder
	writeCoord(&sb, origin)
	for _, d := range dests {
		sb.WriteByte(';')
		writeCoord(&sb, d)
	}
	reqURL := c.baseURL + "/table/v1/driving/" + sb.String() + "?annotations=duration,distance"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil
	}
	resp, err := c.http.Do(req)
	if err != nil {
		log.Warnf("routing: falha na requisição OSRM: %v", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warnf("routing: status %d do OSRM", resp.StatusCode)
		return nil
	}

	var payload struct {
		Durations [][]float64 `json:"durations"`
		Distances [][]float64 `json:"distances"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Warnf("routing: resposta OSRM inválida: %v", err)
		return nil
	}

	// Row 0 holds origin→destination values; position 0 is the origin
	// itself and is skipped. A shorter row than expected means the
	// table is unusable.
	want := len(dests) + 1
	if len(payload.Durations) == 0 || len(payload.Distances) == 0 ||
		len(payload.Durations[0]) != want || len(payload.Distances[0]) != want {
		log.Warnf("routing: tabela OSRM com tamanho inesperado")
		return nil
	}

	legs := make([]models.RouteLeg, len(dests))
	for i := range dests {
		seconds := payload.Durations[0][i+1]
		meters := payload.Distances[0][i+1]
		legs[i] = models.RouteLeg{
			DistanceKm:  math.Round(meters/10) / 100,
			DurationMin: int(math.Round(seconds / 60)),
		}
	}
	return legs
}

func writeCoord(sb *strings.Builder, c models.Coordinate) {
	sb.WriteString(strconv.FormatFloat(c.Lon, 'f', -1, 64))
	sb.WriteByte(',')
	sb.WriteString(strconv.FormatFloat(c.Lat, 'f', -1, 64))
}

func coordKey(origin models.Coordinate, dests []models.Coordinate) string {
	var sb strings.Builder
	writeCoord(&sb, origin)
	for _, d := range dests {
		sb.WriteByte('|')
		writeCoord(&sb, d)
	}
	return sb.String()
}
