// Package geocode turns free-text addresses into coordinates through a
// two-tier provider chain: Geoapify when a key is configured, Nominatim
// as fallback. A failed or empty lookup is "address not found", never
// an error surfaced to the matching flow.
package geocode

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ph-robles/site-radar/internal/normalize"
)

const (
	defaultGeoapifyURL  = "https://api.geoapify.com/v1/geocode/search"
	defaultNominatimURL = "https://nominatim.openstreetmap.org/search"
	defaultCountryCodes = "br"
	defaultDelay        = time.Second
	defaultTimeout      = 5 * time.Second

	userAgent = "site-radar/1.0"
)

// Result is one resolved address.
type Result struct {
	Lat       float64
	Lon       float64
	Formatted string
}

// Sleeper lets tests replace the real delay between provider attempts.
type Sleeper func(time.Duration)

// Options configures the provider chain. Zero values pick defaults.
type Options struct {
	GeoapifyURL   string
	GeoapifyKey   string
	NominatimURL  string
	CountryCodes  string
	FallbackDelay time.Duration
	Timeout       time.Duration
	Sleep         Sleeper
}

// Client is safe for concurrent use. Definitive answers (found or
// confirmed not found) are memoized by normalized address; transport
// failures are retried on the next call.
type Client struct {
	http *http.Client
	opts Options

	mu   sync.Mutex
	memo map[string]*Result
}

func New(opts Options) *Client {
	if opts.GeoapifyURL == "" {
		opts.GeoapifyURL = defaultGeoapifyURL
	}
	if opts.NominatimURL == "" {
		opts.NominatimURL = defaultNominatimURL
	}
	if opts.CountryCodes == "" {
		opts.CountryCodes = defaultCountryCodes
	}
	if opts.FallbackDelay <= 0 {
		opts.FallbackDelay = defaultDelay
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Sleep == nil {
		opts.Sleep = time.Sleep
	}
	return &Client{
		http: &http.Client{Timeout: opts.Timeout},
		opts: opts,
		memo: make(map[string]*Result),
	}
}

// Geocode resolves a free-text address. nil means not found.
func (c *Client) Geocode(ctx context.Context, address string) *Result {
	key := normalize.Slug(address, " ")
	if key == "" {
		return nil
	}

	c.mu.Lock()
	if res, ok := c.memo[key]; ok {
		c.mu.Unlock()
		return res
	}
	c.mu.Unlock()

	res, definitive := c.lookup(ctx, address)
	if definitive {
		c.mu.Lock()
		c.memo[key] = res
		c.mu.Unlock()
	}
	return res
}

func (c *Client) lookup(ctx context.Context, address string) (*Result, bool) {
	primaryTried := false
	if c.opts.GeoapifyKey != "" {
		primaryTried = true
		if res, ok := c.geoapify(ctx, address); ok && res != nil {
			return res, true
		}
	}
	if primaryTried {
		c.opts.Sleep(c.opts.FallbackDelay)
	}
	return c.nominatim(ctx, address)
}

func (c *Client) geoapify(ctx context.Context, address string) (*Result, bool) {
	params := url.Values{}
	params.Set("text", address)
	params.Set("apiKey", c.opts.GeoapifyKey)
	params.Set("limit", "1")

	var payload struct {
		Features []struct {
			Properties struct {
				Lat       float64 `json:"lat"`
				Lon       float64 `json:"lon"`
				Formatted string  `json:"formatted"`
			} `json:"properties"`
		} `json:"features"`
	}
	if !c.get(ctx, c.opts.GeoapifyURL, params, &payload) {
		return nil, false
	}
	if len(payload.Features) == 0 {
		return nil, true
	}
	p := payload.Features[0].Properties
	return &Result{Lat: p.Lat, Lon: p.Lon, Formatted: p.Formatted}, true
}

func (c *Client) nominatim(ctx context.Context, address string) (*Result, bool) {
	params := url.Values{}
	params.Set("q", address)
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("countrycodes", c.opts.CountryCodes)

	var payload []struct {
		Lat         string `json:"lat"`
		Lon         string `json:"lon"`
		DisplayName string `json:"display_name"`
	}
	if !c.get(ctx, c.opts.NominatimURL, params, &payload) {
		return nil, false
	}
	if len(payload) == 0 {
		return nil, true
	}
	lat, err1 := strconv.ParseFloat(payload[0].Lat, 64)
	lon, err2 := strconv.ParseFloat(payload[0].Lon, 64)
	if err1 != nil || err2 != nil {
		log.Warnf("geocode: coordenadas inválidas do nominatim: %q/%q", payload[0].Lat, payload[0].Lon)
		return nil, false
	}
	return &Result{Lat: lat, Lon: lon, Formatted: payload[0].DisplayName}, true
}

// get runs one provider request and decodes the JSON body. false means
// the attempt failed (transport, status, or decode) and the answer is
// not definitive.
func (c *Client) get(ctx context.Context, base string, params url.Values, out any) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+params.Encode(), nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warnf("geocode: falha na requisição para %s: %v", base, err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warnf("geocode: status %d de %s", resp.StatusCode, base)
		return false
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Warnf("geocode: resposta inválida de %s: %v", base, err)
		return false
	}
	return true
}
