// Package config loads TOML configuration with builtin defaults, plus
// the Geoapify key from the environment (.env supported).
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Config holds the entire config structure.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Catalog  CatalogConfig  `toml:"catalog"`
	Busca    BuscaConfig    `toml:"busca"`
	Geocode  GeocodeConfig  `toml:"geocode"`
	Routing  RoutingConfig  `toml:"routing"`
	Cadeados CadeadosConfig `toml:"cadeados"`
}

type ServerConfig struct {
	Port string `toml:"port"`
}

type CatalogConfig struct {
	Path      string `toml:"path"`
	UploadDir string `toml:"upload_dir"`
}

// BuscaConfig bounds the lookup endpoints.
type BuscaConfig struct {
	TopK         int `toml:"top_k"`
	SuggestLimit int `toml:"suggest_limit"`
}

type GeocodeConfig struct {
	GeoapifyURL     string `toml:"geoapify_url"`
	NominatimURL    string `toml:"nominatim_url"`
	CountryCodes    string `toml:"country_codes"`
	FallbackDelayMs int    `toml:"fallback_delay_ms"`
	TimeoutMs       int    `toml:"timeout_ms"`

	// From GEOAPIFY_KEY in the environment, never from the TOML file.
	GeoapifyKey string `toml:"-"`
}

func (g GeocodeConfig) FallbackDelay() time.Duration {
	return time.Duration(g.FallbackDelayMs) * time.Millisecond
}

func (g GeocodeConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutMs) * time.Millisecond
}

type RoutingConfig struct {
	OSRMURL   string `toml:"osrm_url"`
	TimeoutMs int    `toml:"timeout_ms"`
}

func (r RoutingConfig) Timeout() time.Duration {
	return time.Duration(r.TimeoutMs) * time.Millisecond
}

type CadeadosConfig struct {
	Path string `toml:"path"`
}

// Default returns the builtin configuration.
func Default() *Config {
	return &Config{
		Server:  ServerConfig{Port: "8080"},
		Catalog: CatalogConfig{Path: "enderecos.xlsx", UploadDir: "uploads"},
		Busca:   BuscaConfig{TopK: 3, SuggestLimit: 10},
		Geocode: GeocodeConfig{
			CountryCodes:    "br",
			FallbackDelayMs: 1000,
			TimeoutMs:       5000,
		},
		Routing:  RoutingConfig{TimeoutMs: 8000},
		Cadeados: CadeadosConfig{Path: "cadeados.db"},
	}
}

// Load reads path when it exists, falling back to builtin defaults.
// The environment (optionally via a .env file) supplies GEOAPIFY_KEY
// and a PORT override.
func Load(path string) *Config {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				log.Warnf("config: falha ao ler %s: %v. Usando padrões.", path, err)
				cfg = Default()
			} else {
				log.Debugf("config: carregada de %s", path)
			}
		}
	}

	_ = godotenv.Load()
	cfg.Geocode.GeoapifyKey = os.Getenv("GEOAPIFY_KEY")
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Port = port
	}
	return cfg
}
