package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ph-robles/site-radar/internal/cadeados"
	"github.com/ph-robles/site-radar/internal/catalog"
	"github.com/ph-robles/site-radar/internal/config"
	"github.com/ph-robles/site-radar/internal/geocode"
	"github.com/ph-robles/site-radar/internal/maplink"
	"github.com/ph-robles/site-radar/internal/matcher"
	"github.com/ph-robles/site-radar/internal/models"
	"github.com/ph-robles/site-radar/internal/proximity"
	"github.com/ph-robles/site-radar/internal/routing"
)

// Collaborator boundaries, narrowed so handlers can be exercised with
// stubs in tests.
type geocoder interface {
	Geocode(ctx context.Context, address string) *geocode.Result
}

type routeTabler interface {
	Table(ctx context.Context, origin models.Coordinate, dests []models.Coordinate) []models.RouteLeg
}

// === Response rows ===

type siteRow struct {
	Sigla      string   `json:"sigla"`
	Nome       string   `json:"nome"`
	Endereco   string   `json:"endereco"`
	Detentora  string   `json:"detentora,omitempty"`
	Lat        *float64 `json:"lat"`
	Lon        *float64 `json:"lon"`
	Capacitado bool     `json:"capacitado"`
	MapaURL    string   `json:"mapa_url,omitempty"`
}

type proximityRow struct {
	siteRow
	DistKm     float64  `json:"dist_km"`
	DistRotaKm *float64 `json:"dist_rota_km"`
	TempoMin   *int     `json:"tempo_min"`
	Forcado    bool     `json:"capacitado_forcado"`
	RotaURL    string   `json:"rota_url,omitempty"`
}

func toSiteRow(r models.SiteRecord) siteRow {
	row := siteRow{
		Sigla:      r.Sigla,
		Nome:       r.Nome,
		Endereco:   r.Endereco,
		Detentora:  r.Detentora,
		Lat:        r.Lat,
		Lon:        r.Lon,
		Capacitado: r.Capacitado,
	}
	if r.HasCoords() {
		row.MapaURL = maplink.SearchURL(*r.Lat, *r.Lon)
	}
	return row
}

func main() {
	cfg := config.Load(os.Getenv("SITE_RADAR_CONFIG"))

	snap, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		log.Fatalf("não foi possível carregar o catálogo: %v", err)
	}
	store := catalog.NewStore()
	store.Swap(snap)
	log.Infof("catálogo carregado: %d registros, %d siglas", len(snap.Records), len(snap.Siglas))

	geocli := geocode.New(geocode.Options{
		GeoapifyURL:   cfg.Geocode.GeoapifyURL,
		GeoapifyKey:   cfg.Geocode.GeoapifyKey,
		NominatimURL:  cfg.Geocode.NominatimURL,
		CountryCodes:  cfg.Geocode.CountryCodes,
		FallbackDelay: cfg.Geocode.FallbackDelay(),
		Timeout:       cfg.Geocode.Timeout(),
	})
	osrm := routing.New(cfg.Routing.OSRMURL, cfg.Routing.Timeout())

	locks, err := cadeados.Open(cfg.Cadeados.Path)
	if err != nil {
		log.Fatalf("não foi possível abrir o registro de cadeados: %v", err)
	}
	defer locks.Close()

	gin.SetMode(gin.ReleaseMode)
	r := setupRouter(cfg, store, geocli, osrm, locks)

	log.Infof("Site Radar ouvindo na porta %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("servidor encerrado: %v", err)
	}
}

func setupRouter(cfg *config.Config, store *catalog.Store, geocli geocoder, osrm routeTabler, locks *cadeados.Repo) *gin.Engine {
	r := gin.Default()

	r.GET("/healthz", func(c *gin.Context) {
		snap := store.Snapshot()
		if snap == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"ok":           true,
			"registros":    len(snap.Records),
			"siglas":       len(snap.Siglas),
			"carregado_em": snap.LoadedAt,
		})
	})

	api := r.Group("/api")

	api.GET("/sigla", func(c *gin.Context) {
		q := strings.TrimSpace(c.Query("q"))
		if q == "" {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "parâmetro 'q' é obrigatório"})
			return
		}
		snap := store.Snapshot()

		sigla, dist, ok := matcher.Resolve(q, snap.Siglas)
		if !ok {
			c.JSON(http.StatusOK, gin.H{"ok": false, "error": "Nenhuma SIGLA compatível encontrada."})
			return
		}

		records := snap.RecordsBySigla(sigla)
		rows := make([]siteRow, 0, len(records))
		for _, rec := range records {
			rows = append(rows, toSiteRow(rec))
		}

		c.JSON(http.StatusOK, gin.H{
			"ok":        true,
			"sigla":     sigla,
			"distancia": dist,
			"exata":     dist == 0,
			"registros": rows,
			"tecnicos":  snap.Tecnicos(sigla),
		})
	})

	api.GET("/sigla/sugestoes", func(c *gin.Context) {
		q := strings.TrimSpace(c.Query("q"))
		if q == "" {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "parâmetro 'q' é obrigatório"})
			return
		}
		limit := cfg.Busca.SuggestLimit
		if raw := c.Query("limit"); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil || v <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "parâmetro 'limit' inválido"})
				return
			}
			limit = v
		}
		snap := store.Snapshot()
		c.JSON(http.StatusOK, gin.H{
			"ok":        true,
			"sugestoes": matcher.Suggest(q, snap.Siglas, limit),
		})
	})

	api.GET("/endereco", func(c *gin.Context) {
		q := strings.TrimSpace(c.Query("q"))
		if q == "" {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "parâmetro 'q' é obrigatório"})
			return
		}
		k := cfg.Busca.TopK
		if raw := c.Query("k"); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil || v <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "parâmetro 'k' inválido"})
				return
			}
			k = v
		}

		found := geocli.Geocode(c.Request.Context(), q)
		if found == nil {
			c.JSON(http.StatusOK, gin.H{"ok": false, "encontrado": false, "error": "Endereço não encontrado."})
			return
		}
		origin := models.Coordinate{Lat: found.Lat, Lon: found.Lon}

		snap := store.Snapshot()
		entries := proximity.Nearest(origin, snap.Records, k)

		dests := make([]models.Coordinate, len(entries))
		for i, e := range entries {
			dests[i] = e.Record.Coord()
		}
		var legs []models.RouteLeg
		if len(entries) > 0 {
			legs = osrm.Table(c.Request.Context(), origin, dests)
		}
		enriched := legs != nil && len(legs) == len(entries)

		rows := make([]proximityRow, 0, len(entries))
		for i, e := range entries {
			row := proximityRow{
				siteRow: toSiteRow(e.Record),
				DistKm:  e.DistanceKm,
				Forcado: e.ForcedCapable,
				RotaURL: maplink.DirectionsURL(origin, e.Record.Coord()),
			}
			if enriched {
				row.DistRotaKm = &legs[i].DistanceKm
				row.TempoMin = &legs[i].DurationMin
			}
			rows = append(rows, row)
		}

		c.JSON(http.StatusOK, gin.H{
			"ok":                 true,
			"encontrado":         true,
			"endereco_formatado": found.Formatted,
			"lat":                found.Lat,
			"lon":                found.Lon,
			"rota_disponivel":    enriched,
			"resultados":         rows,
		})
	})

	api.GET("/cadeados/:sigla", func(c *gin.Context) {
		got, err := locks.Get(c.Request.Context(), c.Param("sigla"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "falha ao consultar cadeados"})
			return
		}
		if got == nil {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "cadeado não registrado"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"ok": true,
			"cadeado": gin.H{
				"sigla":         got.Sigla,
				"tipo":          got.Tipo,
				"observacao":    got.Observacao,
				"atualizado_em": got.UpdatedAt,
			},
		})
	})

	api.POST("/cadeados", func(c *gin.Context) {
		var req struct {
			Sigla      string `json:"sigla"`
			Tipo       string `json:"tipo"`
			Observacao string `json:"observacao"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "corpo inválido"})
			return
		}
		if strings.TrimSpace(req.Sigla) == "" || strings.TrimSpace(req.Tipo) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "sigla e tipo são obrigatórios"})
			return
		}
		err := locks.Upsert(c.Request.Context(), models.Cadeado{
			Sigla:      req.Sigla,
			Tipo:       req.Tipo,
			Observacao: req.Observacao,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "falha ao salvar cadeado"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	api.POST("/admin/recarregar", func(c *gin.Context) {
		path := cfg.Catalog.Path
		if file, err := c.FormFile("arquivo"); err == nil {
			if err := os.MkdirAll(cfg.Catalog.UploadDir, 0o755); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "falha ao preparar upload"})
				return
			}
			dst := filepath.Join(cfg.Catalog.UploadDir, fmt.Sprintf("%s_%s", uuid.New().String(), filepath.Base(file.Filename)))
			if err := c.SaveUploadedFile(file, dst); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "falha ao salvar arquivo"})
				return
			}
			path = dst
		}

		snap, err := catalog.Load(path)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"ok": false, "error": err.Error()})
			return
		}
		store.Swap(snap)
		log.Infof("catálogo recarregado de %s: %d registros", path, len(snap.Records))

		c.JSON(http.StatusOK, gin.H{
			"ok":        true,
			"registros": len(snap.Records),
			"siglas":    len(snap.Siglas),
		})
	})

	return r
}
