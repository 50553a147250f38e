// Package catalog loads the ERB workbook into an immutable in-memory
// snapshot and serves it to query handlers through an atomic-swap store.
package catalog

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/xuri/excelize/v2"

	"github.com/ph-robles/site-radar/internal/models"
)

const sheetEnderecos = "enderecos"

var (
	sheetAcessos     = []string{"acessos"}
	sheetCapacitados = []string{"capacitados", "capacitacao", "cap_ativos"}

	// Accepted statuses on the acessos sheet.
	statusLiberado = map[string]struct{}{
		"ok": {}, "liberado": {}, "aprovado": {}, "ativo": {},
	}
)

// Snapshot is one immutable load of the workbook. Queries hold a
// snapshot for their whole lifetime; reloads build a new one and swap.
type Snapshot struct {
	Records   []models.SiteRecord
	Siglas    []string            // unique upper-cased siglas, catalog order
	Acessos   map[string][]string // cleared technicians per upper sigla
	AllowList map[string]struct{} // capacitado allow-list, upper siglas
	Path      string
	LoadedAt  time.Time
}

// RecordsBySigla returns every catalog row carrying the given sigla.
// The source data does not guarantee uniqueness, so this can be several
// rows.
func (s *Snapshot) RecordsBySigla(sigla string) []models.SiteRecord {
	want := strings.ToUpper(strings.TrimSpace(sigla))
	var out []models.SiteRecord
	for _, r := range s.Records {
		if strings.ToUpper(strings.TrimSpace(r.Sigla)) == want {
			out = append(out, r)
		}
	}
	return out
}

// Tecnicos returns the cleared technicians for a sigla, or nil.
func (s *Snapshot) Tecnicos(sigla string) []string {
	return s.Acessos[strings.ToUpper(strings.TrimSpace(sigla))]
}

// Load reads the workbook at path and builds a snapshot. The enderecos
// sheet is required; acessos and the capacitados allow-list sheets are
// optional and silently skipped when absent.
func Load(path string) (*Snapshot, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("abrir planilha: %w", err)
	}
	defer f.Close()

	allow := readAllowList(f)

	records, err := readEnderecos(f, allow)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Records:   records,
		Acessos:   readAcessos(f),
		AllowList: allow,
		Path:      path,
		LoadedAt:  time.Now(),
	}

	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		s := strings.ToUpper(strings.TrimSpace(r.Sigla))
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		snap.Siglas = append(snap.Siglas, s)
	}
	return snap, nil
}

// findColumn locates a header by candidate names: exact match first,
// then substring, both case-insensitive. Returns -1 when absent.
func findColumn(headers []string, candidates ...string) int {
	lowered := make([]string, len(headers))
	for i, h := range headers {
		lowered[i] = strings.ToLower(strings.TrimSpace(h))
	}
	for _, cand := range candidates {
		for i, h := range lowered {
			if h == cand {
				return i
			}
		}
	}
	for i, h := range lowered {
		for _, cand := range candidates {
			if strings.Contains(h, cand) {
				return i
			}
		}
	}
	return -1
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseCoord tolerates the comma decimal separator used in PT-BR
// spreadsheets. nil means "no coordinate", never an error.
func parseCoord(val string) *float64 {
	val = strings.TrimSpace(strings.ReplaceAll(val, ",", "."))
	if val == "" {
		return nil
	}
	v, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return nil
	}
	return &v
}

func readEnderecos(f *excelize.File, allow map[string]struct{}) ([]models.SiteRecord, error) {
	rows, err := f.GetRows(sheetEnderecos)
	if err != nil {
		return nil, fmt.Errorf("aba %q não encontrada: %w", sheetEnderecos, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("aba %q vazia", sheetEnderecos)
	}

	headers := rows[0]
	colSigla := findColumn(headers, "sigla", "sigla_da_torre", "site", "torre")
	colNome := findColumn(headers, "nome", "nome_da_torre", "descricao", "descrição")
	colEnd := findColumn(headers, "endereco", "endereço", "address", "end")
	colDet := findColumn(headers, "detentora", "operadora", "donodosite")
	colLat := findColumn(headers, "lat", "latitude")
	colLon := findColumn(headers, "lon", "long", "longitude")
	colCap := findColumn(headers, "capacitado", "capacitacao", "habilitado", "ativo")

	var missing []string
	for _, c := range []struct {
		idx  int
		name string
	}{
		{colSigla, "sigla"}, {colNome, "nome"}, {colEnd, "endereco"},
		{colLat, "lat"}, {colLon, "lon"},
	} {
		if c.idx < 0 {
			missing = append(missing, c.name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("colunas essenciais ausentes na aba %q: %s",
			sheetEnderecos, strings.Join(missing, ", "))
	}

	var records []models.SiteRecord
	for i, row := range rows {
		if i == 0 {
			continue
		}
		sigla := cell(row, colSigla)
		if sigla == "" {
			// Rows without an identifier are not part of the catalog.
			continue
		}
		rec := models.SiteRecord{
			Sigla:     sigla,
			Nome:      cell(row, colNome),
			Endereco:  cell(row, colEnd),
			Detentora: cell(row, colDet),
			Lat:       parseCoord(cell(row, colLat)),
			Lon:       parseCoord(cell(row, colLon)),
		}
		capText := ""
		if colCap >= 0 {
			capText = cell(row, colCap)
		}
		_, listed := allow[strings.ToUpper(sigla)]
		rec.Capacitado = Afirmativo(capText) || listed
		records = append(records, rec)
	}
	return records, nil
}

func readAcessos(f *excelize.File) map[string][]string {
	out := make(map[string][]string)
	for _, sheet := range sheetAcessos {
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) == 0 {
			continue
		}
		headers := rows[0]
		colSigla := findColumn(headers, "sigla", "sigla_da_torre", "site", "torre")
		colTec := findColumn(headers, "tecnico", "técnico", "colaborador", "nome_tecnico")
		colSta := findColumn(headers, "status", "situacao", "situação")
		if colSigla < 0 || colTec < 0 {
			log.Warnf("aba %q sem colunas sigla/tecnico, ignorando", sheet)
			continue
		}
		for i, row := range rows {
			if i == 0 {
				continue
			}
			sigla := strings.ToUpper(cell(row, colSigla))
			tec := cell(row, colTec)
			if sigla == "" || tec == "" {
				continue
			}
			if colSta >= 0 {
				status := strings.ToLower(cell(row, colSta))
				if _, ok := statusLiberado[status]; !ok {
					continue
				}
			}
			out[sigla] = append(out[sigla], tec)
		}
	}
	return out
}

// readAllowList scans the optional capacitados sheets for upper-cased
// siglas. A status column, when present, filters by affirmative token.
func readAllowList(f *excelize.File) map[string]struct{} {
	for _, sheet := range sheetCapacitados {
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) == 0 {
			continue
		}
		headers := rows[0]
		colSigla := findColumn(headers, "sigla", "sigla_da_torre", "site", "torre")
		if colSigla < 0 {
			continue
		}
		colSta := findColumn(headers, "status", "capacitado", "ativo", "habilitado")

		out := make(map[string]struct{})
		for i, row := range rows {
			if i == 0 {
				continue
			}
			sigla := strings.ToUpper(cell(row, colSigla))
			if sigla == "" {
				continue
			}
			if colSta >= 0 && !Afirmativo(cell(row, colSta)) {
				continue
			}
			out[sigla] = struct{}{}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}
