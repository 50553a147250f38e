// Package cadeados keeps the padlock registry: which lock type guards
// each site and any field note, keyed by upper-cased sigla.
package cadeados

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ph-robles/site-radar/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS cadeados (
	sigla      TEXT PRIMARY KEY,
	tipo       TEXT NOT NULL,
	observacao TEXT NOT NULL DEFAULT '',
	updated_at TIMESTAMP NOT NULL
);`

type Repo struct {
	db *sql.DB
}

// Open opens (and creates, when needed) the registry database at path.
// Use ":memory:" for tests.
func Open(path string) (*Repo, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("abrir banco de cadeados: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("criar tabela de cadeados: %w", err)
	}
	return &Repo{db: db}, nil
}

func (r *Repo) Close() error {
	return r.db.Close()
}

// Upsert inserts or updates the registry row for c.Sigla.
func (r *Repo) Upsert(ctx context.Context, c models.Cadeado) error {
	sigla := strings.ToUpper(strings.TrimSpace(c.Sigla))
	if sigla == "" {
		return errors.New("sigla vazia")
	}
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cadeados (sigla, tipo, observacao, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(sigla) DO UPDATE SET
			tipo = excluded.tipo,
			observacao = excluded.observacao,
			updated_at = excluded.updated_at`,
		sigla, c.Tipo, c.Observacao, now)
	return err
}

// Get returns the registry row for a sigla, or nil when absent.
func (r *Repo) Get(ctx context.Context, sigla string) (*models.Cadeado, error) {
	sigla = strings.ToUpper(strings.TrimSpace(sigla))
	row := r.db.QueryRowContext(ctx,
		`SELECT sigla, tipo, observacao, updated_at FROM cadeados WHERE sigla = ?`, sigla)

	var c models.Cadeado
	err := row.Scan(&c.Sigla, &c.Tipo, &c.Observacao, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
