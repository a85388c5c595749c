// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package store provides SQLite access for the menu, chat and event log.
package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/olegiv/omenu/internal/model"
	"github.com/olegiv/omenu/internal/schema"
	"github.com/olegiv/omenu/internal/translate"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	PrepareContext(context.Context, string) (*sql.Stmt, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// Queries runs the application's SQL against a DBTX. Per-language columns
// are read and written only where the schema capabilities say they exist.
type Queries struct {
	db   DBTX
	caps schema.Capabilities
}

// New creates Queries for an evolved schema.
func New(db DBTX) *Queries {
	return &Queries{db: db, caps: schema.FullCapabilities()}
}

// WithCapabilities returns a copy of q bound to caps.
func (q *Queries) WithCapabilities(caps schema.Capabilities) *Queries {
	return &Queries{db: q.db, caps: caps}
}

// WithTx returns a copy of q that runs inside tx.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx, caps: q.caps}
}

// Capabilities returns the schema capabilities q was built with.
func (q *Queries) Capabilities() schema.Capabilities {
	return q.caps
}

type rowScanner interface {
	Scan(dest ...any) error
}

// translationScan collects the per-language columns of one row.
type translationScan struct {
	vals []sql.NullString
}

func newTranslationScan() *translationScan {
	return &translationScan{vals: make([]sql.NullString, len(model.TranslationColumns()))}
}

func (s *translationScan) dest() []any {
	out := make([]any, len(s.vals))
	for i := range s.vals {
		out[i] = &s.vals[i]
	}
	return out
}

func (s *translationScan) columns() translate.Columns {
	cols := make(translate.Columns, len(s.vals))
	for i, name := range model.TranslationColumns() {
		cols[name] = s.vals[i]
	}
	return cols
}

// translationWrites returns the per-language columns of values that table
// has, in a stable order, with their arguments.
func (q *Queries) translationWrites(table schema.Table, values translate.Columns) ([]string, []any) {
	var names []string
	var args []any
	for _, col := range model.TranslationColumns() {
		v, ok := values[col]
		if !ok || !q.caps.Has(table, col) {
			continue
		}
		names = append(names, col)
		args = append(args, v)
	}
	return names, args
}

func placeholders(n int) string {
	if n == 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func assignments(cols []string) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = c + " = ?"
	}
	return strings.Join(parts, ", ")
}

func rowsAffected(res sql.Result, err error) (int64, error) {
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
