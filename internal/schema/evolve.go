// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package schema

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/olegiv/omenu/internal/model"
)

// Result summarises one table evolution.
type Result struct {
	Table        Table `json:"table"`
	ColumnsAdded int   `json:"columns_added"`
	RowsMigrated int64 `json:"rows_migrated"`
}

// columnAdder adds one nullable TEXT column inside tx.
type columnAdder func(ctx context.Context, tx *sql.Tx, table Table, column string) error

// Evolver brings translatable tables up to the full set of per-language
// columns. It must not run concurrently with itself or with other writers.
type Evolver struct {
	db        *sql.DB
	logger    *slog.Logger
	addColumn columnAdder
}

// NewEvolver creates an Evolver for db.
func NewEvolver(db *sql.DB, logger *slog.Logger) *Evolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Evolver{
		db:        db,
		logger:    logger,
		addColumn: alterTableAddColumn,
	}
}

func alterTableAddColumn(ctx context.Context, tx *sql.Tx, table Table, column string) error {
	_, err := tx.ExecContext(ctx, fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s TEXT", table, column))
	return err
}

// Evolve adds every missing per-language column to table and copies the
// base name and description into the English columns of rows whose
// name_en is NULL. Everything happens in one transaction: on error the
// table is left exactly as it was.
func (e *Evolver) Evolve(ctx context.Context, table Table) (Result, error) {
	if _, err := ParseTable(string(table)); err != nil {
		return Result{}, err
	}

	res := Result{Table: table}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return res, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	existing, err := tableColumns(ctx, tx, table)
	if err != nil {
		return res, err
	}
	if len(existing) == 0 {
		return res, fmt.Errorf("table %s does not exist", table)
	}

	for _, col := range model.TranslationColumns() {
		if existing[col] {
			continue
		}
		if err := e.addColumn(ctx, tx, table, col); err != nil {
			return Result{Table: table}, &SchemaEvolutionError{Table: table, Column: col, Err: err}
		}
		res.ColumnsAdded++
	}

	en := model.ColumnsFor(string(model.CanonicalLanguage))
	backfill := fmt.Sprintf(
		"UPDATE %s SET %s = name, %s = COALESCE(%s, description, '') WHERE %s IS NULL",
		table, en.Name, en.Description, en.Description, en.Name,
	)
	r, err := tx.ExecContext(ctx, backfill)
	if err != nil {
		return Result{Table: table}, &SchemaEvolutionError{Table: table, Column: en.Name, Err: err}
	}
	if res.RowsMigrated, err = r.RowsAffected(); err != nil {
		return Result{Table: table}, &SchemaEvolutionError{Table: table, Column: en.Name, Err: err}
	}

	if err := tx.Commit(); err != nil {
		return Result{Table: table}, fmt.Errorf("committing evolution of %s: %w", table, err)
	}

	e.logger.Info("schema evolved",
		"table", table,
		"columns_added", res.ColumnsAdded,
		"rows_migrated", res.RowsMigrated,
	)
	return res, nil
}

// EvolveAll evolves every translatable table in order and stops at the
// first failure. Tables evolved before the failure stay evolved.
func (e *Evolver) EvolveAll(ctx context.Context) ([]Result, error) {
	results := make([]Result, 0, len(Tables))
	for _, t := range Tables {
		res, err := e.Evolve(ctx, t)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}
