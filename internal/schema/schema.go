// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package schema adds per-language columns to the translatable tables,
// backfills them from the base fields, and reports which language columns
// a database currently has.
package schema

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Table is a translatable table name.
type Table string

// Translatable tables.
const (
	Categories Table = "categories"
	MenuItems  Table = "menu_items"
)

// Tables lists every translatable table in evolution order.
var Tables = []Table{Categories, MenuItems}

// ErrUnknownTable is returned for tables outside Tables.
var ErrUnknownTable = errors.New("unknown translatable table")

// ParseTable validates a table name.
func ParseTable(name string) (Table, error) {
	for _, t := range Tables {
		if string(t) == name {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTable, name)
}

// SchemaEvolutionError reports a column that could not be added or
// backfilled. The evolution that produced it was rolled back.
type SchemaEvolutionError struct {
	Table  Table
	Column string
	Err    error
}

func (e *SchemaEvolutionError) Error() string {
	return fmt.Sprintf("evolving %s: column %s: %v", e.Table, e.Column, e.Err)
}

func (e *SchemaEvolutionError) Unwrap() error {
	return e.Err
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// tableColumns returns the set of column names of table. An empty set
// means the table does not exist.
func tableColumns(ctx context.Context, q queryer, table Table) (map[string]bool, error) {
	rows, err := q.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, fmt.Errorf("reading columns of %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	cols := make(map[string]bool)
	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return nil, fmt.Errorf("scanning column of %s: %w", table, err)
		}
		cols[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading columns of %s: %w", table, err)
	}
	return cols, nil
}
