// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package schema

import (
	"context"
	"fmt"
	"strings"

	"github.com/olegiv/omenu/internal/model"
)

// Capabilities records which per-language columns each translatable table
// has. It is computed once at startup and handed to the code that reads
// and writes translations.
type Capabilities struct {
	columns map[Table]map[string]bool
}

// Probe inspects db and returns its capabilities.
func Probe(ctx context.Context, db queryer) (Capabilities, error) {
	caps := Capabilities{columns: make(map[Table]map[string]bool, len(Tables))}
	for _, t := range Tables {
		cols, err := tableColumns(ctx, db, t)
		if err != nil {
			return Capabilities{}, err
		}
		caps.columns[t] = cols
	}
	return caps, nil
}

// FullCapabilities describes a database where every table is evolved.
func FullCapabilities() Capabilities {
	caps := Capabilities{columns: make(map[Table]map[string]bool, len(Tables))}
	for _, t := range Tables {
		cols := make(map[string]bool)
		for _, c := range model.TranslationColumns() {
			cols[c] = true
		}
		caps.columns[t] = cols
	}
	return caps
}

// Has reports whether table has column.
func (c Capabilities) Has(table Table, column string) bool {
	return c.columns[table][column]
}

// Missing returns the per-language columns table lacks.
func (c Capabilities) Missing(table Table) []string {
	var missing []string
	for _, col := range model.TranslationColumns() {
		if !c.Has(table, col) {
			missing = append(missing, col)
		}
	}
	return missing
}

// Multilingual reports whether table has every per-language column.
func (c Capabilities) Multilingual(table Table) bool {
	return len(c.Missing(table)) == 0
}

// Evolved reports whether every translatable table is multilingual.
func (c Capabilities) Evolved() bool {
	for _, t := range Tables {
		if !c.Multilingual(t) {
			return false
		}
	}
	return true
}

// SelectColumns returns a select-list fragment for the per-language
// columns of table, aliased by alias. Columns the table lacks are
// selected as NULL so callers can scan a fixed shape.
func (c Capabilities) SelectColumns(table Table, alias string) string {
	cols := model.TranslationColumns()
	parts := make([]string, len(cols))
	for i, col := range cols {
		if c.Has(table, col) {
			parts[i] = alias + "." + col
		} else {
			parts[i] = "NULL"
		}
	}
	return strings.Join(parts, ", ")
}

// Coverage counts, per language, the rows of table whose name translation
// is NULL or empty. Languages whose column is absent count every row.
func Coverage(ctx context.Context, db queryer, caps Capabilities, table Table) ([]model.TranslationCoverage, error) {
	if _, err := ParseTable(string(table)); err != nil {
		return nil, err
	}

	sums := make([]string, 0, len(model.Languages))
	for _, l := range model.Languages {
		col := model.ColumnsFor(string(l.Code)).Name
		if caps.Has(table, col) {
			sums = append(sums, fmt.Sprintf("COALESCE(SUM(CASE WHEN %s IS NULL OR %s = '' THEN 1 ELSE 0 END), 0)", col, col))
		} else {
			sums = append(sums, "COUNT(*)")
		}
	}
	query := fmt.Sprintf("SELECT COUNT(*), %s FROM %s", strings.Join(sums, ", "), table)

	var total int64
	missing := make([]int64, len(model.Languages))
	dest := make([]any, 0, len(missing)+1)
	dest = append(dest, &total)
	for i := range missing {
		dest = append(dest, &missing[i])
	}
	if err := db.QueryRowContext(ctx, query).Scan(dest...); err != nil {
		return nil, fmt.Errorf("counting translations of %s: %w", table, err)
	}

	out := make([]model.TranslationCoverage, len(model.Languages))
	for i, l := range model.Languages {
		out[i] = model.TranslationCoverage{
			Table:    string(table),
			Language: l.Code,
			Total:    total,
			Missing:  missing[i],
		}
	}
	return out, nil
}
