// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package translate resolves per-language display fields of menu records
// and expands structured translation payloads into per-language columns.
package translate

import (
	"database/sql"

	"github.com/olegiv/omenu/internal/model"
)

// Columns holds nullable per-language column values keyed by column name.
// A column that was not selected is treated the same as a NULL value.
type Columns map[string]sql.NullString

// Value returns the column value and whether it counts as a translation.
// NULL and empty strings are missing; whitespace-only strings are present.
func (c Columns) Value(column string) (string, bool) {
	v, ok := c[column]
	if !ok || !v.Valid || v.String == "" {
		return "", false
	}
	return v.String, true
}

// CategoryRecord is the category part of a joined menu item row.
type CategoryRecord struct {
	BaseName string
	Columns  Columns
}

// Record is a translatable row as read from storage.
type Record struct {
	BaseName        string
	BaseDescription string
	Columns         Columns
	Category        *CategoryRecord
}

// Display holds the resolved display fields of a record.
type Display struct {
	Name         string
	Description  string
	CategoryName string
}

// Resolve returns the display fields of rec for language. Each field takes
// the language's translation when present and the base value otherwise.
// Unsupported languages resolve against the English columns.
func Resolve(rec Record, language string) Display {
	cols := model.ColumnsFor(language)

	d := Display{
		Name:        pick(rec.Columns, cols.Name, rec.BaseName),
		Description: pick(rec.Columns, cols.Description, rec.BaseDescription),
	}
	if rec.Category != nil {
		d.CategoryName = pick(rec.Category.Columns, cols.Name, rec.Category.BaseName)
	}
	return d
}

// ResolveName resolves only the name of a record.
func ResolveName(baseName string, columns Columns, language string) string {
	return pick(columns, model.ColumnsFor(language).Name, baseName)
}

func pick(columns Columns, column, base string) string {
	if v, ok := columns.Value(column); ok {
		return v
	}
	return base
}
