// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package translate

import (
	"database/sql"
	"fmt"

	"github.com/olegiv/omenu/internal/model"
)

// ValidationError reports a structured payload that cannot be stored.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Entry is one language's translation in a write payload. A nil field
// means the language did not supply it.
type Entry struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Translations maps language codes to their entries as received.
type Translations map[string]Entry

// Expanded is a structured payload flattened into storage fields.
type Expanded struct {
	BaseName        string
	BaseDescription string
	// Columns holds a value for every per-language column.
	Columns map[string]string
}

// NullColumns returns the expanded columns in their nullable storage form.
func (e Expanded) NullColumns() Columns {
	cols := make(Columns, len(e.Columns))
	for k, v := range e.Columns {
		cols[k] = sql.NullString{String: v, Valid: true}
	}
	return cols
}

// Expand flattens t into base fields and per-language columns.
//
// The English entry is required and must carry a non-empty name; it
// becomes the base name and description. A language that omits a field
// receives the English value for it. Entries for unsupported language
// codes are ignored.
func Expand(t Translations) (Expanded, error) {
	en, ok := t[string(model.CanonicalLanguage)]
	if !ok {
		return Expanded{}, &ValidationError{Field: "translations.en", Message: "English translation is required"}
	}
	if en.Name == nil || *en.Name == "" {
		return Expanded{}, &ValidationError{Field: "translations.en.name", Message: "English name is required"}
	}

	primaryName := *en.Name
	primaryDesc := ""
	if en.Description != nil {
		primaryDesc = *en.Description
	}

	out := Expanded{
		BaseName:        primaryName,
		BaseDescription: primaryDesc,
		Columns:         make(map[string]string, 2*len(model.Languages)),
	}
	for _, l := range model.Languages {
		entry := t[string(l.Code)]
		cols := model.ColumnsFor(string(l.Code))

		out.Columns[cols.Name] = valueOr(entry.Name, primaryName)
		out.Columns[cols.Description] = valueOr(entry.Description, primaryDesc)
	}
	return out, nil
}

// FromColumns rebuilds a translations map from stored columns. Languages
// with neither a name nor a description are left out.
func FromColumns(columns Columns) Translations {
	t := make(Translations)
	for _, l := range model.Languages {
		cols := model.ColumnsFor(string(l.Code))
		var e Entry
		if v, ok := columns[cols.Name]; ok && v.Valid {
			name := v.String
			e.Name = &name
		}
		if v, ok := columns[cols.Description]; ok && v.Valid {
			desc := v.String
			e.Description = &desc
		}
		if e.Name != nil || e.Description != nil {
			t[string(l.Code)] = e
		}
	}
	return t
}

func valueOr(v *string, fallback string) string {
	if v != nil {
		return *v
	}
	return fallback
}
