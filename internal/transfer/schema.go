// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package transfer exports the menu as JSON, CSV, Markdown or HTML and
// imports JSON or CSV documents back into the database.
package transfer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/olegiv/omenu/internal/translate"
)

// ExportVersion is the current version of the JSON document format.
const ExportVersion = "1.0"

// ExportData is the root of an exported menu document.
type ExportData struct {
	Version    string           `json:"version"`
	ExportedAt time.Time        `json:"exported_at"`
	Categories []ExportCategory `json:"categories"`
	Items      []ExportItem     `json:"items"`
	Pairings   []ExportPairing  `json:"pairings,omitempty"`
}

// ExportCategory is an exported category. Translations holds only the
// languages that have a stored value.
type ExportCategory struct {
	ID           string                 `json:"id"`
	Name         string                 `json:"name"`
	Description  string                 `json:"description,omitempty"`
	ImageURL     string                 `json:"image_url,omitempty"`
	Translations translate.Translations `json:"translations,omitempty"`
}

// ExportItem is an exported menu item with its details.
type ExportItem struct {
	ID              string                 `json:"id"`
	CategoryID      string                 `json:"category_id"`
	Name            string                 `json:"name"`
	Description     string                 `json:"description,omitempty"`
	Price           float64                `json:"price"`
	ImageURL        string                 `json:"image_url,omitempty"`
	Available       bool                   `json:"available"`
	Popular         bool                   `json:"popular"`
	PreparationTime int64                  `json:"preparation_time"`
	Allergens       []string               `json:"allergens,omitempty"`
	Ingredients     []string               `json:"ingredients,omitempty"`
	Nutrition       map[string]any         `json:"nutrition,omitempty"`
	Translations    translate.Translations `json:"translations,omitempty"`
	CreatedAt       *time.Time             `json:"created_at,omitempty"`
	UpdatedAt       *time.Time             `json:"updated_at,omitempty"`
}

// hasDetails reports whether the item carries any item_details field.
func (it ExportItem) hasDetails() bool {
	return it.Allergens != nil || it.Ingredients != nil || it.Nutrition != nil
}

// ExportPairing is an exported item pairing.
type ExportPairing struct {
	ItemID       string  `json:"item_id"`
	PairedWithID string  `json:"paired_with_id"`
	Score        float64 `json:"score"`
}

// Format names an export format.
type Format string

// Export formats.
const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
)

// ErrUnknownFormat is returned by ParseFormat for unsupported names.
var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat parses a format name. "markdown" is accepted for md.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// ContentType returns the HTTP content type of f.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatHTML:
		return "text/html; charset=utf-8"
	}
	return "application/json"
}

// ConflictStrategy decides what an import does with ids that already exist.
type ConflictStrategy string

// Conflict strategies.
const (
	ConflictSkip      ConflictStrategy = "skip"
	ConflictOverwrite ConflictStrategy = "overwrite"
)

// ParseConflictStrategy parses a strategy name. Empty means skip.
func ParseConflictStrategy(s string) (ConflictStrategy, error) {
	switch ConflictStrategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", ConflictSkip:
		return ConflictSkip, nil
	case ConflictOverwrite:
		return ConflictOverwrite, nil
	}
	return "", fmt.Errorf("unknown conflict strategy %q", s)
}

// ImportOptions configures an import.
type ImportOptions struct {
	ConflictStrategy ConflictStrategy `json:"conflict_strategy"`
	// DryRun runs the whole import and rolls it back.
	DryRun bool `json:"dry_run"`
}

// ImportError describes one record that could not be imported.
type ImportError struct {
	Entity  string `json:"entity"`
	ID      string `json:"id"`
	Message string `json:"message"`
}

// ImportResult counts what an import did per entity.
type ImportResult struct {
	DryRun  bool           `json:"dry_run"`
	Created map[string]int `json:"created"`
	Updated map[string]int `json:"updated"`
	Skipped map[string]int `json:"skipped"`
	Errors  []ImportError  `json:"errors,omitempty"`
}

// NewImportResult creates an empty result.
func NewImportResult(dryRun bool) *ImportResult {
	return &ImportResult{
		DryRun:  dryRun,
		Created: make(map[string]int),
		Updated: make(map[string]int),
		Skipped: make(map[string]int),
	}
}

// AddError records a failed record.
func (r *ImportResult) AddError(entity, id, message string) {
	r.Errors = append(r.Errors, ImportError{Entity: entity, ID: id, Message: message})
}

// Success reports whether the import had no errors.
func (r *ImportResult) Success() bool {
	return len(r.Errors) == 0
}
