// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/olegiv/omenu/internal/model"
	"github.com/olegiv/omenu/internal/store"
	"github.com/olegiv/omenu/internal/translate"
)

// Exporter reads the menu for export.
type Exporter struct {
	queries *store.Queries
	logger  *slog.Logger
	now     func() time.Time
}

// NewExporter creates a new Exporter.
func NewExporter(queries *store.Queries, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		queries: queries,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Export reads every category, item and pairing into an ExportData.
func (e *Exporter) Export(ctx context.Context) (*ExportData, error) {
	data := &ExportData{
		Version:    ExportVersion,
		ExportedAt: e.now(),
		Categories: []ExportCategory{},
		Items:      []ExportItem{},
	}

	cats, err := e.queries.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	for _, c := range cats {
		data.Categories = append(data.Categories, ExportCategory{
			ID:           c.ID,
			Name:         c.Name,
			Description:  c.Description.String,
			ImageURL:     c.ImageURL.String,
			Translations: translate.FromColumns(c.Translations),
		})
	}

	items, err := e.queries.ListMenuItems(ctx, store.ListMenuItemsParams{})
	if err != nil {
		return nil, fmt.Errorf("listing menu items: %w", err)
	}
	for _, m := range items {
		data.Items = append(data.Items, e.exportItem(m))
	}

	pairs, err := e.queries.ListAllPairings(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing pairings: %w", err)
	}
	for _, p := range pairs {
		data.Pairings = append(data.Pairings, ExportPairing{
			ItemID:       p.ItemID,
			PairedWithID: p.PairedWithID,
			Score:        p.Score,
		})
	}

	e.logger.Info("menu exported",
		"categories", len(data.Categories),
		"items", len(data.Items),
		"pairings", len(data.Pairings))
	return data, nil
}

func (e *Exporter) exportItem(m store.MenuItem) ExportItem {
	it := ExportItem{
		ID:              m.ID,
		CategoryID:      m.CategoryID,
		Name:            m.Name,
		Description:     m.Description.String,
		Price:           m.Price,
		ImageURL:        m.ImageURL.String,
		Available:       m.Available,
		Popular:         m.Popular,
		PreparationTime: m.PreparationTime,
		Translations:    translate.FromColumns(m.Translations),
		CreatedAt:       timePtr(m.CreatedAt),
		UpdatedAt:       timePtr(m.UpdatedAt),
	}
	e.decode(m.ID, m.Allergens, &it.Allergens)
	e.decode(m.ID, m.Ingredients, &it.Ingredients)
	e.decode(m.ID, m.Nutrition, &it.Nutrition)
	return it
}

func (e *Exporter) decode(itemID string, raw sql.NullString, dst any) {
	if !raw.Valid || raw.String == "" {
		return
	}
	if err := json.Unmarshal([]byte(raw.String), dst); err != nil {
		e.logger.Warn("skipping malformed item detail", "item_id", itemID, "error", err)
	}
}

// ExportToWriter writes the JSON document to w.
func (e *Exporter) ExportToWriter(ctx context.Context, w io.Writer) error {
	data, err := e.Export(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ExportToDir writes the menu in format f into dir and returns the paths
// written. CSV produces one file per table.
func (e *Exporter) ExportToDir(ctx context.Context, dir string, f Format, lang model.LanguageCode) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dir, err)
	}

	var files []struct {
		name  string
		write func(io.Writer) error
	}
	add := func(name string, write func(io.Writer) error) {
		files = append(files, struct {
			name  string
			write func(io.Writer) error
		}{name, write})
	}

	switch f {
	case FormatJSON:
		add("menu_export.json", func(w io.Writer) error { return e.ExportToWriter(ctx, w) })
	case FormatCSV:
		data, err := e.Export(ctx)
		if err != nil {
			return nil, err
		}
		add("menu_categories_export.csv", func(w io.Writer) error { return WriteCategoriesCSV(w, data) })
		add("menu_items_export.csv", func(w io.Writer) error { return WriteItemsCSV(w, data) })
	case FormatMarkdown:
		add("menu_export.md", func(w io.Writer) error { return e.WriteMarkdown(ctx, w, lang) })
	case FormatHTML:
		add("menu_export.html", func(w io.Writer) error { return e.WriteHTML(ctx, w, lang) })
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}

	paths := make([]string, 0, len(files))
	for _, file := range files {
		path := filepath.Join(dir, file.name)
		if err := writeFile(path, file.write); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}
