// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/omenu/internal/model"
	"github.com/olegiv/omenu/internal/service"
	"github.com/olegiv/omenu/internal/store"
	"github.com/olegiv/omenu/internal/translate"
)

// ErrImportFailed is returned when a document has invalid records. The
// ImportResult lists them and nothing is written.
var ErrImportFailed = errors.New("import failed")

// Entity names used in ImportResult counters and errors.
const (
	entityDocument   = "document"
	entityCategories = "categories"
	entityItems      = "items"
	entityPairings   = "pairings"
)

// Importer writes exported documents back into the database.
type Importer struct {
	db      *sql.DB
	queries *store.Queries
	logger  *slog.Logger
	now     func() time.Time
}

// NewImporter creates a new Importer. queries must carry the probed
// schema capabilities of db.
func NewImporter(db *sql.DB, queries *store.Queries, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{
		db:      db,
		queries: queries,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// ImportJSON decodes a JSON document from r and imports it.
func (im *Importer) ImportJSON(ctx context.Context, r io.Reader, opts ImportOptions) (*ImportResult, error) {
	var data ExportData
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, &translate.ValidationError{Field: "body", Message: fmt.Sprintf("invalid JSON document: %v", err)}
	}
	return im.Import(ctx, &data, opts)
}

// ImportCSV reads the categories and items CSV files and imports them.
// Either reader may be nil.
func (im *Importer) ImportCSV(ctx context.Context, categories, items io.Reader, opts ImportOptions) (*ImportResult, error) {
	data, err := ReadCSV(categories, items)
	if err != nil {
		return nil, &translate.ValidationError{Field: "csv", Message: err.Error()}
	}
	return im.Import(ctx, data, opts)
}

// Import writes data in one transaction: categories first, then items,
// then pairings. Existing ids are skipped or overwritten according to
// opts.ConflictStrategy. Any invalid record aborts the whole import with
// ErrImportFailed. A dry run performs every write and rolls it back.
func (im *Importer) Import(ctx context.Context, data *ExportData, opts ImportOptions) (*ImportResult, error) {
	if !im.queries.Capabilities().Evolved() {
		return nil, service.ErrSchemaOutdated
	}
	if opts.ConflictStrategy == "" {
		opts.ConflictStrategy = ConflictSkip
	}

	result := NewImportResult(opts.DryRun)
	if errs := Validate(data); len(errs) > 0 {
		result.Errors = errs
		return result, fmt.Errorf("%w: %d invalid records", ErrImportFailed, len(errs))
	}

	tx, err := im.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	run := &importRun{
		ctx:    ctx,
		q:      im.queries.WithTx(tx),
		opts:   opts,
		result: result,
		now:    im.now(),
	}
	for _, c := range data.Categories {
		if err := run.category(c); err != nil {
			return nil, err
		}
	}
	for _, it := range data.Items {
		if err := run.item(it); err != nil {
			return nil, err
		}
	}
	for _, p := range data.Pairings {
		if err := run.pairing(p); err != nil {
			return nil, err
		}
	}

	if !result.Success() {
		return result, fmt.Errorf("%w: %d invalid records", ErrImportFailed, len(result.Errors))
	}
	if opts.DryRun {
		im.logger.Info("import dry run finished", "created", result.Created, "updated", result.Updated, "skipped", result.Skipped)
		return result, nil
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing import: %w", err)
	}

	im.logger.Info("menu imported",
		"strategy", opts.ConflictStrategy,
		"created", result.Created,
		"updated", result.Updated,
		"skipped", result.Skipped)
	return result, nil
}

// importRun holds the state of one import transaction.
type importRun struct {
	ctx    context.Context
	q      *store.Queries
	opts   ImportOptions
	result *ImportResult
	now    time.Time
}

// exists reports whether load found a row.
func exists(err error) (bool, error) {
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func (r *importRun) category(c ExportCategory) error {
	name := baseName(c.Name, c.Translations)
	cols := storedColumns(c.Translations)

	_, err := r.q.GetCategory(r.ctx, c.ID)
	found, err := exists(err)
	if err != nil {
		return fmt.Errorf("getting category %s: %w", c.ID, err)
	}

	switch {
	case !found:
		err = r.q.CreateCategory(r.ctx, store.CreateCategoryParams{
			ID:           c.ID,
			Name:         name,
			Description:  c.Description,
			ImageURL:     c.ImageURL,
			Translations: cols,
		})
		r.result.Created[entityCategories]++
	case r.opts.ConflictStrategy == ConflictOverwrite:
		_, err = r.q.UpdateCategory(r.ctx, store.UpdateCategoryParams{
			ID:           c.ID,
			Name:         name,
			Description:  c.Description,
			ImageURL:     c.ImageURL,
			Translations: cols,
		})
		r.result.Updated[entityCategories]++
	default:
		r.result.Skipped[entityCategories]++
	}
	if err != nil {
		return fmt.Errorf("writing category %s: %w", c.ID, err)
	}
	return nil
}

func (r *importRun) item(it ExportItem) error {
	if _, err := r.q.GetCategory(r.ctx, it.CategoryID); errors.Is(err, sql.ErrNoRows) {
		r.result.AddError(entityItems, it.ID, fmt.Sprintf("unknown category %q", it.CategoryID))
		return nil
	} else if err != nil {
		return fmt.Errorf("getting category %s: %w", it.CategoryID, err)
	}

	_, err := r.q.GetMenuItem(r.ctx, it.ID)
	found, err := exists(err)
	if err != nil {
		return fmt.Errorf("getting menu item %s: %w", it.ID, err)
	}

	p := store.MenuItemParams{
		ID:              it.ID,
		Name:            baseName(it.Name, it.Translations),
		Description:     it.Description,
		CategoryID:      it.CategoryID,
		Price:           it.Price,
		ImageURL:        it.ImageURL,
		Available:       it.Available,
		Popular:         it.Popular,
		PreparationTime: it.PreparationTime,
		CreatedAt:       timeOr(it.CreatedAt, r.now),
		UpdatedAt:       timeOr(it.UpdatedAt, r.now),
		Translations:    storedColumns(it.Translations),
	}

	switch {
	case !found:
		err = r.q.CreateMenuItem(r.ctx, p)
		r.result.Created[entityItems]++
	case r.opts.ConflictStrategy == ConflictOverwrite:
		_, err = r.q.UpdateMenuItem(r.ctx, p)
		r.result.Updated[entityItems]++
	default:
		r.result.Skipped[entityItems]++
		return nil
	}
	if err != nil {
		return fmt.Errorf("writing menu item %s: %w", it.ID, err)
	}

	if !it.hasDetails() {
		return nil
	}
	d, err := itemDetails(it)
	if err != nil {
		return err
	}
	if err := r.q.UpsertItemDetails(r.ctx, d); err != nil {
		return fmt.Errorf("writing details of %s: %w", it.ID, err)
	}
	return nil
}

func (r *importRun) pairing(p ExportPairing) error {
	for _, id := range []string{p.ItemID, p.PairedWithID} {
		if _, err := r.q.GetMenuItem(r.ctx, id); errors.Is(err, sql.ErrNoRows) {
			r.result.AddError(entityPairings, p.ItemID+"/"+p.PairedWithID, fmt.Sprintf("unknown menu item %q", id))
			return nil
		} else if err != nil {
			return fmt.Errorf("getting menu item %s: %w", id, err)
		}
	}

	_, err := r.q.GetPairing(r.ctx, p.ItemID, p.PairedWithID)
	found, err := exists(err)
	if err != nil {
		return fmt.Errorf("getting pairing %s/%s: %w", p.ItemID, p.PairedWithID, err)
	}
	switch {
	case !found:
		r.result.Created[entityPairings]++
	case r.opts.ConflictStrategy == ConflictOverwrite:
		r.result.Updated[entityPairings]++
	default:
		r.result.Skipped[entityPairings]++
		return nil
	}

	err = r.q.UpsertPairing(r.ctx, store.CreatePairingParams{
		ItemID:       p.ItemID,
		PairedWithID: p.PairedWithID,
		Score:        p.Score,
	})
	if err != nil {
		return fmt.Errorf("writing pairing %s/%s: %w", p.ItemID, p.PairedWithID, err)
	}
	return nil
}

// Validate checks data without touching the database and returns every
// problem found.
func Validate(data *ExportData) []ImportError {
	if data == nil {
		return []ImportError{{Entity: entityDocument, Message: "document is empty"}}
	}

	var errs []ImportError
	add := func(entity, id, format string, args ...any) {
		errs = append(errs, ImportError{Entity: entity, ID: id, Message: fmt.Sprintf(format, args...)})
	}

	if data.Version != "" && !strings.HasPrefix(data.Version, "1.") && data.Version != "1" {
		add(entityDocument, "", "unsupported document version %q", data.Version)
	}

	seen := make(map[string]bool, len(data.Categories))
	for i, c := range data.Categories {
		id := c.ID
		switch {
		case id == "":
			add(entityCategories, fmt.Sprintf("#%d", i+1), "id is required")
		case seen[id]:
			add(entityCategories, id, "duplicate id")
		}
		seen[id] = true
		if baseName(c.Name, c.Translations) == "" {
			add(entityCategories, id, "name is required")
		}
		for _, lang := range unsupportedLanguages(c.Translations) {
			add(entityCategories, id, "unsupported language %q", lang)
		}
	}

	seen = make(map[string]bool, len(data.Items))
	for i, it := range data.Items {
		id := it.ID
		switch {
		case id == "":
			add(entityItems, fmt.Sprintf("#%d", i+1), "id is required")
		case seen[id]:
			add(entityItems, id, "duplicate id")
		}
		seen[id] = true
		if baseName(it.Name, it.Translations) == "" {
			add(entityItems, id, "name is required")
		}
		if it.CategoryID == "" {
			add(entityItems, id, "category_id is required")
		}
		if it.Price < 0 {
			add(entityItems, id, "price must not be negative")
		}
		if it.PreparationTime < 0 {
			add(entityItems, id, "preparation_time must not be negative")
		}
		for _, lang := range unsupportedLanguages(it.Translations) {
			add(entityItems, id, "unsupported language %q", lang)
		}
	}

	for _, p := range data.Pairings {
		id := p.ItemID + "/" + p.PairedWithID
		if p.ItemID == "" || p.PairedWithID == "" {
			add(entityPairings, id, "item_id and paired_with_id are required")
		} else if p.ItemID == p.PairedWithID {
			add(entityPairings, id, "an item cannot pair with itself")
		}
		if p.Score < 0 {
			add(entityPairings, id, "score must not be negative")
		}
	}
	return errs
}

func unsupportedLanguages(t translate.Translations) []string {
	var out []string
	for lang := range t {
		if !model.IsSupportedLanguage(lang) {
			out = append(out, lang)
		}
	}
	return out
}

// baseName returns name, or the English translation when name is empty.
func baseName(name string, t translate.Translations) string {
	if name != "" {
		return name
	}
	if en := t[string(model.CanonicalLanguage)].Name; en != nil {
		return *en
	}
	return ""
}

// storedColumns returns a value for every per-language column. Languages
// missing from t are stored as NULL so an overwrite leaves no stale text.
func storedColumns(t translate.Translations) translate.Columns {
	cols := make(translate.Columns, 2*len(model.Languages))
	for _, l := range model.Languages {
		lc := model.ColumnsFor(string(l.Code))
		e := t[string(l.Code)]
		cols[lc.Name] = nullString(e.Name)
		cols[lc.Description] = nullString(e.Description)
	}
	return cols
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func timeOr(t *time.Time, fallback time.Time) time.Time {
	if t == nil {
		return fallback
	}
	return *t
}

func itemDetails(it ExportItem) (store.ItemDetails, error) {
	d := store.ItemDetails{ItemID: it.ID, Allergens: "[]", Ingredients: "[]", Nutrition: "{}"}
	for _, f := range []struct {
		dst *string
		val any
		set bool
	}{
		{&d.Allergens, it.Allergens, it.Allergens != nil},
		{&d.Ingredients, it.Ingredients, it.Ingredients != nil},
		{&d.Nutrition, it.Nutrition, it.Nutrition != nil},
	} {
		if !f.set {
			continue
		}
		b, err := json.Marshal(f.val)
		if err != nil {
			return store.ItemDetails{}, fmt.Errorf("encoding details of %s: %w", it.ID, err)
		}
		*f.dst = string(b)
	}
	return d, nil
}
