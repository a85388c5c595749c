// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"html"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/olegiv/omenu/internal/model"
	"github.com/olegiv/omenu/internal/schema"
	"github.com/olegiv/omenu/internal/store"
	"github.com/olegiv/omenu/internal/translate"
	"github.com/olegiv/omenu/internal/util"
)

// plainText strips every tag from admin supplied text.
var plainText = bluemonday.StrictPolicy()

// maxSanitizePasses bounds the strip-and-unescape loop in sanitize.
const maxSanitizePasses = 5

// sanitize strips tags and returns plain text. Entities are unescaped
// after stripping, so the loop repeats until the text is stable: encoded
// markup such as "&lt;script&gt;" is stripped on the next pass. Text that
// does not settle is returned in its escaped form.
func sanitize(s string) string {
	for range maxSanitizePasses {
		next := html.UnescapeString(plainText.Sanitize(s))
		if next == s {
			return s
		}
		s = next
	}
	return plainText.Sanitize(s)
}

func sanitizePtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := sanitize(*p)
	return &v
}

func sanitizeTranslations(t translate.Translations) translate.Translations {
	out := make(translate.Translations, len(t))
	for lang, e := range t {
		out[lang] = translate.Entry{Name: sanitizePtr(e.Name), Description: sanitizePtr(e.Description)}
	}
	return out
}

// CategoryInput is an admin category payload. With Translations set it is
// the structured form and Name/Description are ignored; otherwise it is
// the legacy flat form.
type CategoryInput struct {
	ID           string                 `json:"id,omitempty"`
	Name         string                 `json:"name,omitempty"`
	Description  string                 `json:"description,omitempty"`
	ImageURL     string                 `json:"image_url,omitempty"`
	Translations translate.Translations `json:"translations,omitempty"`
}

// ItemInput is an admin menu item payload. Nil optional fields keep their
// stored value on update and take defaults on create.
type ItemInput struct {
	Name            string                 `json:"name,omitempty"`
	Description     string                 `json:"description,omitempty"`
	Category        string                 `json:"category,omitempty"`
	Price           *float64               `json:"price,omitempty"`
	ImageURL        *string                `json:"image_url,omitempty"`
	Available       *bool                  `json:"available,omitempty"`
	Popular         *bool                  `json:"popular,omitempty"`
	PreparationTime *int                   `json:"preparation_time,omitempty"`
	Allergens       []string               `json:"allergens,omitempty"`
	Ingredients     []string               `json:"ingredients,omitempty"`
	Nutrition       map[string]any         `json:"nutrition,omitempty"`
	Translations    translate.Translations `json:"translations,omitempty"`
}

// textFields holds base fields and per-language columns derived from a payload.
type textFields struct {
	name, description string
	columns           translate.Columns
}

// resolveText turns a legacy or structured payload into storage fields.
// Legacy creates write the base values to the English columns so every
// row keeps a name_en, as after evolution. Legacy updates leave the
// per-language columns alone.
func (s *MenuService) resolveText(table schema.Table, name, desc string, t translate.Translations, create bool) (textFields, error) {
	if t != nil {
		if !s.caps.Multilingual(table) {
			return textFields{}, ErrSchemaOutdated
		}
		exp, err := translate.Expand(sanitizeTranslations(t))
		if err != nil {
			return textFields{}, err
		}
		return textFields{name: exp.BaseName, description: exp.BaseDescription, columns: exp.NullColumns()}, nil
	}

	name, desc = sanitize(name), sanitize(desc)
	if name == "" {
		return textFields{}, &translate.ValidationError{Field: "name", Message: "name is required"}
	}
	tf := textFields{name: name, description: desc}
	if create {
		en := model.ColumnsFor(string(model.CanonicalLanguage))
		tf.columns = translate.Columns{
			en.Name:        {String: name, Valid: true},
			en.Description: {String: desc, Valid: true},
		}
	}
	return tf, nil
}

// inTx runs fn inside a transaction with queries bound to it.
func (s *MenuService) inTx(ctx context.Context, fn func(q *store.Queries) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(s.queries.WithTx(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// CreateCategory stores a new category. Without an id one is derived from
// the English name.
func (s *MenuService) CreateCategory(ctx context.Context, in CategoryInput) (model.Category, error) {
	tf, err := s.resolveText(schema.Categories, in.Name, in.Description, in.Translations, true)
	if err != nil {
		return model.Category{}, err
	}

	id := in.ID
	if id == "" {
		id = util.Slugify(tf.name)
	}
	if !util.IsValidSlug(id) {
		return model.Category{}, &translate.ValidationError{Field: "id", Message: "must be a lowercase slug"}
	}

	err = s.inTx(ctx, func(q *store.Queries) error {
		if _, err := q.GetCategory(ctx, id); err == nil {
			return fmt.Errorf("category %s: %w", id, ErrConflict)
		} else if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("checking category %s: %w", id, err)
		}
		return q.CreateCategory(ctx, store.CreateCategoryParams{
			ID:           id,
			Name:         tf.name,
			Description:  tf.description,
			ImageURL:     sanitize(in.ImageURL),
			Translations: tf.columns,
		})
	})
	if err != nil {
		return model.Category{}, err
	}

	s.InvalidateCache(ctx)
	s.logger.Info("category created", "category_id", id)
	return s.Category(ctx, id, model.CanonicalLanguage)
}

// UpdateCategory replaces the base fields of a category and, for structured
// payloads, every per-language column. An empty ImageURL keeps the stored
// image.
func (s *MenuService) UpdateCategory(ctx context.Context, id string, in CategoryInput) (model.Category, error) {
	tf, err := s.resolveText(schema.Categories, in.Name, in.Description, in.Translations, false)
	if err != nil {
		return model.Category{}, err
	}

	err = s.inTx(ctx, func(q *store.Queries) error {
		cur, err := q.GetCategory(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("getting category %s: %w", id, err)
		}

		// an omitted image keeps the stored one
		image := cur.ImageURL.String
		if in.ImageURL != "" {
			image = sanitize(in.ImageURL)
		}
		if _, err := q.UpdateCategory(ctx, store.UpdateCategoryParams{
			ID:           id,
			Name:         tf.name,
			Description:  tf.description,
			ImageURL:     image,
			Translations: tf.columns,
		}); err != nil {
			return fmt.Errorf("updating category %s: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return model.Category{}, err
	}

	s.InvalidateCache(ctx)
	s.logger.Info("category updated", "category_id", id)
	return s.Category(ctx, id, model.CanonicalLanguage)
}

// DeleteCategory deletes an empty category.
func (s *MenuService) DeleteCategory(ctx context.Context, id string) error {
	err := s.inTx(ctx, func(q *store.Queries) error {
		items, err := q.CountMenuItemsByCategory(ctx, id)
		if err != nil {
			return fmt.Errorf("counting items of %s: %w", id, err)
		}
		if items > 0 {
			return fmt.Errorf("category %s has %d items: %w", id, items, ErrCategoryNotEmpty)
		}
		n, err := q.DeleteCategory(ctx, id)
		if err != nil {
			return fmt.Errorf("deleting category %s: %w", id, err)
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.InvalidateCache(ctx)
	s.logger.Info("category deleted", "category_id", id)
	return nil
}

// CreateItem stores a new menu item with its details. The id is the
// category id followed by eight hex characters.
func (s *MenuService) CreateItem(ctx context.Context, in ItemInput) (model.MenuItem, error) {
	if in.Category == "" {
		return model.MenuItem{}, &translate.ValidationError{Field: "category", Message: "category is required"}
	}
	if in.Price == nil {
		return model.MenuItem{}, &translate.ValidationError{Field: "price", Message: "price is required"}
	}
	if err := validatePrice(*in.Price); err != nil {
		return model.MenuItem{}, err
	}
	tf, err := s.resolveText(schema.MenuItems, in.Name, in.Description, in.Translations, true)
	if err != nil {
		return model.MenuItem{}, err
	}
	details, err := encodeDetails("", in)
	if err != nil {
		return model.MenuItem{}, err
	}

	id := fmt.Sprintf("%s-%s", in.Category, uuid.NewString()[:8])
	details.ItemID = id
	now := s.now()

	p := store.MenuItemParams{
		ID:              id,
		Name:            tf.name,
		Description:     tf.description,
		CategoryID:      in.Category,
		Price:           *in.Price,
		Available:       true,
		PreparationTime: model.DefaultPreparationTime,
		CreatedAt:       now,
		UpdatedAt:       now,
		Translations:    tf.columns,
	}
	applyItemOptions(&p, in)

	err = s.inTx(ctx, func(q *store.Queries) error {
		if err := s.requireCategory(ctx, q, in.Category); err != nil {
			return err
		}
		if err := q.CreateMenuItem(ctx, p); err != nil {
			return fmt.Errorf("creating menu item: %w", err)
		}
		if err := q.UpsertItemDetails(ctx, details); err != nil {
			return fmt.Errorf("storing details of %s: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return model.MenuItem{}, err
	}

	s.InvalidateCache(ctx)
	s.logger.Info("menu item created", "item_id", id, "category_id", in.Category)
	return s.Item(ctx, id, model.CanonicalLanguage)
}

// UpdateItem updates a menu item. Details are replaced only when the
// payload carries at least one of them, and the text only when it carries
// a name or translations. A legacy description without a name is rejected.
func (s *MenuService) UpdateItem(ctx context.Context, id string, in ItemInput) (model.MenuItem, error) {
	if in.Translations == nil && in.Name == "" && in.Description != "" {
		return model.MenuItem{}, &translate.ValidationError{Field: "name", Message: "name is required when updating the description"}
	}
	if in.Price != nil {
		if err := validatePrice(*in.Price); err != nil {
			return model.MenuItem{}, err
		}
	}

	err := s.inTx(ctx, func(q *store.Queries) error {
		cur, err := q.GetMenuItem(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("getting menu item %s: %w", id, err)
		}

		// a legacy payload without a name keeps the stored text
		tf := textFields{name: cur.Name, description: cur.Description.String}
		if in.Translations != nil || in.Name != "" {
			if tf, err = s.resolveText(schema.MenuItems, in.Name, in.Description, in.Translations, false); err != nil {
				return err
			}
		}

		p := store.MenuItemParams{
			ID:              id,
			Name:            tf.name,
			Description:     tf.description,
			CategoryID:      cur.CategoryID,
			Price:           cur.Price,
			ImageURL:        cur.ImageURL.String,
			Available:       cur.Available,
			Popular:         cur.Popular,
			PreparationTime: cur.PreparationTime,
			UpdatedAt:       s.now(),
			Translations:    tf.columns,
		}
		if in.Category != "" && in.Category != cur.CategoryID {
			if err := s.requireCategory(ctx, q, in.Category); err != nil {
				return err
			}
			p.CategoryID = in.Category
		}
		if in.Price != nil {
			p.Price = *in.Price
		}
		applyItemOptions(&p, in)

		if _, err := q.UpdateMenuItem(ctx, p); err != nil {
			return fmt.Errorf("updating menu item %s: %w", id, err)
		}

		if in.Allergens != nil || in.Ingredients != nil || in.Nutrition != nil {
			details, err := encodeDetails(id, mergeDetails(cur, in))
			if err != nil {
				return err
			}
			if err := q.UpsertItemDetails(ctx, details); err != nil {
				return fmt.Errorf("storing details of %s: %w", id, err)
			}
		}
		return nil
	})
	if err != nil {
		return model.MenuItem{}, err
	}

	s.InvalidateCache(ctx)
	s.logger.Info("menu item updated", "item_id", id)
	return s.Item(ctx, id, model.CanonicalLanguage)
}

// DeleteItem removes a menu item with its details and pairings.
func (s *MenuService) DeleteItem(ctx context.Context, id string) error {
	err := s.inTx(ctx, func(q *store.Queries) error {
		if err := q.DeletePairingsForItem(ctx, id); err != nil {
			return fmt.Errorf("deleting pairings of %s: %w", id, err)
		}
		if err := q.DeleteItemDetails(ctx, id); err != nil {
			return fmt.Errorf("deleting details of %s: %w", id, err)
		}
		n, err := q.DeleteMenuItem(ctx, id)
		if err != nil {
			return fmt.Errorf("deleting menu item %s: %w", id, err)
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.InvalidateCache(ctx)
	s.logger.Info("menu item deleted", "item_id", id)
	return nil
}

// SetPairing pairs two items with score.
func (s *MenuService) SetPairing(ctx context.Context, itemID, pairedWithID string, score float64) error {
	if itemID == pairedWithID {
		return &translate.ValidationError{Field: "paired_with_id", Message: "an item cannot pair with itself"}
	}
	err := s.inTx(ctx, func(q *store.Queries) error {
		for _, id := range []string{itemID, pairedWithID} {
			if _, err := q.GetMenuItem(ctx, id); errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("menu item %s: %w", id, ErrNotFound)
			} else if err != nil {
				return fmt.Errorf("getting menu item %s: %w", id, err)
			}
		}
		return q.UpsertPairing(ctx, store.CreatePairingParams{ItemID: itemID, PairedWithID: pairedWithID, Score: score})
	})
	if err != nil {
		return err
	}
	s.InvalidateCache(ctx)
	return nil
}

func (s *MenuService) requireCategory(ctx context.Context, q *store.Queries, id string) error {
	_, err := q.GetCategory(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return &translate.ValidationError{Field: "category", Message: fmt.Sprintf("unknown category %q", id)}
	}
	if err != nil {
		return fmt.Errorf("getting category %s: %w", id, err)
	}
	return nil
}

func validatePrice(p float64) error {
	if p < 0 {
		return &translate.ValidationError{Field: "price", Message: "price must not be negative"}
	}
	return nil
}

func applyItemOptions(p *store.MenuItemParams, in ItemInput) {
	if in.ImageURL != nil {
		p.ImageURL = sanitize(*in.ImageURL)
	}
	if in.Available != nil {
		p.Available = *in.Available
	}
	if in.Popular != nil {
		p.Popular = *in.Popular
	}
	if in.PreparationTime != nil {
		p.PreparationTime = int64(*in.PreparationTime)
	}
}

// mergeDetails fills the detail fields in does not carry from cur.
func mergeDetails(cur store.MenuItem, in ItemInput) ItemInput {
	if in.Allergens == nil && cur.Allergens.Valid {
		_ = json.Unmarshal([]byte(cur.Allergens.String), &in.Allergens)
	}
	if in.Ingredients == nil && cur.Ingredients.Valid {
		_ = json.Unmarshal([]byte(cur.Ingredients.String), &in.Ingredients)
	}
	if in.Nutrition == nil && cur.Nutrition.Valid {
		_ = json.Unmarshal([]byte(cur.Nutrition.String), &in.Nutrition)
	}
	return in
}

func encodeDetails(itemID string, in ItemInput) (store.ItemDetails, error) {
	d := store.ItemDetails{ItemID: itemID, Allergens: "[]", Ingredients: "[]", Nutrition: "{}"}
	for _, f := range []struct {
		dst *string
		val any
		set bool
	}{
		{&d.Allergens, in.Allergens, in.Allergens != nil},
		{&d.Ingredients, in.Ingredients, in.Ingredients != nil},
		{&d.Nutrition, in.Nutrition, in.Nutrition != nil},
	} {
		if !f.set {
			continue
		}
		b, err := json.Marshal(f.val)
		if err != nil {
			return store.ItemDetails{}, fmt.Errorf("encoding item details: %w", err)
		}
		*f.dst = string(b)
	}
	return d, nil
}
