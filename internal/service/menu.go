// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service holds the menu, chat support and event log business logic
// on top of the store.
package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/olegiv/omenu/internal/cache"
	"github.com/olegiv/omenu/internal/model"
	"github.com/olegiv/omenu/internal/schema"
	"github.com/olegiv/omenu/internal/store"
	"github.com/olegiv/omenu/internal/translate"
)

const (
	menuCachePrefix  = "menu:"
	itemPairingLimit = 5
	summarySamples   = 3
	summaryPopular   = 5
	summaryDescRunes = 50
)

// MenuService reads and writes the menu. Reads are resolved for one
// language and cached per language; every write drops the menu cache.
type MenuService struct {
	db      *sql.DB
	queries *store.Queries
	caps    schema.Capabilities
	cache   cache.Cache
	logger  *slog.Logger

	shuffle func(n int, swap func(i, j int))
	now     func() time.Time
}

// NewMenuService creates a MenuService. caps must describe db; c may be nil
// to disable caching.
func NewMenuService(db *sql.DB, caps schema.Capabilities, c cache.Cache, logger *slog.Logger) *MenuService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MenuService{
		db:      db,
		queries: store.New(db).WithCapabilities(caps),
		caps:    caps,
		cache:   c,
		logger:  logger,
		shuffle: rand.Shuffle,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Capabilities returns the schema capabilities the service was built with.
func (s *MenuService) Capabilities() schema.Capabilities {
	return s.caps
}

// cached runs load through the menu cache under key.
func cached[T any](ctx context.Context, s *MenuService, key string, load func(context.Context) (T, error)) (T, error) {
	if s.cache == nil {
		return load(ctx)
	}
	return cache.NewTyped[T](s.cache, 0).GetOrLoad(ctx, menuCachePrefix+key, load)
}

// InvalidateCache drops every cached menu read. Writes outside the service,
// such as imports, call it after committing.
func (s *MenuService) InvalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPrefix(ctx, menuCachePrefix); err != nil {
		s.logger.Warn("menu cache invalidation failed", "error", err)
	}
}

// Categories returns every category resolved for lang.
func (s *MenuService) Categories(ctx context.Context, lang model.LanguageCode) ([]model.Category, error) {
	return cached(ctx, s, string(lang)+":categories", func(ctx context.Context) ([]model.Category, error) {
		rows, err := s.queries.ListCategories(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing categories: %w", err)
		}
		out := make([]model.Category, 0, len(rows))
		for _, c := range rows {
			out = append(out, categoryView(c, lang))
		}
		return out, nil
	})
}

// Category returns one category resolved for lang.
func (s *MenuService) Category(ctx context.Context, id string, lang model.LanguageCode) (model.Category, error) {
	c, err := s.queries.GetCategory(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Category{}, ErrNotFound
	}
	if err != nil {
		return model.Category{}, fmt.Errorf("getting category %s: %w", id, err)
	}
	return categoryView(c, lang), nil
}

// ItemFilter selects menu items.
type ItemFilter struct {
	Language      model.LanguageCode
	CategoryID    string
	AvailableOnly bool
	// Search is matched against names and descriptions in Language and the
	// base fields. Searches are not cached.
	Search string
}

// Items returns the menu items matching f resolved for f.Language.
func (s *MenuService) Items(ctx context.Context, f ItemFilter) ([]model.MenuItem, error) {
	load := func(ctx context.Context) ([]model.MenuItem, error) {
		rows, err := s.queries.ListMenuItems(ctx, store.ListMenuItemsParams{
			CategoryID:     f.CategoryID,
			AvailableOnly:  f.AvailableOnly,
			Search:         f.Search,
			SearchLanguage: string(f.Language),
		})
		if err != nil {
			return nil, fmt.Errorf("listing menu items: %w", err)
		}
		out := make([]model.MenuItem, 0, len(rows))
		for _, m := range rows {
			out = append(out, s.itemView(m, f.Language))
		}
		return out, nil
	}
	if f.Search != "" {
		return load(ctx)
	}
	key := fmt.Sprintf("%s:items:%s:%s", f.Language, f.CategoryID, strconv.FormatBool(f.AvailableOnly))
	return cached(ctx, s, key, load)
}

// Item returns one menu item with its details and suggested pairings.
func (s *MenuService) Item(ctx context.Context, id string, lang model.LanguageCode) (model.MenuItem, error) {
	return cached(ctx, s, string(lang)+":item:"+id, func(ctx context.Context) (model.MenuItem, error) {
		m, err := s.queries.GetMenuItem(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return model.MenuItem{}, ErrNotFound
		}
		if err != nil {
			return model.MenuItem{}, fmt.Errorf("getting menu item %s: %w", id, err)
		}
		item := s.itemView(m, lang)

		pairings, err := s.queries.ListPairings(ctx, id, itemPairingLimit)
		if err != nil {
			return model.MenuItem{}, fmt.Errorf("listing pairings of %s: %w", id, err)
		}
		item.Pairings = pairingViews(pairings, lang)
		return item, nil
	})
}

// Summary returns a compact overview of the available menu.
func (s *MenuService) Summary(ctx context.Context, lang model.LanguageCode) (model.MenuSummary, error) {
	return cached(ctx, s, string(lang)+":summary", func(ctx context.Context) (model.MenuSummary, error) {
		cats, err := s.queries.ListCategories(ctx)
		if err != nil {
			return model.MenuSummary{}, fmt.Errorf("listing categories: %w", err)
		}
		items, err := s.queries.ListMenuItems(ctx, store.ListMenuItemsParams{AvailableOnly: true})
		if err != nil {
			return model.MenuSummary{}, fmt.Errorf("listing menu items: %w", err)
		}

		byCategory := make(map[string][]store.MenuItem)
		var popular []model.ItemSuggestion
		for _, m := range items {
			byCategory[m.CategoryID] = append(byCategory[m.CategoryID], m)
			if m.Popular && len(popular) < summaryPopular {
				popular = append(popular, suggestion(m, lang, true))
			}
		}

		sum := model.MenuSummary{
			Language:        lang,
			TotalCategories: len(cats),
			TotalItems:      len(items),
			Categories:      make([]model.CategorySummary, 0, len(cats)),
			PopularItems:    popular,
		}
		if sum.PopularItems == nil {
			sum.PopularItems = []model.ItemSuggestion{}
		}
		for _, c := range cats {
			view := categoryView(c, lang)
			members := byCategory[c.ID]
			cs := model.CategorySummary{
				ID:          view.ID,
				Name:        view.Name,
				Description: view.Description,
				ItemCount:   len(members),
				SampleItems: make([]model.ItemSuggestion, 0, summarySamples),
			}
			for _, m := range members[:min(summarySamples, len(members))] {
				cs.SampleItems = append(cs.SampleItems, suggestion(m, lang, true))
			}
			sum.Categories = append(sum.Categories, cs)
		}
		return sum, nil
	})
}

func categoryView(c store.Category, lang model.LanguageCode) model.Category {
	d := translate.Resolve(c.Record(), string(lang))
	return model.Category{
		ID:          c.ID,
		Name:        d.Name,
		Description: d.Description,
		ImageURL:    c.ImageURL.String,
	}
}

func (s *MenuService) itemView(m store.MenuItem, lang model.LanguageCode) model.MenuItem {
	d := translate.Resolve(m.Record(), string(lang))
	item := model.MenuItem{
		ID:              m.ID,
		Name:            d.Name,
		Description:     d.Description,
		CategoryID:      m.CategoryID,
		CategoryName:    d.CategoryName,
		Price:           m.Price,
		ImageURL:        m.ImageURL.String,
		Available:       m.Available,
		Popular:         m.Popular,
		PreparationTime: int(m.PreparationTime),
		CreatedAt:       m.CreatedAt.Time,
		UpdatedAt:       m.UpdatedAt.Time,
	}
	s.decodeDetail(m.ID, "allergens", m.Allergens, &item.Allergens)
	s.decodeDetail(m.ID, "ingredients", m.Ingredients, &item.Ingredients)
	s.decodeDetail(m.ID, "nutrition", m.Nutrition, &item.Nutrition)
	return item
}

func (s *MenuService) decodeDetail(itemID, field string, raw sql.NullString, dst any) {
	if !raw.Valid || raw.String == "" {
		return
	}
	if err := json.Unmarshal([]byte(raw.String), dst); err != nil {
		s.logger.Warn("invalid menu item detail", "item_id", itemID, "field", field, "error", err)
	}
}

func pairingViews(rows []store.Pairing, lang model.LanguageCode) []model.Pairing {
	out := make([]model.Pairing, 0, len(rows))
	for _, p := range rows {
		out = append(out, model.Pairing{
			ID:           p.ItemID,
			Name:         translate.ResolveName(p.Name, p.Translations, string(lang)),
			Price:        p.Price,
			ImageURL:     p.ImageURL.String,
			CategoryName: translate.ResolveName(p.CategoryName.String, p.CategoryTranslations, string(lang)),
			Score:        p.Score,
		})
	}
	return out
}

func suggestion(m store.MenuItem, lang model.LanguageCode, truncate bool) model.ItemSuggestion {
	d := translate.Resolve(m.Record(), string(lang))
	desc := d.Description
	if truncate {
		desc = truncateRunes(desc, summaryDescRunes)
	}
	return model.ItemSuggestion{
		ID:          m.ID,
		Name:        d.Name,
		Description: desc,
		Category:    d.CategoryName,
		Price:       m.Price,
		ImageURL:    m.ImageURL.String,
	}
}

// truncateRunes cuts s to n runes followed by "..." when it is longer.
func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
