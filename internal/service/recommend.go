// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"fmt"

	"github.com/olegiv/omenu/internal/model"
	"github.com/olegiv/omenu/internal/store"
	"github.com/olegiv/omenu/internal/translate"
)

const (
	recommendPopular   = 3
	recommendTimeBased = 2
	recommendPairings  = 3
)

// RecommendationRequest selects what Recommendations returns. ItemID adds
// pairings for that item, MealTime adds time-based suggestions.
type RecommendationRequest struct {
	Language model.LanguageCode
	ItemID   string
	MealTime string
}

// Recommendations picks random popular items and, on request, pairings and
// meal-time suggestions. Results are not cached.
func (s *MenuService) Recommendations(ctx context.Context, req RecommendationRequest) (model.Recommendations, error) {
	if req.MealTime != "" && !validMealTime(req.MealTime) {
		return model.Recommendations{}, &translate.ValidationError{
			Field:   "meal_time",
			Message: "must be one of breakfast, lunch or dinner",
		}
	}

	rec := model.Recommendations{
		Pairings:  []model.Pairing{},
		TimeBased: []model.ItemSuggestion{},
		MealTime:  req.MealTime,
	}

	if req.ItemID != "" {
		pairs, err := s.queries.ListPairings(ctx, req.ItemID, recommendPairings)
		if err != nil {
			return model.Recommendations{}, fmt.Errorf("listing pairings of %s: %w", req.ItemID, err)
		}
		rec.Pairings = pairingViews(pairs, req.Language)
	}

	popular, err := s.queries.ListMenuItems(ctx, store.ListMenuItemsParams{AvailableOnly: true, PopularOnly: true})
	if err != nil {
		return model.Recommendations{}, fmt.Errorf("listing popular items: %w", err)
	}
	rec.Popular = s.pick(popular, recommendPopular, req.Language)

	if req.MealTime != "" {
		available, err := s.queries.ListMenuItems(ctx, store.ListMenuItemsParams{AvailableOnly: true})
		if err != nil {
			return model.Recommendations{}, fmt.Errorf("listing available items: %w", err)
		}
		rec.TimeBased = s.pick(available, recommendTimeBased, req.Language)
	}
	return rec, nil
}

// pick shuffles items and returns the first n as suggestions.
func (s *MenuService) pick(items []store.MenuItem, n int, lang model.LanguageCode) []model.ItemSuggestion {
	s.shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })
	out := make([]model.ItemSuggestion, 0, n)
	for _, m := range items[:min(n, len(items))] {
		out = append(out, suggestion(m, lang, false))
	}
	return out
}

func validMealTime(s string) bool {
	switch s {
	case model.MealBreakfast, model.MealLunch, model.MealDinner:
		return true
	}
	return false
}

// PopularItems returns up to limit available popular items in menu order.
// The chat responder uses it for its default menu answer.
func (s *MenuService) PopularItems(ctx context.Context, lang model.LanguageCode, limit int) ([]model.ItemSuggestion, error) {
	rows, err := s.queries.ListMenuItems(ctx, store.ListMenuItemsParams{
		AvailableOnly: true,
		PopularOnly:   true,
		Limit:         limit,
	})
	if err != nil {
		return nil, fmt.Errorf("listing popular items: %w", err)
	}
	out := make([]model.ItemSuggestion, 0, len(rows))
	for _, m := range rows {
		out = append(out, suggestion(m, lang, false))
	}
	return out, nil
}
