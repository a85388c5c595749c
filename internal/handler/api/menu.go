// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/omenu/internal/middleware"
	"github.com/olegiv/omenu/internal/model"
	"github.com/olegiv/omenu/internal/service"
)

// ListCategories handles GET /api/menu/categories
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLanguage(r)
	cats, err := h.menu.Categories(r.Context(), lang)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, cats, &Meta{Total: int64(len(cats)), Language: lang})
}

// GetCategory handles GET /api/menu/categories/{id}
func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	cat, err := h.menu.Category(r.Context(), chi.URLParam(r, "id"), middleware.GetLanguage(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, cat, nil)
}

// ListItems handles GET /api/menu/items
// Query: category, available (default true), search.
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLanguage(r)
	q := r.URL.Query()
	items, err := h.menu.Items(r.Context(), service.ItemFilter{
		Language:      lang,
		CategoryID:    q.Get("category"),
		AvailableOnly: queryBool(r, "available", true),
		Search:        strings.TrimSpace(q.Get("search")),
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, items, &Meta{Total: int64(len(items)), Language: lang})
}

// GetItem handles GET /api/menu/items/{id}
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.menu.Item(r.Context(), chi.URLParam(r, "id"), middleware.GetLanguage(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, item, nil)
}

// Recommendations handles GET /api/menu/recommendations
// Query: meal_time (breakfast, lunch, dinner), item.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	rec, err := h.menu.Recommendations(r.Context(), service.RecommendationRequest{
		Language: middleware.GetLanguage(r),
		ItemID:   r.URL.Query().Get("item"),
		MealTime: strings.ToLower(r.URL.Query().Get("meal_time")),
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, rec, nil)
}

// Summary handles GET /api/menu/summary
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.menu.Summary(r.Context(), middleware.GetLanguage(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, sum, nil)
}

// ListLanguages handles GET /api/menu/languages
func (h *Handler) ListLanguages(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, model.Languages, nil)
}
