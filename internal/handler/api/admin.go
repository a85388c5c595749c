// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/omenu/internal/model"
	"github.com/olegiv/omenu/internal/service"
)

// CreateCategory handles POST /api/menu/admin/categories
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var in service.CategoryInput
	if !decodeJSON(w, r, &in) {
		return
	}
	cat, err := h.menu.CreateCategory(r.Context(), in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteCreated(w, cat)
}

// UpdateCategory handles PUT /api/menu/admin/categories/{id}
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var in service.CategoryInput
	if !decodeJSON(w, r, &in) {
		return
	}
	cat, err := h.menu.UpdateCategory(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, cat, nil)
}

// DeleteCategory handles DELETE /api/menu/admin/categories/{id}
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.menu.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateItem handles POST /api/menu/admin/items
func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var in service.ItemInput
	if !decodeJSON(w, r, &in) {
		return
	}
	item, err := h.menu.CreateItem(r.Context(), in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteCreated(w, item)
}

// UpdateItem handles PUT /api/menu/admin/items/{id}
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var in service.ItemInput
	if !decodeJSON(w, r, &in) {
		return
	}
	item, err := h.menu.UpdateItem(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, item, nil)
}

// DeleteItem handles DELETE /api/menu/admin/items/{id}
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.menu.DeleteItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetPairingRequest is the body of a pairing update. A missing score uses
// the default pairing score.
type SetPairingRequest struct {
	Score *float64 `json:"score,omitempty"`
}

// SetPairing handles PUT /api/menu/admin/items/{id}/pairings/{pairedID}
func (h *Handler) SetPairing(w http.ResponseWriter, r *http.Request) {
	var req SetPairingRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	score := model.DefaultPairingScore
	if req.Score != nil {
		score = *req.Score
	}
	if score < 0 {
		WriteValidationError(w, map[string]string{"score": "score must not be negative"})
		return
	}

	itemID, pairedID := chi.URLParam(r, "id"), chi.URLParam(r, "pairedID")
	if err := h.menu.SetPairing(r.Context(), itemID, pairedID, score); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, map[string]any{
		"item_id":        itemID,
		"paired_with_id": pairedID,
		"score":          score,
	}, nil)
}
