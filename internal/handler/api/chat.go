// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/omenu/internal/chat"
)

// StartChat handles POST /api/chat/start
func (h *Handler) StartChat(w http.ResponseWriter, r *http.Request) {
	var req chat.StartRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	start, err := h.chat.Start(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteCreated(w, start)
}

// ChatMessage handles POST /api/chat/message
func (h *Handler) ChatMessage(w http.ResponseWriter, r *http.Request) {
	var req chat.MessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	reply, err := h.chat.HandleMessage(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, reply, nil)
}

// ChatHistory handles GET /api/chat/history/{id}
// Query: limit (default 10, at most 100).
func (h *Handler) ChatHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	limit := queryInt(r, "limit", chat.DefaultHistoryLimit)
	if limit <= 0 {
		limit = chat.DefaultHistoryLimit
	}
	limit = min(limit, chat.MaxHistoryLimit)
	msgs, err := h.chat.History(r.Context(), id, limit)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, msgs, &Meta{Total: int64(len(msgs)), Limit: limit})
}

// EndChat handles POST /api/chat/end/{id}
func (h *Handler) EndChat(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.chat.End(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	conv, err := h.chat.Conversation(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, conv, nil)
}
