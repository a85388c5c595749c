// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/olegiv/omenu/internal/service"
)

const maxSummaryLimit = 100

// LogUserAction handles POST /api/analytics/user_action
// The client type is taken from the User-Agent header.
func (h *Handler) LogUserAction(w http.ResponseWriter, r *http.Request) {
	var in service.ActionInput
	if !decodeJSON(w, r, &in) {
		return
	}

	action, err := h.analytics.LogAction(r.Context(), in, r.UserAgent())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteCreated(w, action)
}

// AnalyticsSummary handles GET /api/analytics/summary
// Query: limit (default 10, max 100).
func (h *Handler) AnalyticsSummary(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", service.DefaultSummaryLimit)
	if limit <= 0 {
		limit = service.DefaultSummaryLimit
	}
	if limit > maxSummaryLimit {
		limit = maxSummaryLimit
	}

	summary, err := h.analytics.Summary(r.Context(), limit)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, summary, &Meta{Limit: limit})
}
