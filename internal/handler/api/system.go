// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/olegiv/omenu/internal/model"
	"github.com/olegiv/omenu/internal/schema"
)

const (
	healthPingTimeout = 2 * time.Second
	defaultEventLimit = 50
	maxEventLimit     = 500
)

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
	Error   string `json:"error,omitempty"`
}

// Health handles GET /health. The database is pinged; a failed ping
// answers 503.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
	defer cancel()

	status := HealthStatus{Status: "ok", Service: "omenu", Version: h.version.String()}
	if err := h.db.PingContext(ctx); err != nil {
		h.logger.Warn("health check failed", "error", err)
		status.Status = "unavailable"
		status.Error = "database unreachable"
		WriteJSON(w, http.StatusServiceUnavailable, status)
		return
	}
	WriteJSON(w, http.StatusOK, status)
}

// CoverageReport is the translation coverage of both tables.
type CoverageReport struct {
	Evolved bool                        `json:"evolved"`
	Tables  []model.TranslationCoverage `json:"tables"`
}

// Coverage handles GET /api/admin/translations/coverage
func (h *Handler) Coverage(w http.ResponseWriter, r *http.Request) {
	caps := h.menu.Capabilities()
	report := CoverageReport{Evolved: caps.Evolved(), Tables: []model.TranslationCoverage{}}
	for _, table := range schema.Tables {
		cov, err := schema.Coverage(r.Context(), h.db, caps, table)
		if err != nil {
			h.writeServiceError(w, r, err)
			return
		}
		report.Tables = append(report.Tables, cov...)
	}
	WriteSuccess(w, report, nil)
}

// ListEvents handles GET /api/admin/events
// Query: level, limit (default 50), offset.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	level := strings.ToLower(r.URL.Query().Get("level"))
	switch level {
	case "", model.EventLevelInfo, model.EventLevelWarning, model.EventLevelError:
	default:
		WriteBadRequest(w, "Unknown event level", map[string]string{"level": "must be info, warning or error"})
		return
	}

	limit := queryInt(r, "limit", defaultEventLimit)
	if limit <= 0 {
		limit = defaultEventLimit
	}
	limit = min(limit, maxEventLimit)
	offset := max(queryInt(r, "offset", 0), 0)

	page, err := h.events.List(r.Context(), level, int64(limit), int64(offset))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, page.Events, &Meta{Total: page.Total, Limit: limit, Offset: offset})
}
