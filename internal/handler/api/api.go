// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the REST handlers of the menu service.
package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/olegiv/omenu/internal/chat"
	"github.com/olegiv/omenu/internal/model"
	"github.com/olegiv/omenu/internal/scheduler"
	"github.com/olegiv/omenu/internal/schema"
	"github.com/olegiv/omenu/internal/service"
	"github.com/olegiv/omenu/internal/store"
	"github.com/olegiv/omenu/internal/transfer"
	"github.com/olegiv/omenu/internal/translate"
	"github.com/olegiv/omenu/internal/version"
)

// maxBodyBytes limits JSON request bodies. Imports get importMaxBodyBytes.
const (
	maxBodyBytes       = 1 << 20
	importMaxBodyBytes = 32 << 20
)

// Deps are the services the handlers use.
type Deps struct {
	DB      *sql.DB
	Menu    *service.MenuService
	Chat    *chat.Service
	Events  *service.EventService
	Logger  *slog.Logger
	Version version.Info
	// Analytics defaults to a service over DB.
	Analytics *service.AnalyticsService
	// Jobs is optional; without it the job endpoints answer 503.
	Jobs *scheduler.Registry
}

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	db       *sql.DB
	queries  *store.Queries
	menu     *service.MenuService
	chat     *chat.Service
	events    *service.EventService
	analytics *service.AnalyticsService
	jobs      *scheduler.Registry
	exporter  *transfer.Exporter
	importer  *transfer.Importer
	logger    *slog.Logger
	version   version.Info
}

// NewHandler creates a new API handler.
func NewHandler(d Deps) *Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	analytics := d.Analytics
	if analytics == nil {
		analytics = service.NewAnalyticsService(d.DB)
	}
	queries := store.New(d.DB).WithCapabilities(d.Menu.Capabilities())
	return &Handler{
		db:        d.DB,
		queries:   queries,
		menu:      d.Menu,
		chat:      d.Chat,
		events:    d.Events,
		analytics: analytics,
		jobs:      d.Jobs,
		exporter:  transfer.NewExporter(queries, logger),
		importer:  transfer.NewImporter(d.DB, queries, logger),
		logger:    logger,
		version:   d.Version,
	}
}

// Response is the standard API response wrapper.
type Response struct {
	Data any   `json:"data,omitempty"`
	Meta *Meta `json:"meta,omitempty"`
}

// Meta contains list metadata.
type Meta struct {
	Total    int64               `json:"total,omitempty"`
	Limit    int                 `json:"limit,omitempty"`
	Offset   int                 `json:"offset,omitempty"`
	Language model.LanguageCode `json:"language,omitempty"`
}

// ErrorResponse is the standard API error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, data any, meta *Meta) {
	WriteJSON(w, http.StatusOK, Response{Data: data, Meta: meta})
}

// WriteCreated writes a 201 Created JSON response.
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Response{Data: data})
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	WriteJSON(w, statusCode, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string, details map[string]string) {
	WriteError(w, http.StatusBadRequest, "bad_request", message, details)
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, "not_found", message, nil)
}

// WriteConflict writes a 409 Conflict response.
func WriteConflict(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusConflict, "conflict", message, nil)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, "internal_error", message, nil)
}

// WriteValidationError writes a 400 response naming the offending field.
func WriteValidationError(w http.ResponseWriter, fieldErrors map[string]string) {
	WriteError(w, http.StatusBadRequest, "validation_error", "Validation failed", fieldErrors)
}

// writeServiceError maps a service error to its HTTP response. Unknown
// errors are logged and reported as 500 without their text.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *translate.ValidationError
	switch {
	case errors.As(err, &verr):
		WriteValidationError(w, map[string]string{verr.Field: verr.Message})
	case errors.Is(err, service.ErrNotFound):
		WriteNotFound(w, capitalizeFirst(err.Error()))
	case errors.Is(err, service.ErrCategoryNotEmpty):
		WriteError(w, http.StatusConflict, "category_not_empty", capitalizeFirst(err.Error()), nil)
	case errors.Is(err, service.ErrSchemaOutdated):
		WriteError(w, http.StatusConflict, "schema_outdated", "Database schema has not been evolved; run omenu-evolve", nil)
	case errors.Is(err, service.ErrConflict):
		WriteConflict(w, capitalizeFirst(err.Error()))
	default:
		var serr *schema.SchemaEvolutionError
		if errors.As(err, &serr) {
			h.logger.Error("schema evolution failed", "table", serr.Table, "column", serr.Column, "error", serr.Err)
		} else {
			h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		}
		WriteInternalError(w, "Internal server error")
	}
}

// decodeJSON reads the request body into dst. On failure the 400 response
// is already written.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return false
	}
	return true
}

// capitalizeFirst returns s with the first letter capitalized.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// queryInt parses an integer query parameter. Missing or malformed values
// return def.
func queryInt(r *http.Request, name string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return def
	}
	return v
}

// queryBool parses a boolean query parameter. Missing or malformed values
// return def.
func queryBool(r *http.Request, name string, def bool) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(name))
	if err != nil {
		return def
	}
	return v
}
