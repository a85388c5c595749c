// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/olegiv/omenu/internal/middleware"
	"github.com/olegiv/omenu/internal/transfer"
)

// CSV tables selectable with ?table=
const (
	tableCategories = "categories"
	tableItems      = "items"
)

// Export handles GET /api/admin/export
// Query: format (json, csv, md, html), table (categories or items, CSV
// only), language (md and html).
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	format, err := transfer.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		WriteBadRequest(w, "Unknown export format", map[string]string{"format": "must be one of json, csv, md, html"})
		return
	}
	table := strings.ToLower(r.URL.Query().Get("table"))
	if table == "" {
		table = tableItems
	}
	if format == transfer.FormatCSV && table != tableItems && table != tableCategories {
		WriteBadRequest(w, "Unknown table", map[string]string{"table": "must be categories or items"})
		return
	}

	ctx := r.Context()
	data, err := h.exporter.Export(ctx)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	name := "menu_export." + string(format)
	if format == transfer.FormatCSV {
		name = fmt.Sprintf("menu_%s_export.csv", table)
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))

	switch format {
	case transfer.FormatCSV:
		if table == tableCategories {
			err = transfer.WriteCategoriesCSV(w, data)
		} else {
			err = transfer.WriteItemsCSV(w, data)
		}
	case transfer.FormatMarkdown:
		err = transfer.RenderMarkdown(w, data, middleware.GetLanguage(r))
	case transfer.FormatHTML:
		err = transfer.RenderHTML(w, data, middleware.GetLanguage(r))
	default:
		WriteJSON(w, http.StatusOK, data)
	}
	if err != nil {
		h.logger.Error("writing export failed", "format", format, "error", err)
	}
}

// ImportFailedResponse lists the records that stopped an import.
type ImportFailedResponse struct {
	Error  ErrorDetail            `json:"error"`
	Result *transfer.ImportResult `json:"result"`
}

// Import handles POST /api/admin/import
// Query: format (json or csv), table (CSV only), strategy (skip or
// overwrite), dry_run.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	strategy, err := transfer.ParseConflictStrategy(q.Get("strategy"))
	if err != nil {
		WriteBadRequest(w, "Unknown conflict strategy", map[string]string{"strategy": "must be skip or overwrite"})
		return
	}
	opts := transfer.ImportOptions{ConflictStrategy: strategy, DryRun: queryBool(r, "dry_run", false)}

	format, err := transfer.ParseFormat(q.Get("format"))
	if err != nil || (format != transfer.FormatJSON && format != transfer.FormatCSV) {
		WriteBadRequest(w, "Unknown import format", map[string]string{"format": "must be json or csv"})
		return
	}

	body := http.MaxBytesReader(w, r.Body, importMaxBodyBytes)
	var result *transfer.ImportResult
	if format == transfer.FormatCSV {
		var cats, items io.Reader
		switch strings.ToLower(q.Get("table")) {
		case tableCategories:
			cats = body
		case tableItems, "":
			items = body
		default:
			WriteBadRequest(w, "Unknown table", map[string]string{"table": "must be categories or items"})
			return
		}
		result, err = h.importer.ImportCSV(r.Context(), cats, items, opts)
	} else {
		result, err = h.importer.ImportJSON(r.Context(), body, opts)
	}

	if errors.Is(err, transfer.ErrImportFailed) {
		WriteJSON(w, http.StatusBadRequest, ImportFailedResponse{
			Error:  ErrorDetail{Code: "import_failed", Message: "Import rejected; nothing was written"},
			Result: result,
		})
		return
	}
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	if !opts.DryRun {
		h.menu.InvalidateCache(r.Context())
	}
	WriteSuccess(w, result, nil)
}
