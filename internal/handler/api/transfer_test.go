// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/omenu/internal/model"
	"github.com/olegiv/omenu/internal/transfer"
)

func TestExport_Formats(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name        string
		path        string
		contentType string
		filename    string
		contains    string
	}{
		{"json", "/api/admin/export", "application/json", "menu_export.json", `"pizza-margherita"`},
		{"csv items", "/api/admin/export?format=csv", "text/csv", "menu_items_export.csv", "ID,Name,Description,Category ID"},
		{"csv categories", "/api/admin/export?format=csv&table=categories", "text/csv", "menu_categories_export.csv", "ID,Name,Description,Image URL"},
		{"markdown", "/api/admin/export?format=md&language=ru", "text/markdown", "menu_export.md", "## Пицца {#category-pizza}"},
		{"html", "/api/admin/export?format=html&language=ar", "text/html", "menu_export.html", `dir="rtl"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodGet, tt.path, "")
			assertStatusCode(t, w, http.StatusOK)
			assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), tt.contentType), w.Header().Get("Content-Type"))
			assert.Contains(t, w.Header().Get("Content-Disposition"), tt.filename)
			assert.Contains(t, w.Body.String(), tt.contains)
		})
	}
}

func TestExport_BadRequest(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{
		"/api/admin/export?format=xml",
		"/api/admin/export?format=csv&table=pairings",
	} {
		w := env.do(t, http.MethodGet, path, "")
		assertStatusCode(t, w, http.StatusBadRequest)
		assertErrorResponse(t, w, "bad_request")
	}
}

func exportJSON(t *testing.T, env *testEnv) string {
	t.Helper()
	w := env.do(t, http.MethodGet, "/api/admin/export?format=json", "")
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestImport_SkipExisting(t *testing.T) {
	env := newTestEnv(t)
	doc := exportJSON(t, env)

	w := env.do(t, http.MethodPost, "/api/admin/import", doc)
	assertStatusCode(t, w, http.StatusOK)
	result := unmarshalData[transfer.ImportResult](t, w)
	assert.Equal(t, 4, result.Skipped["categories"])
	assert.Equal(t, 6, result.Skipped["items"])
	assert.Equal(t, 4, result.Skipped["pairings"])
	assert.Empty(t, result.Errors)
}

func TestImport_OverwriteInvalidatesCache(t *testing.T) {
	env := newTestEnv(t)

	var data transfer.ExportData
	require.NoError(t, json.Unmarshal([]byte(exportJSON(t, env)), &data))

	// warm the cache
	w := env.do(t, http.MethodGet, "/api/menu/categories/pizza?language=az", "")
	require.Equal(t, "Pitsa", unmarshalData[model.Category](t, w).Name)

	for i := range data.Categories {
		if data.Categories[i].ID == "pizza" {
			name := "Pizza (az)"
			entry := data.Categories[i].Translations["az"]
			entry.Name = &name
			data.Categories[i].Translations["az"] = entry
		}
	}
	body, err := json.Marshal(data)
	require.NoError(t, err)

	w = env.do(t, http.MethodPost, "/api/admin/import?strategy=overwrite", string(body))
	assertStatusCode(t, w, http.StatusOK)
	result := unmarshalData[transfer.ImportResult](t, w)
	assert.Equal(t, 4, result.Updated["categories"])

	w = env.do(t, http.MethodGet, "/api/menu/categories/pizza?language=az", "")
	assert.Equal(t, "Pizza (az)", unmarshalData[model.Category](t, w).Name)
}

func TestImport_DryRun(t *testing.T) {
	env := newTestEnv(t)

	doc := `{"version":"1.0","categories":[{"id":"soups","name":"Soups","translations":{"en":{"name":"Soups"}}}]}`
	w := env.do(t, http.MethodPost, "/api/admin/import?dry_run=true", doc)
	assertStatusCode(t, w, http.StatusOK)
	result := unmarshalData[transfer.ImportResult](t, w)
	assert.True(t, result.DryRun)
	assert.Equal(t, 1, result.Created["categories"])

	w = env.do(t, http.MethodGet, "/api/menu/categories/soups", "")
	assertStatusCode(t, w, http.StatusNotFound)
}

func TestImport_Rejected(t *testing.T) {
	env := newTestEnv(t)

	doc := `{"version":"1.0","items":[{"id":"soups-borscht","name":"Borscht","category_id":"soups","price":5}]}`
	w := env.do(t, http.MethodPost, "/api/admin/import", doc)
	assertStatusCode(t, w, http.StatusBadRequest)

	var resp ImportFailedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "import_failed", resp.Error.Code)
	require.NotNil(t, resp.Result)
	require.Len(t, resp.Result.Errors, 1)
	assert.Equal(t, "soups-borscht", resp.Result.Errors[0].ID)

	w = env.do(t, http.MethodGet, "/api/menu/items/soups-borscht", "")
	assertStatusCode(t, w, http.StatusNotFound)
}

func TestImport_CSV(t *testing.T) {
	env := newTestEnv(t)

	csv := "ID,Name,Description,Name EN,Name AZ\nsoups,Soups,Hot soups,Soups,Şorbalar\n"
	w := env.do(t, http.MethodPost, "/api/admin/import?format=csv&table=categories", csv)
	assertStatusCode(t, w, http.StatusOK)
	result := unmarshalData[transfer.ImportResult](t, w)
	assert.Equal(t, 1, result.Created["categories"])

	w = env.do(t, http.MethodGet, "/api/menu/categories/soups?language=az", "")
	assertStatusCode(t, w, http.StatusOK)
	assert.Equal(t, "Şorbalar", unmarshalData[model.Category](t, w).Name)
}

func TestImport_BadRequest(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		path string
		body string
		code string
	}{
		{"strategy", "/api/admin/import?strategy=merge", "{}", "bad_request"},
		{"format", "/api/admin/import?format=md", "{}", "bad_request"},
		{"table", "/api/admin/import?format=csv&table=pairings", "ID,Name\n", "bad_request"},
		{"malformed json", "/api/admin/import", "{", "validation_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, tt.path, tt.body)
			assertStatusCode(t, w, http.StatusBadRequest)
			assertErrorResponse(t, w, tt.code)
		})
	}
}
