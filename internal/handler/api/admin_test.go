// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/olegiv/omenu/internal/model"
)

func TestCategoryLifecycle(t *testing.T) {
	env := newTestEnv(t)

	body := `{"translations":{"en":{"name":"Salads","description":"Fresh greens"},"az":{"name":"Salatlar"}}}`
	w := env.do(t, http.MethodPost, "/api/menu/admin/categories", body)
	assertStatusCode(t, w, http.StatusCreated)
	cat := unmarshalData[model.Category](t, w)
	if cat.ID != "salads" || cat.Name != "Salads" {
		t.Fatalf("created %+v", cat)
	}

	w = env.do(t, http.MethodGet, "/api/menu/categories/salads?language=az", "")
	assertStatusCode(t, w, http.StatusOK)
	if got := unmarshalData[model.Category](t, w); got.Name != "Salatlar" {
		t.Errorf("az name = %q, want Salatlar", got.Name)
	}
	// ru was not supplied and falls back to English on write
	w = env.do(t, http.MethodGet, "/api/menu/categories/salads?language=ru", "")
	if got := unmarshalData[model.Category](t, w); got.Name != "Salads" {
		t.Errorf("ru name = %q, want Salads", got.Name)
	}

	w = env.do(t, http.MethodPost, "/api/menu/admin/categories", body)
	assertStatusCode(t, w, http.StatusConflict)
	assertErrorResponse(t, w, "conflict")

	w = env.do(t, http.MethodPut, "/api/menu/admin/categories/salads", `{"translations":{"en":{"name":"Green Salads"}}}`)
	assertStatusCode(t, w, http.StatusOK)
	if got := unmarshalData[model.Category](t, w); got.Name != "Green Salads" {
		t.Errorf("updated name = %q", got.Name)
	}

	w = env.do(t, http.MethodDelete, "/api/menu/admin/categories/salads", "")
	assertStatusCode(t, w, http.StatusNoContent)

	w = env.do(t, http.MethodDelete, "/api/menu/admin/categories/salads", "")
	assertStatusCode(t, w, http.StatusNotFound)
}

func TestCreateCategory_Validation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"malformed", `{"name":`, http.StatusBadRequest, "bad_request"},
		{"missing english", `{"translations":{"ru":{"name":"Салаты"}}}`, http.StatusBadRequest, "validation_error"},
		{"empty english name", `{"translations":{"en":{"name":""}}}`, http.StatusBadRequest, "validation_error"},
		{"legacy without name", `{"description":"Greens"}`, http.StatusBadRequest, "validation_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/menu/admin/categories", tt.body)
			assertStatusCode(t, w, tt.status)
			assertErrorResponse(t, w, tt.code)
		})
	}
}

func TestDeleteCategory_NotEmpty(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodDelete, "/api/menu/admin/categories/pizza", "")
	assertStatusCode(t, w, http.StatusConflict)
	assertErrorResponse(t, w, "category_not_empty")
}

func TestItemLifecycle(t *testing.T) {
	env := newTestEnv(t)

	body := `{"category":"pasta","price":9.5,"allergens":["gluten"],` +
		`"translations":{"en":{"name":"Penne Arrabbiata","description":"Spicy tomato sauce"},"it":{"name":"Penne all'arrabbiata"}}}`
	w := env.do(t, http.MethodPost, "/api/menu/admin/items", body)
	assertStatusCode(t, w, http.StatusCreated)
	item := unmarshalData[model.MenuItem](t, w)
	if !strings.HasPrefix(item.ID, "pasta-") || len(item.ID) != len("pasta-")+8 {
		t.Fatalf("unexpected id %q", item.ID)
	}
	if item.Price != 9.5 || !item.Available || item.Popular {
		t.Errorf("created %+v", item)
	}

	w = env.do(t, http.MethodGet, "/api/menu/items/"+item.ID+"?language=it", "")
	assertStatusCode(t, w, http.StatusOK)
	if got := unmarshalData[model.MenuItem](t, w); got.Name != "Penne all'arrabbiata" {
		t.Errorf("it name = %q", got.Name)
	}

	w = env.do(t, http.MethodPut, "/api/menu/admin/items/"+item.ID, `{"price":10,"popular":true}`)
	assertStatusCode(t, w, http.StatusOK)
	updated := unmarshalData[model.MenuItem](t, w)
	if updated.Price != 10 || !updated.Popular || updated.Name != "Penne Arrabbiata" {
		t.Errorf("updated %+v", updated)
	}

	w = env.do(t, http.MethodPut, "/api/menu/admin/items/"+item.ID+"/pairings/drinks-tea", `{"score":0.4}`)
	assertStatusCode(t, w, http.StatusOK)
	pairing := unmarshalData[map[string]any](t, w)
	if pairing["score"] != 0.4 || pairing["paired_with_id"] != "drinks-tea" {
		t.Errorf("pairing = %v", pairing)
	}

	w = env.do(t, http.MethodDelete, "/api/menu/admin/items/"+item.ID, "")
	assertStatusCode(t, w, http.StatusNoContent)

	w = env.do(t, http.MethodGet, "/api/menu/items/"+item.ID, "")
	assertStatusCode(t, w, http.StatusNotFound)
}

func TestCreateItem_Validation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"no category", `{"name":"Soup","price":4}`, "category"},
		{"no price", `{"name":"Soup","category":"pasta"}`, "price"},
		{"negative price", `{"name":"Soup","category":"pasta","price":-1}`, "price"},
		{"unknown category", `{"name":"Soup","category":"soups","price":4}`, "category"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/menu/admin/items", tt.body)
			assertStatusCode(t, w, http.StatusBadRequest)
			resp := assertErrorResponse(t, w, "validation_error")
			if _, ok := resp.Error.Details[tt.field]; !ok {
				t.Errorf("details = %v, want field %s", resp.Error.Details, tt.field)
			}
		})
	}
}

func TestSetPairing(t *testing.T) {
	env := newTestEnv(t)

	t.Run("default score", func(t *testing.T) {
		req := newJSONRequest(t, http.MethodPut, "/", "", map[string]string{"id": "pizza-pepperoni", "pairedID": "drinks-tea"})
		w := executeHandler(t, env.handler.SetPairing, req)
		assertStatusCode(t, w, http.StatusOK)
		got := unmarshalData[map[string]any](t, w)
		if got["score"] != model.DefaultPairingScore {
			t.Errorf("score = %v", got["score"])
		}
	})

	t.Run("negative score", func(t *testing.T) {
		req := newJSONRequest(t, http.MethodPut, "/", `{"score":-0.5}`, map[string]string{"id": "pizza-pepperoni", "pairedID": "drinks-tea"})
		w := executeHandler(t, env.handler.SetPairing, req)
		assertStatusCode(t, w, http.StatusBadRequest)
		assertErrorResponse(t, w, "validation_error")
	})

	t.Run("unknown item", func(t *testing.T) {
		req := newJSONRequest(t, http.MethodPut, "/", `{"score":0.5}`, map[string]string{"id": "pizza-hawaii", "pairedID": "drinks-tea"})
		w := executeHandler(t, env.handler.SetPairing, req)
		assertStatusCode(t, w, http.StatusNotFound)
	})
}

func TestUpdateItem_DescriptionWithoutName(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPut, "/api/menu/admin/items/desserts-tiramisu", `{"description":"Brand new description"}`)
	assertStatusCode(t, w, http.StatusBadRequest)
	resp := assertErrorResponse(t, w, "validation_error")
	if _, ok := resp.Error.Details["name"]; !ok {
		t.Errorf("details = %v, want field name", resp.Error.Details)
	}
}
