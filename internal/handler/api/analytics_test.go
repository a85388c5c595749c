// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/olegiv/omenu/internal/model"
)

const iphoneUA = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_2 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2 Mobile/15E148 Safari/604.1"

func TestLogUserAction(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, RouteAnalytics+"/user_action",
		strings.NewReader(`{"user_id":"u1","action_type":"view","item_id":"tiramisu","timestamp":1700000000}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", iphoneUA)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assertStatusCode(t, w, http.StatusCreated)
	action := unmarshalData[model.UserAction](t, w)
	if action.ID == 0 || action.ItemID != "tiramisu" || action.ActionType != model.ActionView {
		t.Errorf("action = %+v", action)
	}
	if action.ClientType != model.ClientMobile {
		t.Errorf("client_type = %q, want mobile", action.ClientType)
	}
	if action.CreatedAt.Unix() != 1700000000 {
		t.Errorf("created_at = %v", action.CreatedAt)
	}
}

func TestLogUserAction_MissingFields(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"no user", `{"action_type":"view","item_id":"x"}`, "user_id"},
		{"no action", `{"user_id":"u","item_id":"x"}`, "action_type"},
		{"no item", `{"user_id":"u","action_type":"view"}`, "item_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, RouteAnalytics+"/user_action", tt.body)
			assertStatusCode(t, w, http.StatusBadRequest)
			resp := assertErrorResponse(t, w, "validation_error")
			if _, ok := resp.Error.Details[tt.field]; !ok {
				t.Errorf("details = %v, want %s", resp.Error.Details, tt.field)
			}
		})
	}

	w := env.do(t, http.MethodPost, RouteAnalytics+"/user_action", `{"user_id":`)
	assertStatusCode(t, w, http.StatusBadRequest)
	assertErrorResponse(t, w, "bad_request")
}

func TestAnalyticsSummary(t *testing.T) {
	env := newTestEnv(t)

	for _, body := range []string{
		`{"user_id":"u1","action_type":"view","item_id":"tiramisu"}`,
		`{"user_id":"u2","action_type":"view","item_id":"tiramisu"}`,
		`{"user_id":"u2","action_type":"view","item_id":"ayran"}`,
		`{"user_id":"u1","action_type":"add_to_cart","item_id":"ayran"}`,
		`{"user_id":"u1","action_type":"order","item_id":"ayran"}`,
	} {
		w := env.do(t, http.MethodPost, RouteAnalytics+"/user_action", body)
		assertStatusCode(t, w, http.StatusCreated)
	}

	w := env.do(t, http.MethodGet, RouteAnalytics+"/summary", "")
	assertStatusCode(t, w, http.StatusOK)
	summary := unmarshalData[model.AnalyticsSummary](t, w)
	if len(summary.TopViewed) != 2 || summary.TopViewed[0] != (model.ItemViews{ItemID: "tiramisu", Views: 2}) {
		t.Errorf("top_viewed = %+v", summary.TopViewed)
	}
	if len(summary.TopAddedToCart) != 1 || summary.TopAddedToCart[0].ItemID != "ayran" {
		t.Errorf("top_added_to_cart = %+v", summary.TopAddedToCart)
	}
	if len(summary.TopOrdered) != 1 || summary.TopOrdered[0].Orders != 1 {
		t.Errorf("top_ordered = %+v", summary.TopOrdered)
	}
	// httptest sends no User-Agent
	if len(summary.Clients) != 1 || summary.Clients[0] != (model.ClientCount{ClientType: model.ClientUnknown, Actions: 5}) {
		t.Errorf("clients = %+v", summary.Clients)
	}

	w = env.do(t, http.MethodGet, RouteAnalytics+"/summary?limit=1", "")
	assertStatusCode(t, w, http.StatusOK)
	limited := unmarshalData[model.AnalyticsSummary](t, w)
	if len(limited.TopViewed) != 1 {
		t.Errorf("limit=1 top_viewed = %+v", limited.TopViewed)
	}
}
