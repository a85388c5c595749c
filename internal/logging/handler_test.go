// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/olegiv/omenu/internal/model"
	"github.com/olegiv/omenu/internal/store"
	"github.com/olegiv/omenu/internal/testutil"
)

// discardHandler is a slog.Handler that discards all logs.
type discardHandler struct{}

func (h discardHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (h discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return h }
func (h discardHandler) WithGroup(string) slog.Handler             { return h }

func listEvents(t *testing.T, db *sql.DB) []store.Event {
	t.Helper()
	events, err := store.New(db).ListEvents(context.Background(), store.ListEventsParams{Limit: 100})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	return events
}

func TestEventLogHandler_Levels(t *testing.T) {
	tests := []struct {
		name      string
		threshold slog.Level
		level     slog.Level
		wantLevel string // empty means not stored
	}{
		{"error", slog.LevelWarn, slog.LevelError, model.EventLevelError},
		{"warn", slog.LevelWarn, slog.LevelWarn, model.EventLevelWarning},
		{"info skipped", slog.LevelWarn, slog.LevelInfo, ""},
		{"debug skipped", slog.LevelWarn, slog.LevelDebug, ""},
		{"custom threshold", slog.LevelInfo, slog.LevelInfo, model.EventLevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testutil.MemoryDB(t)
			logger := slog.New(NewEventLogHandlerWithLevel(discardHandler{}, db, tt.threshold))
			logger.Log(context.Background(), tt.level, "something happened")

			events := listEvents(t, db)
			if tt.wantLevel == "" {
				if len(events) != 0 {
					t.Errorf("expected no events, got %d", len(events))
				}
				return
			}
			if len(events) != 1 {
				t.Fatalf("expected 1 event, got %d", len(events))
			}
			if events[0].Level != tt.wantLevel {
				t.Errorf("level = %q, want %q", events[0].Level, tt.wantLevel)
			}
			if events[0].Message != "something happened" {
				t.Errorf("message = %q", events[0].Message)
			}
		})
	}
}

func TestEventLogHandler_Metadata(t *testing.T) {
	db := testutil.MemoryDB(t)
	logger := slog.New(NewEventLogHandler(discardHandler{}, db)).
		With("request_id", "abc").
		WithGroup("audit")

	logger.Warn("translation gap", "language", "hi", "missing", 3)

	events := listEvents(t, db)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	var meta map[string]string
	if err := json.Unmarshal([]byte(events[0].Metadata), &meta); err != nil {
		t.Fatalf("metadata is not JSON: %v (%s)", err, events[0].Metadata)
	}
	want := map[string]string{"request_id": "abc", "audit.language": "hi", "audit.missing": "3"}
	for k, v := range want {
		if meta[k] != v {
			t.Errorf("metadata[%q] = %q, want %q", k, meta[k], v)
		}
	}
	if events[0].Category != model.EventCategorySchema {
		t.Errorf("category = %q, want schema", events[0].Category)
	}
}

func TestEventLogHandler_ExplicitCategory(t *testing.T) {
	db := testutil.MemoryDB(t)
	logger := slog.New(NewEventLogHandler(discardHandler{}, db))

	logger.Error("boom", CategoryKey, model.EventCategoryChat)

	events := listEvents(t, db)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Category != model.EventCategoryChat {
		t.Errorf("category = %q, want chat", events[0].Category)
	}
	if events[0].Metadata != "{}" {
		t.Errorf("metadata = %q, want {}", events[0].Metadata)
	}
}

func TestInferCategory(t *testing.T) {
	tests := []struct {
		msg  string
		want string
	}{
		{"schema evolution failed", model.EventCategorySchema},
		{"translation coverage gap", model.EventCategorySchema},
		{"import rejected", model.EventCategoryImport},
		{"Chat reply failed", model.EventCategoryChat},
		{"redis unavailable, using memory cache", model.EventCategoryCache},
		{"menu item created", model.EventCategoryMenu},
		{"server shutting down", model.EventCategorySystem},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			if got := InferCategory(tt.msg); got != tt.want {
				t.Errorf("InferCategory(%q) = %q, want %q", tt.msg, got, tt.want)
			}
		})
	}
}

func TestEventLevel(t *testing.T) {
	if got := EventLevel(slog.LevelError + 4); got != model.EventLevelError {
		t.Errorf("EventLevel(error+4) = %q", got)
	}
	if got := EventLevel(slog.LevelDebug); got != model.EventLevelInfo {
		t.Errorf("EventLevel(debug) = %q", got)
	}
}
