// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a slog handler that copies WARN and ERROR
// records into the events table, where GET /api/admin/events lists them.
package logging

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/olegiv/omenu/internal/model"
	"github.com/olegiv/omenu/internal/store"
)

// CategoryKey is the attribute that sets an event's category explicitly.
const CategoryKey = "category"

// categoryHints map message words to event categories, checked in order.
var categoryHints = []struct {
	category string
	words    []string
}{
	{model.EventCategorySchema, []string{"schema", "column", "evolv", "translation", "coverage", "migrat"}},
	{model.EventCategoryImport, []string{"import", "export"}},
	{model.EventCategoryChat, []string{"chat", "conversation", "message"}},
	{model.EventCategoryCache, []string{"cache", "redis"}},
	{model.EventCategoryMenu, []string{"menu", "category", "item", "pairing"}},
}

// EventLogHandler wraps another handler and also stores records at or
// above its level as events.
type EventLogHandler struct {
	inner   slog.Handler
	queries *store.Queries
	level   slog.Level
	attrs   []slog.Attr
	group   string
}

// NewEventLogHandler stores WARN and ERROR records.
func NewEventLogHandler(inner slog.Handler, db *sql.DB) *EventLogHandler {
	return NewEventLogHandlerWithLevel(inner, db, slog.LevelWarn)
}

// NewEventLogHandlerWithLevel stores records at or above level.
func NewEventLogHandlerWithLevel(inner slog.Handler, db *sql.DB, level slog.Level) *EventLogHandler {
	return &EventLogHandler{
		inner:   inner,
		queries: store.New(db),
		level:   level,
	}
}

// Enabled implements slog.Handler.
func (h *EventLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *EventLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}
	if r.Level >= h.level {
		h.store(r)
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *EventLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := h.clone()
	c.inner = h.inner.WithAttrs(attrs)
	for _, a := range attrs {
		c.attrs = append(c.attrs, slog.Attr{Key: h.qualify(a.Key), Value: a.Value})
	}
	return c
}

// WithGroup implements slog.Handler.
func (h *EventLogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := h.clone()
	c.inner = h.inner.WithGroup(name)
	c.group = h.qualify(name)
	return c
}

func (h *EventLogHandler) clone() *EventLogHandler {
	return &EventLogHandler{
		inner:   h.inner,
		queries: h.queries,
		level:   h.level,
		attrs:   append([]slog.Attr(nil), h.attrs...),
		group:   h.group,
	}
}

func (h *EventLogHandler) qualify(key string) string {
	if h.group == "" {
		return key
	}
	return h.group + "." + key
}

// store writes r to the events table, detached from the request context.
// Write failures are dropped.
func (h *EventLogHandler) store(r slog.Record) {
	category := ""
	meta := make(map[string]string, len(h.attrs)+r.NumAttrs())
	collect := func(a slog.Attr) {
		if a.Key == CategoryKey {
			category = a.Value.String()
			return
		}
		meta[a.Key] = a.Value.String()
	}
	for _, a := range h.attrs {
		collect(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		collect(slog.Attr{Key: h.qualify(a.Key), Value: a.Value})
		return true
	})
	if category == "" {
		category = InferCategory(r.Message)
	}

	metadata := "{}"
	if len(meta) > 0 {
		if b, err := json.Marshal(meta); err == nil {
			metadata = string(b)
		}
	}

	_, _ = h.queries.CreateEvent(context.Background(), store.CreateEventParams{
		Level:     EventLevel(r.Level),
		Category:  category,
		Message:   r.Message,
		Metadata:  metadata,
		CreatedAt: r.Time.UTC(),
	})
}

// EventLevel maps a slog level to an event level.
func EventLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return model.EventLevelError
	case level >= slog.LevelWarn:
		return model.EventLevelWarning
	default:
		return model.EventLevelInfo
	}
}

// InferCategory guesses an event category from a log message.
func InferCategory(msg string) string {
	msg = strings.ToLower(msg)
	for _, hint := range categoryHints {
		for _, w := range hint.words {
			if strings.Contains(msg, w) {
				return hint.category
			}
		}
	}
	return model.EventCategorySystem
}
