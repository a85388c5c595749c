// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers for the oMenu project.
package testutil

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"testing"

	"github.com/olegiv/omenu/internal/schema"
	"github.com/olegiv/omenu/internal/store"

	_ "github.com/mattn/go-sqlite3"
)

// TestLogger creates a quiet test logger that only outputs warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// TestDB creates a temporary test database with migrations applied. The
// menu tables are in their pre-multilingual shape.
// Returns the database and a cleanup function that should be deferred.
func TestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "omenu-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()

	db, err := store.NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		t.Fatalf("Migrate: %v", err)
	}

	return db, func() { _ = db.Close() }
}

// MemoryDB opens a migrated in-memory database on the mattn/go-sqlite3
// driver. It is pinned to one connection so every query sees the same
// database, and closed when the test ends.
func MemoryDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("opening memory db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("enabling foreign keys: %v", err)
	}
	if err := store.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

// Evolve adds the per-language columns to db and returns its capabilities.
func Evolve(t *testing.T, db *sql.DB) schema.Capabilities {
	t.Helper()

	ctx := context.Background()
	if _, err := schema.NewEvolver(db, TestLogger()).EvolveAll(ctx); err != nil {
		t.Fatalf("EvolveAll: %v", err)
	}
	caps, err := schema.Probe(ctx, db)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	return caps
}

// EvolvedMemoryDB returns an evolved in-memory database and its queries.
func EvolvedMemoryDB(t *testing.T) (*sql.DB, *store.Queries) {
	t.Helper()

	db := MemoryDB(t)
	caps := Evolve(t, db)
	return db, store.New(db).WithCapabilities(caps)
}
