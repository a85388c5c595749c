// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Command omenu-evolve adds the per-language columns to the menu tables
// and copies the base names and descriptions into the English columns.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/olegiv/omenu/internal/config"
	"github.com/olegiv/omenu/internal/schema"
	"github.com/olegiv/omenu/internal/store"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		var serr *schema.SchemaEvolutionError
		if errors.As(err, &serr) {
			_, _ = fmt.Fprintf(os.Stderr, "schema evolution failed on %s.%s, nothing was changed: %v\n", serr.Table, serr.Column, serr.Err)
		} else {
			_, _ = fmt.Fprintf(os.Stderr, "omenu-evolve: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	fs := flag.NewFlagSet("omenu-evolve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	dbPath := fs.String("db", cfg.DBPath, "SQLite database path")
	check := fs.Bool("check", false, "Only report missing columns; exit non-zero when any are missing")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	db, err := store.NewDB(*dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	if *check {
		return report(ctx, db, stdout)
	}

	results, err := schema.NewEvolver(db, logger).EvolveAll(ctx)
	for _, res := range results {
		_, _ = fmt.Fprintf(stdout, "%s: added %d columns, migrated %d rows\n", res.Table, res.ColumnsAdded, res.RowsMigrated)
	}
	return err
}

// report prints the missing columns of each table.
func report(ctx context.Context, db *sql.DB, stdout io.Writer) error {
	caps, err := schema.Probe(ctx, db)
	if err != nil {
		return err
	}
	for _, t := range schema.Tables {
		missing := caps.Missing(t)
		if len(missing) == 0 {
			_, _ = fmt.Fprintf(stdout, "%s: up to date\n", t)
			continue
		}
		_, _ = fmt.Fprintf(stdout, "%s: missing %d columns (%s)\n", t, len(missing), strings.Join(missing, ", "))
	}
	if !caps.Evolved() {
		return errors.New("schema is not evolved")
	}
	return nil
}
