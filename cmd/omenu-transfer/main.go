// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Command omenu-transfer exports the menu to JSON, CSV, Markdown or HTML
// files and imports JSON or CSV documents back.
//
//	omenu-transfer export -format csv -dir ./backup
//	omenu-transfer import -file menu_export.json -strategy overwrite -dry-run
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/olegiv/omenu/internal/config"
	"github.com/olegiv/omenu/internal/model"
	"github.com/olegiv/omenu/internal/schema"
	"github.com/olegiv/omenu/internal/store"
	"github.com/olegiv/omenu/internal/transfer"
)

const usage = `Usage: omenu-transfer <command> [options]

Commands:
  export   Write the menu into a directory
  import   Load a JSON document or CSV files into the menu

Run "omenu-transfer <command> -h" for the options of a command.
`

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			_, _ = fmt.Fprintf(os.Stderr, "omenu-transfer: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	_ = godotenv.Load()

	if len(args) == 0 {
		_, _ = fmt.Fprint(stderr, usage)
		return errors.New("missing command")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	switch args[0] {
	case "export":
		return runExport(ctx, cfg, args[1:], stdout, stderr, logger)
	case "import":
		return runImport(ctx, cfg, args[1:], stdout, stderr, logger)
	case "-h", "-help", "--help", "help":
		_, _ = fmt.Fprint(stdout, usage)
		return nil
	}
	_, _ = fmt.Fprint(stderr, usage)
	return fmt.Errorf("unknown command %q", args[0])
}

// openQueries opens the database and probes its schema.
func openQueries(ctx context.Context, path string) (*sql.DB, *store.Queries, error) {
	db, err := store.NewDB(path)
	if err != nil {
		return nil, nil, err
	}
	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("running migrations: %w", err)
	}
	caps, err := schema.Probe(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return db, store.New(db).WithCapabilities(caps), nil
}

func runExport(ctx context.Context, cfg *config.Config, args []string, stdout, stderr io.Writer, logger *slog.Logger) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(stderr)
	dbPath := fs.String("db", cfg.DBPath, "SQLite database path")
	formatName := fs.String("format", "json", "Export format: json, csv, md or html")
	dir := fs.String("dir", ".", "Output directory")
	langName := fs.String("language", string(model.CanonicalLanguage), "Display language of md and html exports")
	if err := fs.Parse(args); err != nil {
		return err
	}

	format, err := transfer.ParseFormat(*formatName)
	if err != nil {
		return err
	}
	lang, ok := model.ParseLanguage(*langName)
	if !ok {
		return fmt.Errorf("unsupported language %q", *langName)
	}

	db, queries, err := openQueries(ctx, *dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	paths, err := transfer.NewExporter(queries, logger).ExportToDir(ctx, *dir, format, lang)
	if err != nil {
		return err
	}
	for _, p := range paths {
		_, _ = fmt.Fprintln(stdout, p)
	}
	return nil
}

func runImport(ctx context.Context, cfg *config.Config, args []string, stdout, stderr io.Writer, logger *slog.Logger) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	fs.SetOutput(stderr)
	dbPath := fs.String("db", cfg.DBPath, "SQLite database path")
	file := fs.String("file", "", "JSON document to import")
	categoriesCSV := fs.String("categories", "", "Categories CSV file")
	itemsCSV := fs.String("items", "", "Menu items CSV file")
	strategyName := fs.String("strategy", "skip", "What to do with existing ids: skip or overwrite")
	dryRun := fs.Bool("dry-run", false, "Validate and roll back without writing")
	if err := fs.Parse(args); err != nil {
		return err
	}

	strategy, err := transfer.ParseConflictStrategy(*strategyName)
	if err != nil {
		return err
	}
	if *file == "" && *categoriesCSV == "" && *itemsCSV == "" {
		return errors.New("nothing to import: set -file or -categories/-items")
	}
	if *file != "" && (*categoriesCSV != "" || *itemsCSV != "") {
		return errors.New("-file cannot be combined with CSV files")
	}

	db, queries, err := openQueries(ctx, *dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	importer := transfer.NewImporter(db, queries, logger)
	opts := transfer.ImportOptions{ConflictStrategy: strategy, DryRun: *dryRun}

	var result *transfer.ImportResult
	if *file != "" {
		f, err := os.Open(*file)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		result, err = importer.ImportJSON(ctx, f, opts)
		if perr := printResult(stdout, result); perr != nil {
			return perr
		}
		return err
	}

	var categories, items io.Reader
	for _, src := range []struct {
		path string
		dst  *io.Reader
	}{{*categoriesCSV, &categories}, {*itemsCSV, &items}} {
		if src.path == "" {
			continue
		}
		f, err := os.Open(src.path)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		*src.dst = f
	}
	result, err = importer.ImportCSV(ctx, categories, items, opts)
	if perr := printResult(stdout, result); perr != nil {
		return perr
	}
	return err
}

// printResult writes result as indented JSON. A nil result prints nothing.
func printResult(w io.Writer, result *transfer.ImportResult) error {
	if result == nil {
		return nil
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
