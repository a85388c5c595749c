// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olegiv/omenu/internal/model"
	"github.com/olegiv/omenu/internal/translate"
)

// csvLanguages is the column order of the per-language CSV columns.
var csvLanguages = []model.LanguageCode{
	model.LangEN, model.LangAZ, model.LangRU, model.LangTR,
	model.LangAR, model.LangHI, model.LangFR, model.LangIT,
}

func nameHeader(code model.LanguageCode) string {
	return "Name " + strings.ToUpper(string(code))
}

func descriptionHeader(code model.LanguageCode) string {
	return "Description " + strings.ToUpper(string(code))
}

func translationHeaders() []string {
	h := make([]string, 0, 2*len(csvLanguages))
	for _, code := range csvLanguages {
		h = append(h, nameHeader(code))
	}
	for _, code := range csvLanguages {
		h = append(h, descriptionHeader(code))
	}
	return h
}

func translationCells(t translate.Translations) []string {
	cells := make([]string, 0, 2*len(csvLanguages))
	for _, code := range csvLanguages {
		cells = append(cells, deref(t[string(code)].Name))
	}
	for _, code := range csvLanguages {
		cells = append(cells, deref(t[string(code)].Description))
	}
	return cells
}

// CategoryCSVHeaders returns the header row of the categories CSV.
func CategoryCSVHeaders() []string {
	return append([]string{"ID", "Name", "Description", "Image URL"}, translationHeaders()...)
}

// ItemCSVHeaders returns the header row of the menu items CSV.
func ItemCSVHeaders() []string {
	h := []string{
		"ID", "Name", "Description", "Category ID", "Category Name", "Price",
		"Available", "Image URL", "Popular", "Preparation Time",
	}
	h = append(h, translationHeaders()...)
	return append(h, "Created At", "Updated At")
}

// WriteCategoriesCSV writes the categories of data as CSV.
func WriteCategoriesCSV(w io.Writer, data *ExportData) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CategoryCSVHeaders()); err != nil {
		return err
	}
	for _, c := range data.Categories {
		row := append([]string{c.ID, c.Name, c.Description, c.ImageURL}, translationCells(c.Translations)...)
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteItemsCSV writes the menu items of data as CSV.
func WriteItemsCSV(w io.Writer, data *ExportData) error {
	categoryNames := make(map[string]string, len(data.Categories))
	for _, c := range data.Categories {
		categoryNames[c.ID] = c.Name
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(ItemCSVHeaders()); err != nil {
		return err
	}
	for _, it := range data.Items {
		row := []string{
			it.ID, it.Name, it.Description, it.CategoryID, categoryNames[it.CategoryID],
			strconv.FormatFloat(it.Price, 'f', -1, 64),
			boolCell(it.Available), it.ImageURL, boolCell(it.Popular),
			strconv.FormatInt(it.PreparationTime, 10),
		}
		row = append(row, translationCells(it.Translations)...)
		row = append(row, timeCell(it.CreatedAt), timeCell(it.UpdatedAt))
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// csvTable is a parsed CSV file with its header index.
type csvTable struct {
	name    string
	columns map[string]int
	rows    [][]string
}

func readTable(name string, r io.Reader, required ...string) (*csvTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s csv is empty", name)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s csv header: %w", name, err)
	}

	t := &csvTable{name: name, columns: make(map[string]int, len(header))}
	for i, h := range header {
		t.columns[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, col := range required {
		if _, ok := t.columns[col]; !ok {
			return nil, fmt.Errorf("%s csv is missing column %q", name, col)
		}
	}

	t.rows, err = cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s csv: %w", name, err)
	}
	return t, nil
}

func (t *csvTable) cell(row []string, col string) string {
	i, ok := t.columns[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (t *csvTable) translations(row []string) translate.Translations {
	out := translate.Translations{}
	for _, code := range csvLanguages {
		var e translate.Entry
		if v := t.cell(row, nameHeader(code)); v != "" {
			e.Name = &v
		}
		if v := t.cell(row, descriptionHeader(code)); v != "" {
			e.Description = &v
		}
		if e.Name != nil || e.Description != nil {
			out[string(code)] = e
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// ReadCSV parses a categories CSV and a menu items CSV into an ExportData.
// Columns are matched by header name. Either reader may be nil. Empty cells
// are treated as missing values.
func ReadCSV(categories, items io.Reader) (*ExportData, error) {
	data := &ExportData{
		Version:    ExportVersion,
		Categories: []ExportCategory{},
		Items:      []ExportItem{},
	}

	if categories != nil {
		t, err := readTable("categories", categories, "ID", "Name")
		if err != nil {
			return nil, err
		}
		for _, row := range t.rows {
			data.Categories = append(data.Categories, ExportCategory{
				ID:           t.cell(row, "ID"),
				Name:         t.cell(row, "Name"),
				Description:  t.cell(row, "Description"),
				ImageURL:     t.cell(row, "Image URL"),
				Translations: t.translations(row),
			})
		}
	}

	if items != nil {
		t, err := readTable("items", items, "ID", "Name", "Category ID", "Price")
		if err != nil {
			return nil, err
		}
		for n, row := range t.rows {
			it, err := t.item(row)
			if err != nil {
				return nil, fmt.Errorf("items csv line %d: %w", n+2, err)
			}
			data.Items = append(data.Items, it)
		}
	}
	return data, nil
}

func (t *csvTable) item(row []string) (ExportItem, error) {
	it := ExportItem{
		ID:           t.cell(row, "ID"),
		CategoryID:   t.cell(row, "Category ID"),
		Name:         t.cell(row, "Name"),
		Description:  t.cell(row, "Description"),
		ImageURL:     t.cell(row, "Image URL"),
		Available:    parseBoolCell(t.cell(row, "Available"), true),
		Popular:      parseBoolCell(t.cell(row, "Popular"), false),
		Translations: t.translations(row),
	}

	var err error
	if v := t.cell(row, "Price"); v != "" {
		if it.Price, err = strconv.ParseFloat(strings.TrimPrefix(v, "$"), 64); err != nil {
			return ExportItem{}, fmt.Errorf("invalid price %q", v)
		}
	}
	if v := t.cell(row, "Preparation Time"); v != "" {
		if it.PreparationTime, err = strconv.ParseInt(v, 10, 64); err != nil {
			return ExportItem{}, fmt.Errorf("invalid preparation time %q", v)
		}
	}
	if it.CreatedAt, err = parseTimeCell(t.cell(row, "Created At")); err != nil {
		return ExportItem{}, err
	}
	if it.UpdatedAt, err = parseTimeCell(t.cell(row, "Updated At")); err != nil {
		return ExportItem{}, err
	}
	return it, nil
}

func boolCell(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func parseBoolCell(s string, fallback bool) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "y":
		return true
	case "0", "false", "no", "n":
		return false
	}
	return fallback
}

func timeCell(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// csvTimeLayouts are tried in order when reading timestamps.
var csvTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimeCell(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range csvTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid timestamp %q", s)
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
