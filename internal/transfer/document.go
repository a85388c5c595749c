// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/olegiv/omenu/internal/model"
	"github.com/olegiv/omenu/internal/translate"
	"github.com/olegiv/omenu/internal/util"
)

// markdown renders exported documents. Raw HTML in menu text is escaped
// before rendering and the renderer leaves unsafe HTML out.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.Table),
	goldmark.WithParserOptions(parser.WithAttribute()),
)

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", "*", `\*`, "_", `\_`, "[", `\[`, "]", `\]`,
	"<", "&lt;", ">", "&gt;", "#", `\#`, "|", `\|`, "{", `\{`, "}", `\}`,
	"\r\n", " ", "\n", " ",
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// localized returns the name and description of a record in lang, falling
// back to the base values.
func localized(name, desc string, t translate.Translations, lang model.LanguageCode) (string, string) {
	e, ok := t[string(lang)]
	if !ok {
		return name, desc
	}
	if e.Name != nil && *e.Name != "" {
		name = *e.Name
	}
	if e.Description != nil && *e.Description != "" {
		desc = *e.Description
	}
	return name, desc
}

func categoryAnchor(c ExportCategory, i int) string {
	if a := util.Slugify(c.ID); a != "" {
		return "category-" + a
	}
	return "category-" + strconv.Itoa(i+1)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// RenderMarkdown writes data as a Markdown menu in lang. Items are grouped
// under their category in category order. Items of unknown categories are
// listed last.
func RenderMarkdown(w io.Writer, data *ExportData, lang model.LanguageCode) error {
	var b strings.Builder

	b.WriteString("# Menu\n\n")
	fmt.Fprintf(&b, "**Export Date:** %s\n\n", data.ExportedAt.UTC().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "**Language:** %s\n\n", lang)
	b.WriteString("**Statistics:**\n\n")
	fmt.Fprintf(&b, "- Categories: %d\n", len(data.Categories))
	fmt.Fprintf(&b, "- Menu Items: %d\n\n", len(data.Items))
	b.WriteString("---\n\n")

	byCategory := make(map[string][]ExportItem)
	for _, it := range data.Items {
		byCategory[it.CategoryID] = append(byCategory[it.CategoryID], it)
	}

	b.WriteString("## Table of Contents\n\n")
	for i, c := range data.Categories {
		name, _ := localized(c.Name, c.Description, c.Translations, lang)
		fmt.Fprintf(&b, "- [%s](#%s)\n", escapeMarkdown(name), categoryAnchor(c, i))
	}
	b.WriteString("\n---\n\n")

	known := make(map[string]bool, len(data.Categories))
	for i, c := range data.Categories {
		known[c.ID] = true
		name, desc := localized(c.Name, c.Description, c.Translations, lang)
		fmt.Fprintf(&b, "## %s {#%s}\n\n", escapeMarkdown(name), categoryAnchor(c, i))
		if desc != "" {
			fmt.Fprintf(&b, "%s\n\n", escapeMarkdown(desc))
		}
		for _, it := range byCategory[c.ID] {
			writeMarkdownItem(&b, it, lang)
		}
	}

	var orphans []ExportItem
	for _, it := range data.Items {
		if !known[it.CategoryID] {
			orphans = append(orphans, it)
		}
	}
	if len(orphans) > 0 {
		b.WriteString("## Other {#category-other}\n\n")
		for _, it := range orphans {
			writeMarkdownItem(&b, it, lang)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeMarkdownItem(b *strings.Builder, it ExportItem, lang model.LanguageCode) {
	name, desc := localized(it.Name, it.Description, it.Translations, lang)

	fmt.Fprintf(b, "### %s\n\n", escapeMarkdown(name))
	b.WriteString("| Property | Value |\n")
	b.WriteString("|----------|-------|\n")
	fmt.Fprintf(b, "| **Price** | $%.2f |\n", it.Price)
	fmt.Fprintf(b, "| **Available** | %s |\n", yesNo(it.Available))
	fmt.Fprintf(b, "| **Popular** | %s |\n", yesNo(it.Popular))
	fmt.Fprintf(b, "| **Preparation Time** | %d minutes |\n", it.PreparationTime)
	if desc != "" {
		fmt.Fprintf(b, "| **Description** | %s |\n", escapeMarkdown(desc))
	}
	if len(it.Allergens) > 0 {
		fmt.Fprintf(b, "| **Allergens** | %s |\n", escapeMarkdown(strings.Join(it.Allergens, ", ")))
	}
	fmt.Fprintf(b, "| **Item ID** | %s |\n", escapeMarkdown(it.ID))
	b.WriteString("\n---\n\n")
}

// RenderHTML writes data as a standalone HTML page in lang.
func RenderHTML(w io.Writer, data *ExportData, lang model.LanguageCode) error {
	var md bytes.Buffer
	if err := RenderMarkdown(&md, data, lang); err != nil {
		return err
	}
	var body bytes.Buffer
	if err := markdown.Convert(md.Bytes(), &body); err != nil {
		return fmt.Errorf("rendering markdown: %w", err)
	}

	dir := model.DirectionLTR
	for _, l := range model.Languages {
		if l.Code == lang {
			dir = l.Direction
		}
	}

	_, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="%s" dir="%s">
<head>
<meta charset="utf-8">
<title>Menu</title>
</head>
<body>
%s</body>
</html>
`, html.EscapeString(string(lang)), dir, body.String())
	return err
}

// WriteMarkdown exports the menu and writes it as Markdown in lang.
func (e *Exporter) WriteMarkdown(ctx context.Context, w io.Writer, lang model.LanguageCode) error {
	data, err := e.Export(ctx)
	if err != nil {
		return err
	}
	return RenderMarkdown(w, data, lang)
}

// WriteHTML exports the menu and writes it as HTML in lang.
func (e *Exporter) WriteHTML(ctx context.Context, w io.Writer, lang model.LanguageCode) error {
	data, err := e.Export(ctx)
	if err != nil {
		return err
	}
	return RenderHTML(w, data, lang)
}
