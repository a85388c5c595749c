// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/olegiv/omenu/internal/schema"
	"github.com/olegiv/omenu/internal/translate"
)

func (q *Queries) categorySelect() string {
	return "SELECT c.id, c.name, c.description, c.image_url, " +
		q.caps.SelectColumns(schema.Categories, "c") +
		" FROM categories c"
}

func scanCategory(row rowScanner) (Category, error) {
	var c Category
	tr := newTranslationScan()
	dest := append([]any{&c.ID, &c.Name, &c.Description, &c.ImageURL}, tr.dest()...)
	if err := row.Scan(dest...); err != nil {
		return Category{}, err
	}
	c.Translations = tr.columns()
	return c, nil
}

// ListCategories returns all categories ordered by id.
func (q *Queries) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := q.db.QueryContext(ctx, q.categorySelect()+" ORDER BY c.id")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// GetCategory returns one category. It returns sql.ErrNoRows when absent.
func (q *Queries) GetCategory(ctx context.Context, id string) (Category, error) {
	return scanCategory(q.db.QueryRowContext(ctx, q.categorySelect()+" WHERE c.id = ?", id))
}

// CountCategories returns the number of categories.
func (q *Queries) CountCategories(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories").Scan(&n)
	return n, err
}

// CreateCategoryParams holds the fields of a new category.
type CreateCategoryParams struct {
	ID           string
	Name         string
	Description  string
	ImageURL     string
	Translations translate.Columns
}

// CreateCategory inserts a category.
func (q *Queries) CreateCategory(ctx context.Context, arg CreateCategoryParams) error {
	cols := []string{"id", "name", "description", "image_url"}
	args := []any{arg.ID, arg.Name, arg.Description, arg.ImageURL}

	trCols, trArgs := q.translationWrites(schema.Categories, arg.Translations)
	cols = append(cols, trCols...)
	args = append(args, trArgs...)

	query := fmt.Sprintf("INSERT INTO categories (%s) VALUES (%s)", strings.Join(cols, ", "), placeholders(len(cols)))
	_, err := q.db.ExecContext(ctx, query, args...)
	return err
}

// UpdateCategoryParams holds the new state of a category. A nil
// Translations leaves the per-language columns untouched.
type UpdateCategoryParams struct {
	ID           string
	Name         string
	Description  string
	ImageURL     string
	Translations translate.Columns
}

// UpdateCategory updates a category and returns the number of rows changed.
func (q *Queries) UpdateCategory(ctx context.Context, arg UpdateCategoryParams) (int64, error) {
	cols := []string{"name", "description", "image_url"}
	args := []any{arg.Name, arg.Description, arg.ImageURL}

	trCols, trArgs := q.translationWrites(schema.Categories, arg.Translations)
	cols = append(cols, trCols...)
	args = append(args, trArgs...)
	args = append(args, arg.ID)

	query := fmt.Sprintf("UPDATE categories SET %s WHERE id = ?", assignments(cols))
	return rowsAffected(q.db.ExecContext(ctx, query, args...))
}

// DeleteCategory deletes a category and returns the number of rows removed.
func (q *Queries) DeleteCategory(ctx context.Context, id string) (int64, error) {
	return rowsAffected(q.db.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id))
}

// CountMenuItemsByCategory returns the number of items in a category.
func (q *Queries) CountMenuItemsByCategory(ctx context.Context, categoryID string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM menu_items WHERE category_id = ?", categoryID).Scan(&n)
	return n, err
}
