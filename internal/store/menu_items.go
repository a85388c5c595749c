// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/olegiv/omenu/internal/model"
	"github.com/olegiv/omenu/internal/schema"
	"github.com/olegiv/omenu/internal/translate"
)

func (q *Queries) menuItemSelect() string {
	return "SELECT m.id, m.name, m.description, m.category_id, m.price, m.image_url, " +
		"m.available, m.popular, m.preparation_time, m.created_at, m.updated_at, " +
		q.caps.SelectColumns(schema.MenuItems, "m") + ", " +
		"c.name, " + q.caps.SelectColumns(schema.Categories, "c") + ", " +
		"d.allergens, d.ingredients, d.nutrition " +
		"FROM menu_items m " +
		"LEFT JOIN categories c ON c.id = m.category_id " +
		"LEFT JOIN item_details d ON d.item_id = m.id"
}

func scanMenuItem(row rowScanner) (MenuItem, error) {
	var m MenuItem
	itemTr := newTranslationScan()
	catTr := newTranslationScan()

	dest := []any{
		&m.ID, &m.Name, &m.Description, &m.CategoryID, &m.Price, &m.ImageURL,
		&m.Available, &m.Popular, &m.PreparationTime, &m.CreatedAt, &m.UpdatedAt,
	}
	dest = append(dest, itemTr.dest()...)
	dest = append(dest, &m.CategoryName)
	dest = append(dest, catTr.dest()...)
	dest = append(dest, &m.Allergens, &m.Ingredients, &m.Nutrition)

	if err := row.Scan(dest...); err != nil {
		return MenuItem{}, err
	}
	m.Translations = itemTr.columns()
	m.CategoryTranslations = catTr.columns()
	return m, nil
}

// ListMenuItemsParams filters ListMenuItems. Zero values disable a filter.
type ListMenuItemsParams struct {
	CategoryID    string
	AvailableOnly bool
	PopularOnly   bool
	// Search matches base fields, the SearchLanguage columns and the
	// category base name. Results are then ordered by popularity and name.
	Search         string
	SearchLanguage string
	Limit          int
}

// ListMenuItems returns menu items matching arg.
func (q *Queries) ListMenuItems(ctx context.Context, arg ListMenuItemsParams) ([]MenuItem, error) {
	var (
		where []string
		args  []any
	)
	if arg.CategoryID != "" {
		where = append(where, "m.category_id = ?")
		args = append(args, arg.CategoryID)
	}
	if arg.AvailableOnly {
		where = append(where, "m.available = 1")
	}
	if arg.PopularOnly {
		where = append(where, "m.popular = 1")
	}
	if arg.Search != "" {
		term := "%" + arg.Search + "%"
		fields := []string{"m.name", "m.description"}
		cols := model.ColumnsFor(arg.SearchLanguage)
		for _, c := range []string{cols.Name, cols.Description} {
			if q.caps.Has(schema.MenuItems, c) {
				fields = append(fields, "m."+c)
			}
		}
		fields = append(fields, "c.name")

		like := make([]string, len(fields))
		for i, f := range fields {
			like[i] = f + " LIKE ?"
			args = append(args, term)
		}
		where = append(where, "("+strings.Join(like, " OR ")+")")
	}

	query := q.menuItemSelect()
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	if arg.Search != "" {
		query += " ORDER BY m.popular DESC, m.name ASC"
	} else {
		query += " ORDER BY m.category_id, m.id"
	}
	if arg.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, arg.Limit)
	}

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []MenuItem
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

// GetMenuItem returns one menu item. It returns sql.ErrNoRows when absent.
func (q *Queries) GetMenuItem(ctx context.Context, id string) (MenuItem, error) {
	return scanMenuItem(q.db.QueryRowContext(ctx, q.menuItemSelect()+" WHERE m.id = ?", id))
}

// MenuItemParams holds the stored fields of a menu item. A nil
// Translations leaves the per-language columns untouched on update.
type MenuItemParams struct {
	ID              string
	Name            string
	Description     string
	CategoryID      string
	Price           float64
	ImageURL        string
	Available       bool
	Popular         bool
	PreparationTime int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Translations    translate.Columns
}

// CreateMenuItem inserts a menu item.
func (q *Queries) CreateMenuItem(ctx context.Context, arg MenuItemParams) error {
	cols := []string{
		"id", "name", "description", "category_id", "price", "image_url",
		"available", "popular", "preparation_time", "created_at", "updated_at",
	}
	args := []any{
		arg.ID, arg.Name, arg.Description, arg.CategoryID, arg.Price, arg.ImageURL,
		arg.Available, arg.Popular, arg.PreparationTime, arg.CreatedAt, arg.UpdatedAt,
	}

	trCols, trArgs := q.translationWrites(schema.MenuItems, arg.Translations)
	cols = append(cols, trCols...)
	args = append(args, trArgs...)

	query := fmt.Sprintf("INSERT INTO menu_items (%s) VALUES (%s)", strings.Join(cols, ", "), placeholders(len(cols)))
	_, err := q.db.ExecContext(ctx, query, args...)
	return err
}

// UpdateMenuItem updates a menu item and returns the number of rows changed.
// CreatedAt is not modified.
func (q *Queries) UpdateMenuItem(ctx context.Context, arg MenuItemParams) (int64, error) {
	cols := []string{
		"name", "description", "category_id", "price", "image_url",
		"available", "popular", "preparation_time", "updated_at",
	}
	args := []any{
		arg.Name, arg.Description, arg.CategoryID, arg.Price, arg.ImageURL,
		arg.Available, arg.Popular, arg.PreparationTime, arg.UpdatedAt,
	}

	trCols, trArgs := q.translationWrites(schema.MenuItems, arg.Translations)
	cols = append(cols, trCols...)
	args = append(args, trArgs...)
	args = append(args, arg.ID)

	query := fmt.Sprintf("UPDATE menu_items SET %s WHERE id = ?", assignments(cols))
	return rowsAffected(q.db.ExecContext(ctx, query, args...))
}

// DeleteMenuItem deletes a menu item and returns the number of rows removed.
func (q *Queries) DeleteMenuItem(ctx context.Context, id string) (int64, error) {
	return rowsAffected(q.db.ExecContext(ctx, "DELETE FROM menu_items WHERE id = ?", id))
}

// CountMenuItems returns the number of menu items.
func (q *Queries) CountMenuItems(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM menu_items").Scan(&n)
	return n, err
}

// UpsertItemDetails stores the details of an item, replacing earlier ones.
func (q *Queries) UpsertItemDetails(ctx context.Context, arg ItemDetails) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO item_details (item_id, allergens, ingredients, nutrition)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(item_id) DO UPDATE SET
			allergens = excluded.allergens,
			ingredients = excluded.ingredients,
			nutrition = excluded.nutrition`,
		arg.ItemID, arg.Allergens, arg.Ingredients, arg.Nutrition,
	)
	return err
}

// DeleteItemDetails removes the details of an item.
func (q *Queries) DeleteItemDetails(ctx context.Context, itemID string) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM item_details WHERE item_id = ?", itemID)
	return err
}
