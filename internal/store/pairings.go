// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"

	"github.com/olegiv/omenu/internal/schema"
)

// CreatePairingParams holds a new pairing.
type CreatePairingParams struct {
	ItemID       string
	PairedWithID string
	Score        float64
}

// UpsertPairing stores a pairing, replacing the score of an existing one.
func (q *Queries) UpsertPairing(ctx context.Context, arg CreatePairingParams) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO item_pairings (item_id, paired_with_id, score)
		VALUES (?, ?, ?)
		ON CONFLICT(item_id, paired_with_id) DO UPDATE SET score = excluded.score`,
		arg.ItemID, arg.PairedWithID, arg.Score,
	)
	return err
}

// ListPairings returns available items paired with itemID, best score first.
func (q *Queries) ListPairings(ctx context.Context, itemID string, limit int) ([]Pairing, error) {
	query := "SELECT p.paired_with_id, p.score, m.name, m.price, m.image_url, " +
		q.caps.SelectColumns(schema.MenuItems, "m") + ", c.name, " +
		q.caps.SelectColumns(schema.Categories, "c") +
		" FROM item_pairings p" +
		" JOIN menu_items m ON m.id = p.paired_with_id" +
		" LEFT JOIN categories c ON c.id = m.category_id" +
		" WHERE p.item_id = ? AND m.available = 1" +
		" ORDER BY p.score DESC, m.name ASC LIMIT ?"

	rows, err := q.db.QueryContext(ctx, query, itemID, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []Pairing
	for rows.Next() {
		var p Pairing
		itemTr := newTranslationScan()
		catTr := newTranslationScan()

		dest := []any{&p.ItemID, &p.Score, &p.Name, &p.Price, &p.ImageURL}
		dest = append(dest, itemTr.dest()...)
		dest = append(dest, &p.CategoryName)
		dest = append(dest, catTr.dest()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		p.Translations = itemTr.columns()
		p.CategoryTranslations = catTr.columns()
		items = append(items, p)
	}
	return items, rows.Err()
}

// ListAllPairings returns every pairing ordered by item.
func (q *Queries) ListAllPairings(ctx context.Context) ([]ItemPairing, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT id, item_id, paired_with_id, score FROM item_pairings ORDER BY item_id, id")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []ItemPairing
	for rows.Next() {
		var p ItemPairing
		if err := rows.Scan(&p.ID, &p.ItemID, &p.PairedWithID, &p.Score); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

// DeletePairingsForItem removes every pairing that mentions itemID.
func (q *Queries) DeletePairingsForItem(ctx context.Context, itemID string) error {
	_, err := q.db.ExecContext(ctx,
		"DELETE FROM item_pairings WHERE item_id = ? OR paired_with_id = ?", itemID, itemID)
	return err
}

// GetPairing returns the pairing of itemID with pairedWithID. It returns
// sql.ErrNoRows when absent.
func (q *Queries) GetPairing(ctx context.Context, itemID, pairedWithID string) (ItemPairing, error) {
	var p ItemPairing
	err := q.db.QueryRowContext(ctx,
		"SELECT id, item_id, paired_with_id, score FROM item_pairings WHERE item_id = ? AND paired_with_id = ?",
		itemID, pairedWithID,
	).Scan(&p.ID, &p.ItemID, &p.PairedWithID, &p.Score)
	return p, err
}
