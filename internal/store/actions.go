// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

// UserAction is a row of the user_actions table.
type UserAction struct {
	ID         int64
	UserID     string
	ActionType string
	ItemID     string
	ClientType string
	CreatedAt  time.Time
}

// CreateUserActionParams holds a new user action.
type CreateUserActionParams struct {
	UserID     string
	ActionType string
	ItemID     string
	ClientType string
	CreatedAt  time.Time
}

// CreateUserAction inserts a user action.
func (q *Queries) CreateUserAction(ctx context.Context, arg CreateUserActionParams) (UserAction, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO user_actions (user_id, action_type, item_id, client_type, created_at) VALUES (?, ?, ?, ?, ?)`,
		arg.UserID, arg.ActionType, arg.ItemID, arg.ClientType, arg.CreatedAt,
	)
	if err != nil {
		return UserAction{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return UserAction{}, err
	}
	return UserAction{
		ID:         id,
		UserID:     arg.UserID,
		ActionType: arg.ActionType,
		ItemID:     arg.ItemID,
		ClientType: arg.ClientType,
		CreatedAt:  arg.CreatedAt,
	}, nil
}

// KeyCount is a grouping key with the number of rows behind it.
type KeyCount struct {
	Key   string
	Count int64
}

// TopItemsByAction returns the items with the most actions of actionType,
// highest count first. Ties are broken by item id.
func (q *Queries) TopItemsByAction(ctx context.Context, actionType string, limit int64) ([]KeyCount, error) {
	return q.keyCounts(ctx, `
		SELECT item_id, COUNT(*) AS n
		FROM user_actions
		WHERE action_type = ?
		GROUP BY item_id
		ORDER BY n DESC, item_id
		LIMIT ?`,
		actionType, limit,
	)
}

// CountUserActionsByClient returns the number of actions per client type.
func (q *Queries) CountUserActionsByClient(ctx context.Context) ([]KeyCount, error) {
	return q.keyCounts(ctx, `
		SELECT client_type, COUNT(*) AS n
		FROM user_actions
		GROUP BY client_type
		ORDER BY n DESC, client_type`,
	)
}

func (q *Queries) keyCounts(ctx context.Context, query string, args ...any) ([]KeyCount, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []KeyCount
	for rows.Next() {
		var kc KeyCount
		if err := rows.Scan(&kc.Key, &kc.Count); err != nil {
			return nil, err
		}
		items = append(items, kc)
	}
	return items, rows.Err()
}
