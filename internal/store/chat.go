// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

// CreateConversationParams holds a new conversation.
type CreateConversationParams struct {
	ID        string
	UserID    string
	Language  string
	SessionID string
	StartTime time.Time
}

// CreateConversation inserts a conversation.
func (q *Queries) CreateConversation(ctx context.Context, arg CreateConversationParams) (Conversation, error) {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO conversations (id, user_id, start_time, language, session_id) VALUES (?, ?, ?, ?, ?)`,
		arg.ID, arg.UserID, arg.StartTime, arg.Language, arg.SessionID,
	)
	if err != nil {
		return Conversation{}, err
	}
	return Conversation{
		ID:        arg.ID,
		UserID:    arg.UserID,
		StartTime: arg.StartTime,
		Language:  arg.Language,
		SessionID: arg.SessionID,
	}, nil
}

// GetConversation returns one conversation. It returns sql.ErrNoRows when absent.
func (q *Queries) GetConversation(ctx context.Context, id string) (Conversation, error) {
	var c Conversation
	err := q.db.QueryRowContext(ctx,
		`SELECT id, user_id, start_time, end_time, language, session_id FROM conversations WHERE id = ?`, id,
	).Scan(&c.ID, &c.UserID, &c.StartTime, &c.EndTime, &c.Language, &c.SessionID)
	return c, err
}

// EndConversation sets the end time of an open conversation and returns
// the number of rows changed.
func (q *Queries) EndConversation(ctx context.Context, id string, endTime time.Time) (int64, error) {
	return rowsAffected(q.db.ExecContext(ctx,
		`UPDATE conversations SET end_time = ? WHERE id = ? AND end_time IS NULL`,
		sql.NullTime{Time: endTime, Valid: true}, id,
	))
}

// CreateMessageParams holds a new chat message.
type CreateMessageParams struct {
	ConversationID string
	Sender         string
	Content        string
	Timestamp      time.Time
}

// CreateMessage appends a message to a conversation.
func (q *Queries) CreateMessage(ctx context.Context, arg CreateMessageParams) (Message, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO messages (conversation_id, sender, content, timestamp) VALUES (?, ?, ?, ?)`,
		arg.ConversationID, arg.Sender, arg.Content, arg.Timestamp,
	)
	if err != nil {
		return Message{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Message{}, err
	}
	return Message{
		ID:             id,
		ConversationID: arg.ConversationID,
		Sender:         arg.Sender,
		Content:        arg.Content,
		Timestamp:      arg.Timestamp,
	}, nil
}

// ListRecentMessages returns the last limit messages of a conversation in
// chronological order.
func (q *Queries) ListRecentMessages(ctx context.Context, conversationID string, limit int) ([]Message, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, conversation_id, sender, content, timestamp FROM (
			SELECT id, conversation_id, sender, content, timestamp
			FROM messages WHERE conversation_id = ?
			ORDER BY id DESC LIMIT ?
		) ORDER BY id ASC`,
		conversationID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Sender, &m.Content, &m.Timestamp); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}
