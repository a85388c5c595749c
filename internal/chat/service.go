// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package chat implements the keyword-driven menu assistant and stores
// its conversations.
package chat

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/omenu/internal/model"
	"github.com/olegiv/omenu/internal/service"
	"github.com/olegiv/omenu/internal/store"
	"github.com/olegiv/omenu/internal/translate"
)

// LanguageAuto asks the assistant to detect the language of the message.
const LanguageAuto = "auto"

// History limits.
const (
	DefaultHistoryLimit = 10
	MaxHistoryLimit     = 100
)

var (
	// ErrConversationNotFound is returned for unknown conversation ids.
	ErrConversationNotFound = fmt.Errorf("conversation %w", service.ErrNotFound)
	// ErrConversationEnded is returned when a message is sent to an ended conversation.
	ErrConversationEnded = fmt.Errorf("conversation has ended: %w", service.ErrConflict)
)

// StartRequest opens a conversation.
type StartRequest struct {
	Language string `json:"language"`
	UserID   string `json:"user_id"`
}

// MessageRequest is one user message.
type MessageRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id"`
	Language       string `json:"language"`
}

// Service stores conversations and answers messages through a Responder.
type Service struct {
	db          *sql.DB
	queries     *store.Queries
	responder   *Responder
	defaultLang model.LanguageCode
	logger      *slog.Logger
	now         func() time.Time
	newID       func() string
}

// NewService creates a chat Service. defaultLang is used when a request
// names no language.
func NewService(db *sql.DB, responder *Responder, defaultLang model.LanguageCode, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		db:          db,
		queries:     store.New(db),
		responder:   responder,
		defaultLang: defaultLang,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
		newID:       uuid.NewString,
	}
}

// resolveLanguage picks the reply language. An empty value means the
// default language, "auto" detects it from text and unsupported codes
// answer in English.
func (s *Service) resolveLanguage(requested, text string) model.LanguageCode {
	requested = strings.ToLower(strings.TrimSpace(requested))
	switch requested {
	case "":
		return s.defaultLang
	case LanguageAuto:
		if text == "" {
			return s.defaultLang
		}
		return DetectLanguage(text, s.defaultLang)
	}
	return model.NormalizeLanguage(requested)
}

// Start opens a conversation and stores the welcome message.
func (s *Service) Start(ctx context.Context, req StartRequest) (model.ConversationStart, error) {
	lang := s.resolveLanguage(req.Language, "")
	welcome := s.responder.Welcome(lang)

	var id string
	err := s.inTx(ctx, func(q *store.Queries) error {
		conv, err := s.createConversation(ctx, q, req.UserID, lang)
		if err != nil {
			return err
		}
		id = conv.ID
		_, err = q.CreateMessage(ctx, store.CreateMessageParams{
			ConversationID: id,
			Sender:         model.SenderBot,
			Content:        welcome,
			Timestamp:      s.now(),
		})
		return err
	})
	if err != nil {
		return model.ConversationStart{}, fmt.Errorf("starting conversation: %w", err)
	}

	s.logger.Info("conversation started", "conversation_id", id, "language", lang)
	return model.ConversationStart{ConversationID: id, Language: lang, WelcomeMessage: welcome}, nil
}

// HandleMessage answers one user message. Without a conversation id a new
// conversation is opened. Both the user message and the reply are stored.
func (s *Service) HandleMessage(ctx context.Context, req MessageRequest) (model.ChatReply, error) {
	text := strings.TrimSpace(req.Message)
	if text == "" {
		return model.ChatReply{}, &translate.ValidationError{Field: "message", Message: "Message is required"}
	}
	lang := s.resolveLanguage(req.Language, text)

	if req.ConversationID != "" {
		conv, err := s.queries.GetConversation(ctx, req.ConversationID)
		if errors.Is(err, sql.ErrNoRows) {
			return model.ChatReply{}, ErrConversationNotFound
		}
		if err != nil {
			return model.ChatReply{}, fmt.Errorf("loading conversation: %w", err)
		}
		if conv.EndTime.Valid {
			return model.ChatReply{}, ErrConversationEnded
		}
	}

	// The reply reads the menu, so it is built before the write transaction.
	response, err := s.responder.Reply(ctx, text, lang)
	if err != nil {
		return model.ChatReply{}, fmt.Errorf("building reply: %w", err)
	}

	reply := model.ChatReply{
		ConversationID: req.ConversationID,
		Language:       lang,
		Response:       response,
		Timestamp:      s.now(),
	}
	err = s.inTx(ctx, func(q *store.Queries) error {
		if reply.ConversationID == "" {
			conv, err := s.createConversation(ctx, q, "", lang)
			if err != nil {
				return err
			}
			reply.ConversationID = conv.ID
		}
		for _, m := range []struct{ sender, content string }{
			{model.SenderUser, req.Message},
			{model.SenderBot, response},
		} {
			if _, err := q.CreateMessage(ctx, store.CreateMessageParams{
				ConversationID: reply.ConversationID,
				Sender:         m.sender,
				Content:        m.content,
				Timestamp:      reply.Timestamp,
			}); err != nil {
				return fmt.Errorf("storing %s message: %w", m.sender, err)
			}
		}
		return nil
	})
	if err != nil {
		return model.ChatReply{}, err
	}
	return reply, nil
}

// History returns the last limit messages of a conversation in
// chronological order. A non-positive limit uses DefaultHistoryLimit.
func (s *Service) History(ctx context.Context, conversationID string, limit int) ([]model.ChatMessage, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	limit = min(limit, MaxHistoryLimit)

	if _, err := s.queries.GetConversation(ctx, conversationID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrConversationNotFound
		}
		return nil, fmt.Errorf("loading conversation: %w", err)
	}

	rows, err := s.queries.ListRecentMessages(ctx, conversationID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	out := make([]model.ChatMessage, 0, len(rows))
	for _, m := range rows {
		out = append(out, model.ChatMessage{
			ID:             m.ID,
			ConversationID: m.ConversationID,
			Sender:         m.Sender,
			Content:        m.Content,
			Timestamp:      m.Timestamp,
		})
	}
	return out, nil
}

// End closes a conversation. Ending an ended conversation is a no-op.
func (s *Service) End(ctx context.Context, conversationID string) error {
	if _, err := s.queries.GetConversation(ctx, conversationID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrConversationNotFound
		}
		return fmt.Errorf("loading conversation: %w", err)
	}
	if _, err := s.queries.EndConversation(ctx, conversationID, s.now()); err != nil {
		return fmt.Errorf("ending conversation: %w", err)
	}
	return nil
}

// Conversation returns one conversation.
func (s *Service) Conversation(ctx context.Context, conversationID string) (model.Conversation, error) {
	c, err := s.queries.GetConversation(ctx, conversationID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Conversation{}, ErrConversationNotFound
	}
	if err != nil {
		return model.Conversation{}, fmt.Errorf("loading conversation: %w", err)
	}
	conv := model.Conversation{
		ID:        c.ID,
		UserID:    c.UserID,
		Language:  model.LanguageCode(c.Language),
		StartTime: c.StartTime,
	}
	if c.EndTime.Valid {
		end := c.EndTime.Time
		conv.EndTime = &end
	}
	return conv, nil
}

func (s *Service) createConversation(ctx context.Context, q *store.Queries, userID string, lang model.LanguageCode) (store.Conversation, error) {
	conv, err := q.CreateConversation(ctx, store.CreateConversationParams{
		ID:        s.newID(),
		UserID:    userID,
		Language:  string(lang),
		StartTime: s.now(),
	})
	if err != nil {
		return store.Conversation{}, fmt.Errorf("creating conversation: %w", err)
	}
	return conv, nil
}

func (s *Service) inTx(ctx context.Context, fn func(q *store.Queries) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(s.queries.WithTx(tx)); err != nil {
		return err
	}
	return tx.Commit()
}
