// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Message senders
const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// Conversation is a chat session with the menu assistant.
type Conversation struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id,omitempty"`
	Language  LanguageCode `json:"language"`
	StartTime time.Time    `json:"start_time"`
	EndTime   *time.Time   `json:"end_time,omitempty"`
}

// Active reports whether the conversation has not been ended.
func (c Conversation) Active() bool {
	return c.EndTime == nil
}

// ChatMessage is one message stored in a conversation.
type ChatMessage struct {
	ID             int64     `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Sender         string    `json:"sender"`
	Content        string    `json:"content"`
	Timestamp      time.Time `json:"timestamp"`
}

// ChatReply is the assistant's answer to one user message.
type ChatReply struct {
	ConversationID string       `json:"conversation_id"`
	Language       LanguageCode `json:"detected_language"`
	Response       string       `json:"response"`
	Timestamp      time.Time    `json:"timestamp"`
}

// ConversationStart is returned when a new conversation is opened.
type ConversationStart struct {
	ConversationID string       `json:"conversation_id"`
	Language       LanguageCode `json:"language"`
	WelcomeMessage string       `json:"welcome_message"`
}
