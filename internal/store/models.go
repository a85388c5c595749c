// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"

	"github.com/olegiv/omenu/internal/translate"
)

// Category is a categories row.
type Category struct {
	ID           string
	Name         string
	Description  sql.NullString
	ImageURL     sql.NullString
	Translations translate.Columns
}

// Record returns the translatable view of c.
func (c Category) Record() translate.Record {
	return translate.Record{
		BaseName:        c.Name,
		BaseDescription: c.Description.String,
		Columns:         c.Translations,
	}
}

// MenuItem is a menu_items row joined with its category and details.
type MenuItem struct {
	ID              string
	Name            string
	Description     sql.NullString
	CategoryID      string
	Price           float64
	ImageURL        sql.NullString
	Available       bool
	Popular         bool
	PreparationTime int64
	CreatedAt       sql.NullTime
	UpdatedAt       sql.NullTime
	Translations    translate.Columns

	CategoryName         sql.NullString
	CategoryTranslations translate.Columns

	Allergens   sql.NullString
	Ingredients sql.NullString
	Nutrition   sql.NullString
}

// Record returns the translatable view of m including its category.
func (m MenuItem) Record() translate.Record {
	rec := translate.Record{
		BaseName:        m.Name,
		BaseDescription: m.Description.String,
		Columns:         m.Translations,
	}
	if m.CategoryName.Valid {
		rec.Category = &translate.CategoryRecord{
			BaseName: m.CategoryName.String,
			Columns:  m.CategoryTranslations,
		}
	}
	return rec
}

// ItemDetails is an item_details row. The fields hold JSON documents.
type ItemDetails struct {
	ItemID      string
	Allergens   string
	Ingredients string
	Nutrition   string
}

// ItemPairing is an item_pairings row.
type ItemPairing struct {
	ID           int64
	ItemID       string
	PairedWithID string
	Score        float64
}

// Pairing is a pairing joined with the paired item.
type Pairing struct {
	ItemID               string
	Score                float64
	Name                 string
	Price                float64
	ImageURL             sql.NullString
	Translations         translate.Columns
	CategoryName         sql.NullString
	CategoryTranslations translate.Columns
}

// Conversation is a conversations row.
type Conversation struct {
	ID        string
	UserID    string
	StartTime time.Time
	EndTime   sql.NullTime
	Language  string
	SessionID string
}

// Message is a messages row.
type Message struct {
	ID             int64
	ConversationID string
	Sender         string
	Content        string
	Timestamp      time.Time
}

// Event is an events row.
type Event struct {
	ID        int64
	Level     string
	Category  string
	Message   string
	Metadata  string
	CreatedAt time.Time
}
