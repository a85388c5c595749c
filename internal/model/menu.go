// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Meal times accepted by recommendations.
const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
)

// Default values applied to new menu items.
const (
	DefaultPreparationTime = 15
	DefaultPairingScore    = 1.0
)

// Category is a menu category with display fields resolved for one language.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url,omitempty"`
}

// MenuItem is a menu item with display fields resolved for one language.
type MenuItem struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Description     string         `json:"description"`
	CategoryID      string         `json:"category_id"`
	CategoryName    string         `json:"category_name"`
	Price           float64        `json:"price"`
	ImageURL        string         `json:"image_url,omitempty"`
	Available       bool           `json:"available"`
	Popular         bool           `json:"popular"`
	PreparationTime int            `json:"preparation_time"`
	Allergens       []string       `json:"allergens,omitempty"`
	Ingredients     []string       `json:"ingredients,omitempty"`
	Nutrition       map[string]any `json:"nutrition,omitempty"`
	Pairings        []Pairing      `json:"pairings,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// Pairing is an item suggested alongside another item.
type Pairing struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	ImageURL     string  `json:"image_url,omitempty"`
	CategoryName string  `json:"category_name"`
	Score        float64 `json:"score"`
}

// ItemSuggestion is the short item form used by recommendations and summaries.
type ItemSuggestion struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category,omitempty"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url,omitempty"`
}

// Recommendations groups item suggestions by the reason they were picked.
type Recommendations struct {
	Pairings  []Pairing        `json:"pairings"`
	Popular   []ItemSuggestion `json:"popular"`
	TimeBased []ItemSuggestion `json:"time_based"`
	MealTime  string           `json:"meal_time,omitempty"`
}

// CategorySummary describes one category in a menu summary.
type CategorySummary struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	ItemCount   int              `json:"item_count"`
	SampleItems []ItemSuggestion `json:"sample_items"`
}

// MenuSummary is a compact overview of the whole menu.
type MenuSummary struct {
	Language        LanguageCode      `json:"language"`
	TotalCategories int               `json:"total_categories"`
	TotalItems      int               `json:"total_items"`
	Categories      []CategorySummary `json:"categories"`
	PopularItems    []ItemSuggestion  `json:"popular_items"`
}

// TranslationCoverage reports how many rows of a table lack a name
// translation in one language.
type TranslationCoverage struct {
	Table    string       `json:"table"`
	Language LanguageCode `json:"language"`
	Total    int64        `json:"total"`
	Missing  int64        `json:"missing"`
}

// Complete reports whether every row has a translation.
func (c TranslationCoverage) Complete() bool {
	return c.Missing == 0
}
