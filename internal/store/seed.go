// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/omenu/internal/translate"
)

type seedText struct {
	lang string
	name string
	desc string
}

type seedCategory struct {
	id    string
	texts []seedText
}

type seedItem struct {
	id          string
	categoryID  string
	price       float64
	popular     bool
	prepTime    int64
	allergens   string
	ingredients string
	texts       []seedText
}

var seedCategories = []seedCategory{
	{"pizza", []seedText{
		{"en", "Pizza", "Stone-baked pizzas"},
		{"az", "Pitsa", "Daş sobada bişmiş pitsalar"},
		{"ru", "Пицца", "Пицца из каменной печи"},
		{"tr", "Pizza", "Taş fırın pizzalar"},
	}},
	{"pasta", []seedText{
		{"en", "Pasta", "Fresh Italian pasta"},
		{"az", "Pasta", "Təzə İtalyan pastası"},
		{"ru", "Паста", "Свежая итальянская паста"},
		{"it", "Pasta", "Pasta fresca"},
	}},
	{"drinks", []seedText{
		{"en", "Drinks", "Hot and cold drinks"},
		{"az", "İçkilər", "İsti və soyuq içkilər"},
		{"ru", "Напитки", "Горячие и холодные напитки"},
	}},
	{"desserts", []seedText{
		{"en", "Desserts", "Sweet endings"},
		{"az", "Desertlər", "Şirin sonluq"},
		{"ru", "Десерты", "Сладкое завершение"},
		{"fr", "Desserts", "Douceurs maison"},
	}},
}

var seedItems = []seedItem{
	{"pizza-margherita", "pizza", 12.5, true, 20, `["gluten","dairy"]`, `["tomato","mozzarella","basil"]`, []seedText{
		{"en", "Margherita", "Tomato, mozzarella and fresh basil"},
		{"az", "Marqarita", "Pomidor, motsarella və təzə reyhan"},
		{"ru", "Маргарита", "Томаты, моцарелла и свежий базилик"},
	}},
	{"pizza-pepperoni", "pizza", 14, false, 20, `["gluten","dairy"]`, `["tomato","mozzarella","pepperoni"]`, []seedText{
		{"en", "Pepperoni", "Spicy pepperoni and mozzarella"},
		{"ru", "Пепперони", "Острая пепперони и моцарелла"},
	}},
	{"pasta-carbonara", "pasta", 11, true, 15, `["gluten","egg","dairy"]`, `["spaghetti","egg","pecorino","guanciale"]`, []seedText{
		{"en", "Spaghetti Carbonara", "Egg, pecorino and guanciale"},
		{"it", "Spaghetti alla carbonara", "Uovo, pecorino e guanciale"},
		{"ru", "Спагетти карбонара", "Яйцо, пекорино и гуанчиале"},
	}},
	{"drinks-lemonade", "drinks", 3.5, false, 5, `[]`, `["lemon","mint","sugar"]`, []seedText{
		{"en", "Lemonade", "Homemade lemonade with mint"},
		{"az", "Limonad", "Nanəli ev limonadı"},
	}},
	{"drinks-tea", "drinks", 2, true, 5, `[]`, `["black tea"]`, []seedText{
		{"en", "Black Tea", "Azerbaijani black tea"},
		{"az", "Qara çay", "Azərbaycan qara çayı"},
		{"tr", "Siyah çay", "Azerbaycan siyah çayı"},
	}},
	{"desserts-tiramisu", "desserts", 6.5, true, 10, `["dairy","egg"]`, `["mascarpone","coffee","cocoa"]`, []seedText{
		{"en", "Tiramisu", "Mascarpone, coffee and cocoa"},
		{"it", "Tiramisù", "Mascarpone, caffè e cacao"},
		{"fr", "Tiramisu", "Mascarpone, café et cacao"},
	}},
}

var seedPairings = []CreatePairingParams{
	{ItemID: "pizza-margherita", PairedWithID: "drinks-lemonade", Score: 0.9},
	{ItemID: "pizza-pepperoni", PairedWithID: "drinks-lemonade", Score: 0.8},
	{ItemID: "pasta-carbonara", PairedWithID: "desserts-tiramisu", Score: 0.7},
	{ItemID: "desserts-tiramisu", PairedWithID: "drinks-tea", Score: 1.0},
}

func seedTranslations(texts []seedText) (translate.Expanded, error) {
	t := make(translate.Translations, len(texts))
	for _, st := range texts {
		name, desc := st.name, st.desc
		t[st.lang] = translate.Entry{Name: &name, Description: &desc}
	}
	return translate.Expand(t)
}

// Seed loads the sample menu when doSeed is set and the menu is empty.
// Translations are written only to the columns the schema has.
func Seed(ctx context.Context, db *sql.DB, q *Queries, doSeed bool) error {
	if !doSeed {
		return nil
	}

	n, err := q.CountCategories(ctx)
	if err != nil {
		return fmt.Errorf("counting categories: %w", err)
	}
	if n > 0 {
		slog.Info("menu already has categories, skipping seed", "categories", n)
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	qtx := q.WithTx(tx)

	for _, c := range seedCategories {
		exp, err := seedTranslations(c.texts)
		if err != nil {
			return fmt.Errorf("seed category %s: %w", c.id, err)
		}
		if err := qtx.CreateCategory(ctx, CreateCategoryParams{
			ID:           c.id,
			Name:         exp.BaseName,
			Description:  exp.BaseDescription,
			Translations: exp.NullColumns(),
		}); err != nil {
			return fmt.Errorf("creating category %s: %w", c.id, err)
		}
	}

	now := time.Now().UTC()
	for _, it := range seedItems {
		exp, err := seedTranslations(it.texts)
		if err != nil {
			return fmt.Errorf("seed item %s: %w", it.id, err)
		}
		if err := qtx.CreateMenuItem(ctx, MenuItemParams{
			ID:              it.id,
			Name:            exp.BaseName,
			Description:     exp.BaseDescription,
			CategoryID:      it.categoryID,
			Price:           it.price,
			Available:       true,
			Popular:         it.popular,
			PreparationTime: it.prepTime,
			CreatedAt:       now,
			UpdatedAt:       now,
			Translations:    exp.NullColumns(),
		}); err != nil {
			return fmt.Errorf("creating menu item %s: %w", it.id, err)
		}
		if err := qtx.UpsertItemDetails(ctx, ItemDetails{
			ItemID:      it.id,
			Allergens:   it.allergens,
			Ingredients: it.ingredients,
			Nutrition:   "{}",
		}); err != nil {
			return fmt.Errorf("creating details of %s: %w", it.id, err)
		}
	}

	for _, p := range seedPairings {
		if err := qtx.UpsertPairing(ctx, p); err != nil {
			return fmt.Errorf("creating pairing %s/%s: %w", p.ItemID, p.PairedWithID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing seed: %w", err)
	}

	slog.Info("seeded sample menu", "categories", len(seedCategories), "items", len(seedItems))
	return nil
}
