// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/omenu/internal/cache"
	"github.com/olegiv/omenu/internal/model"
	"github.com/olegiv/omenu/internal/schema"
	"github.com/olegiv/omenu/internal/store"
	"github.com/olegiv/omenu/internal/testutil"
	"github.com/olegiv/omenu/internal/translate"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
func boolPtr(b bool) *bool        { return &b }

// newTestMenuService returns a service over an evolved, seeded in-memory
// database with a memory cache and a no-op shuffle.
func newTestMenuService(t *testing.T) (*MenuService, *sql.DB) {
	t.Helper()

	db, q := testutil.EvolvedMemoryDB(t)
	require.NoError(t, store.Seed(context.Background(), db, q, true))

	c := cache.NewMemory(cache.MemoryOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = c.Close() })

	svc := NewMenuService(db, q.Capabilities(), c, testutil.TestLogger())
	svc.shuffle = func(int, func(i, j int)) {}
	return svc, db
}

func TestCategories_Resolved(t *testing.T) {
	svc, _ := newTestMenuService(t)
	ctx := context.Background()

	tests := []struct {
		lang model.LanguageCode
		want string
	}{
		{model.LangEN, "Pizza"},
		{model.LangRU, "Пицца"},
		{model.LangAZ, "Pitsa"},
		// fr was not supplied and received the English value on write
		{model.LangFR, "Pizza"},
	}
	for _, tt := range tests {
		t.Run(string(tt.lang), func(t *testing.T) {
			cats, err := svc.Categories(ctx, tt.lang)
			require.NoError(t, err)
			require.Len(t, cats, 4)

			var pizza model.Category
			for _, c := range cats {
				if c.ID == "pizza" {
					pizza = c
				}
			}
			assert.Equal(t, tt.want, pizza.Name)
		})
	}
}

func TestItems_FiltersAndLanguage(t *testing.T) {
	svc, _ := newTestMenuService(t)
	ctx := context.Background()

	items, err := svc.Items(ctx, ItemFilter{Language: model.LangRU, CategoryID: "pizza", AvailableOnly: true})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Маргарита", items[0].Name)
	assert.Equal(t, "Пицца", items[0].CategoryName)
	assert.Equal(t, []string{"gluten", "dairy"}, items[0].Allergens)

	found, err := svc.Items(ctx, ItemFilter{Language: model.LangIT, Search: "carbonara"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Spaghetti alla carbonara", found[0].Name)
}

func TestItem_WithPairings(t *testing.T) {
	svc, _ := newTestMenuService(t)
	ctx := context.Background()

	item, err := svc.Item(ctx, "desserts-tiramisu", model.LangAZ)
	require.NoError(t, err)
	assert.Equal(t, "Tiramisu", item.Name)
	assert.Equal(t, "Desertlər", item.CategoryName)
	require.Len(t, item.Pairings, 1)
	assert.Equal(t, "drinks-tea", item.Pairings[0].ID)
	assert.Equal(t, "Qara çay", item.Pairings[0].Name)
	assert.Equal(t, "İçkilər", item.Pairings[0].CategoryName)

	_, err = svc.Item(ctx, "missing", model.LangEN)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestItems_CachedUntilWrite(t *testing.T) {
	svc, db := newTestMenuService(t)
	ctx := context.Background()

	before, err := svc.Categories(ctx, model.LangEN)
	require.NoError(t, err)

	// a write behind the service's back is not seen while cached
	_, err = db.Exec("UPDATE categories SET name = 'Changed', name_en = 'Changed' WHERE id = 'pizza'")
	require.NoError(t, err)
	stale, err := svc.Categories(ctx, model.LangEN)
	require.NoError(t, err)
	assert.Equal(t, before, stale)

	// a write through the service drops the cache
	_, err = svc.CreateCategory(ctx, CategoryInput{Name: "Salads"})
	require.NoError(t, err)
	after, err := svc.Categories(ctx, model.LangEN)
	require.NoError(t, err)
	assert.Len(t, after, 5)
	for _, c := range after {
		if c.ID == "pizza" {
			assert.Equal(t, "Changed", c.Name)
		}
	}
}

func TestRecommendations(t *testing.T) {
	svc, _ := newTestMenuService(t)
	ctx := context.Background()

	rec, err := svc.Recommendations(ctx, RecommendationRequest{Language: model.LangEN})
	require.NoError(t, err)
	assert.Len(t, rec.Popular, 3)
	assert.Empty(t, rec.TimeBased)
	assert.Empty(t, rec.Pairings)
	for _, p := range rec.Popular {
		assert.NotEqual(t, "pizza-pepperoni", p.ID, "pepperoni is not popular")
	}

	rec, err = svc.Recommendations(ctx, RecommendationRequest{
		Language: model.LangEN,
		ItemID:   "pizza-margherita",
		MealTime: model.MealDinner,
	})
	require.NoError(t, err)
	assert.Len(t, rec.TimeBased, 2)
	assert.Equal(t, model.MealDinner, rec.MealTime)
	require.Len(t, rec.Pairings, 1)
	assert.Equal(t, "Lemonade", rec.Pairings[0].Name)

	_, err = svc.Recommendations(ctx, RecommendationRequest{Language: model.LangEN, MealTime: "brunch"})
	var verr *translate.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestRecommendations_UsesShuffle(t *testing.T) {
	svc, _ := newTestMenuService(t)
	reversed := func(n int, swap func(i, j int)) {
		for i := 0; i < n/2; i++ {
			swap(i, n-1-i)
		}
	}

	plain, err := svc.Recommendations(context.Background(), RecommendationRequest{Language: model.LangEN})
	require.NoError(t, err)
	svc.shuffle = reversed
	shuffled, err := svc.Recommendations(context.Background(), RecommendationRequest{Language: model.LangEN})
	require.NoError(t, err)

	assert.NotEqual(t, plain.Popular[0].ID, shuffled.Popular[0].ID)
}

func TestSummary(t *testing.T) {
	svc, _ := newTestMenuService(t)
	ctx := context.Background()

	sum, err := svc.Summary(ctx, model.LangEN)
	require.NoError(t, err)
	assert.Equal(t, model.LangEN, sum.Language)
	assert.Equal(t, 4, sum.TotalCategories)
	assert.Equal(t, 6, sum.TotalItems)
	assert.Len(t, sum.PopularItems, 4)

	counts := map[string]int{}
	for _, c := range sum.Categories {
		counts[c.ID] = c.ItemCount
		assert.LessOrEqual(t, len(c.SampleItems), 3)
	}
	assert.Equal(t, map[string]int{"pizza": 2, "pasta": 1, "drinks": 2, "desserts": 1}, counts)
}

func TestTruncateRunes(t *testing.T) {
	long := strings.Repeat("ş", 60)
	got := truncateRunes(long, 50)
	assert.Equal(t, strings.Repeat("ş", 50)+"...", got)
	assert.Equal(t, "short", truncateRunes("short", 50))
	assert.Equal(t, strings.Repeat("a", 50), truncateRunes(strings.Repeat("a", 50), 50))
}

func TestCreateCategory_Structured(t *testing.T) {
	svc, db := newTestMenuService(t)
	ctx := context.Background()

	c, err := svc.CreateCategory(ctx, CategoryInput{Translations: translate.Translations{
		"en": {Name: strPtr("Dessert"), Description: strPtr("Sweet")},
		"az": {Name: strPtr("Desert")},
	}})
	require.NoError(t, err)
	assert.Equal(t, "dessert", c.ID)
	assert.Equal(t, "Dessert", c.Name)

	var nameRU, nameAZ, descAZ string
	require.NoError(t, db.QueryRow(
		"SELECT name_ru, name_az, description_az FROM categories WHERE id = 'dessert'",
	).Scan(&nameRU, &nameAZ, &descAZ))
	assert.Equal(t, "Dessert", nameRU)
	assert.Equal(t, "Desert", nameAZ)
	assert.Equal(t, "Sweet", descAZ)

	_, err = svc.CreateCategory(ctx, CategoryInput{Translations: translate.Translations{
		"en": {Name: strPtr("Dessert")},
	}})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCreateCategory_Validation(t *testing.T) {
	svc, _ := newTestMenuService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		in    CategoryInput
		field string
	}{
		{"missing english", CategoryInput{Translations: translate.Translations{"ru": {Name: strPtr("Супы")}}}, "translations.en"},
		{"empty english name", CategoryInput{Translations: translate.Translations{"en": {Name: strPtr("")}}}, "translations.en.name"},
		{"legacy without name", CategoryInput{Description: "x"}, "name"},
		{"bad id", CategoryInput{ID: "Hot Drinks", Name: "Hot Drinks"}, "id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateCategory(ctx, tt.in)
			var verr *translate.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestCreateCategory_SanitizesHTML(t *testing.T) {
	svc, _ := newTestMenuService(t)

	c, err := svc.CreateCategory(context.Background(), CategoryInput{
		Name:        "<b>Soups</b> & Stews",
		Description: "<script>alert(1)</script>Hot",
	})
	require.NoError(t, err)
	assert.Equal(t, "soups-stews", c.ID)
	assert.Equal(t, "Soups & Stews", c.Name)
	assert.Equal(t, "Hot", c.Description)
}

func TestCreateCategory_SanitizesEncodedHTML(t *testing.T) {
	svc, _ := newTestMenuService(t)

	c, err := svc.CreateCategory(context.Background(), CategoryInput{
		Name:        "&lt;b&gt;Soups&lt;/b&gt; &amp; Stews",
		Description: "&lt;script&gt;alert(1)&lt;/script&gt;",
	})
	require.NoError(t, err)
	assert.Equal(t, "Soups & Stews", c.Name)
	assert.NotContains(t, c.Description, "<")
	assert.NotContains(t, c.Description, ">")
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Fish & Chips", "Fish & Chips"},
		{"a < b", "a < b"},
		{"<i>Hot</i> soup", "Hot soup"},
		{"&lt;i&gt;Hot&lt;/i&gt; soup", "Hot soup"},
		{"&amp;lt;i&amp;gt;Hot&amp;lt;/i&amp;gt;", "Hot"},
		{"Çay və qəhvə", "Çay və qəhvə"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := sanitize(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, sanitize(got), "sanitize is idempotent")
		})
	}
}

func TestUpdateCategory_KeepsImageWhenOmitted(t *testing.T) {
	svc, _ := newTestMenuService(t)
	ctx := context.Background()

	_, err := svc.CreateCategory(ctx, CategoryInput{Name: "Soups", ImageURL: "/img/soups.jpg"})
	require.NoError(t, err)

	c, err := svc.UpdateCategory(ctx, "soups", CategoryInput{Name: "Hot soups"})
	require.NoError(t, err)
	assert.Equal(t, "Hot soups", c.Name)
	assert.Equal(t, "/img/soups.jpg", c.ImageURL)

	c, err = svc.UpdateCategory(ctx, "soups", CategoryInput{Name: "Hot soups", ImageURL: "/img/new.jpg"})
	require.NoError(t, err)
	assert.Equal(t, "/img/new.jpg", c.ImageURL)
}

func TestUpdateCategory_LegacyKeepsTranslations(t *testing.T) {
	svc, _ := newTestMenuService(t)
	ctx := context.Background()

	_, err := svc.UpdateCategory(ctx, "pizza", CategoryInput{Name: "Pizzas"})
	require.NoError(t, err)

	ru, err := svc.Category(ctx, "pizza", model.LangRU)
	require.NoError(t, err)
	assert.Equal(t, "Пицца", ru.Name)

	_, err = svc.UpdateCategory(ctx, "nope", CategoryInput{Name: "X"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteCategory(t *testing.T) {
	svc, _ := newTestMenuService(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.DeleteCategory(ctx, "pizza"), ErrCategoryNotEmpty)
	assert.ErrorIs(t, svc.DeleteCategory(ctx, "nope"), ErrNotFound)

	_, err := svc.CreateCategory(ctx, CategoryInput{Name: "Soups"})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteCategory(ctx, "soups"))
	_, err = svc.Category(ctx, "soups", model.LangEN)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateItem(t *testing.T) {
	svc, _ := newTestMenuService(t)
	ctx := context.Background()

	item, err := svc.CreateItem(ctx, ItemInput{
		Category:  "pizza",
		Price:     floatPtr(9.5),
		Allergens: []string{"gluten"},
		Translations: translate.Translations{
			"en": {Name: strPtr("Funghi"), Description: strPtr("Mushrooms")},
			"ru": {Name: strPtr("Грибная")},
		},
	})
	require.NoError(t, err)
	assert.Regexp(t, `^pizza-[0-9a-f]{8}$`, item.ID)
	assert.Equal(t, "Funghi", item.Name)
	assert.True(t, item.Available)
	assert.Equal(t, model.DefaultPreparationTime, item.PreparationTime)
	assert.Equal(t, []string{"gluten"}, item.Allergens)

	ru, err := svc.Item(ctx, item.ID, model.LangRU)
	require.NoError(t, err)
	assert.Equal(t, "Грибная", ru.Name)
	// ru description fell back to the English one on write
	assert.Equal(t, "Mushrooms", ru.Description)
}

func TestCreateItem_Validation(t *testing.T) {
	svc, _ := newTestMenuService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		in    ItemInput
		field string
	}{
		{"no category", ItemInput{Name: "X", Price: floatPtr(1)}, "category"},
		{"no price", ItemInput{Name: "X", Category: "pizza"}, "price"},
		{"negative price", ItemInput{Name: "X", Category: "pizza", Price: floatPtr(-1)}, "price"},
		{"unknown category", ItemInput{Name: "X", Category: "soups", Price: floatPtr(1)}, "category"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateItem(ctx, tt.in)
			var verr *translate.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestUpdateItem(t *testing.T) {
	svc, _ := newTestMenuService(t)
	ctx := context.Background()

	item, err := svc.UpdateItem(ctx, "pizza-pepperoni", ItemInput{
		Price:     floatPtr(15),
		Available: boolPtr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, "Pepperoni", item.Name, "text kept without a name")
	assert.Equal(t, 15.0, item.Price)
	assert.False(t, item.Available)
	assert.Equal(t, []string{"gluten", "dairy"}, item.Allergens, "details kept")

	item, err = svc.UpdateItem(ctx, "pizza-pepperoni", ItemInput{Nutrition: map[string]any{"kcal": 900.0}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"kcal": 900.0}, item.Nutrition)
	assert.Equal(t, []string{"gluten", "dairy"}, item.Allergens, "unspecified details merged")

	_, err = svc.UpdateItem(ctx, "missing", ItemInput{Name: "X"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateItem_DescriptionWithoutName(t *testing.T) {
	svc, _ := newTestMenuService(t)
	ctx := context.Background()

	_, err := svc.UpdateItem(ctx, "desserts-tiramisu", ItemInput{Description: "Brand new description"})
	var verr *translate.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)

	item, err := svc.Item(ctx, "desserts-tiramisu", model.LangEN)
	require.NoError(t, err)
	assert.Equal(t, "Mascarpone, coffee and cocoa", item.Description)

	item, err = svc.UpdateItem(ctx, "desserts-tiramisu", ItemInput{Translations: translate.Translations{
		"en": {Name: strPtr("Tiramisu"), Description: strPtr("Brand new description")},
	}})
	require.NoError(t, err)
	assert.Equal(t, "Brand new description", item.Description)
}

func TestDeleteItem_RemovesDetailsAndPairings(t *testing.T) {
	svc, db := newTestMenuService(t)
	ctx := context.Background()

	require.NoError(t, svc.DeleteItem(ctx, "drinks-lemonade"))

	var details, pairings int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM item_details WHERE item_id = 'drinks-lemonade'").Scan(&details))
	require.NoError(t, db.QueryRow(
		"SELECT COUNT(*) FROM item_pairings WHERE item_id = 'drinks-lemonade' OR paired_with_id = 'drinks-lemonade'",
	).Scan(&pairings))
	assert.Zero(t, details)
	assert.Zero(t, pairings)

	assert.ErrorIs(t, svc.DeleteItem(ctx, "drinks-lemonade"), ErrNotFound)
}

func TestSetPairing(t *testing.T) {
	svc, _ := newTestMenuService(t)
	ctx := context.Background()

	require.NoError(t, svc.SetPairing(ctx, "pasta-carbonara", "drinks-tea", 0.95))
	item, err := svc.Item(ctx, "pasta-carbonara", model.LangEN)
	require.NoError(t, err)
	require.Len(t, item.Pairings, 2)
	assert.Equal(t, "drinks-tea", item.Pairings[0].ID)

	assert.ErrorIs(t, svc.SetPairing(ctx, "pasta-carbonara", "nope", 1), ErrNotFound)
	var verr *translate.ValidationError
	assert.ErrorAs(t, svc.SetPairing(ctx, "drinks-tea", "drinks-tea", 1), &verr)
}

func TestStructuredWrite_RequiresEvolvedSchema(t *testing.T) {
	db := testutil.MemoryDB(t)
	caps, err := schema.Probe(context.Background(), db)
	require.NoError(t, err)
	svc := NewMenuService(db, caps, nil, testutil.TestLogger())

	_, err = svc.CreateCategory(context.Background(), CategoryInput{Translations: translate.Translations{
		"en": {Name: strPtr("Soups")},
	}})
	assert.ErrorIs(t, err, ErrSchemaOutdated)

	// legacy writes work on the base columns
	c, err := svc.CreateCategory(context.Background(), CategoryInput{Name: "Soups"})
	require.NoError(t, err)
	assert.Equal(t, "Soups", c.Name)
}
