// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/olegiv/omenu/internal/model"
	"github.com/olegiv/omenu/internal/service"
)

const popularInReply = 3

// MenuSource is the part of the menu service the responder reads from.
type MenuSource interface {
	Items(ctx context.Context, f service.ItemFilter) ([]model.MenuItem, error)
	PopularItems(ctx context.Context, lang model.LanguageCode, limit int) ([]model.ItemSuggestion, error)
}

type keywordRule struct {
	keywords []string
	key      string
	category string
}

func (r keywordRule) matches(text string) bool {
	return containsAny(text, r.keywords)
}

var orderKeywords = []string{"order", "get", "want", "like", "sifariş", "istəyirəm", "almaq"}

var orderItems = []keywordRule{
	{keywords: []string{"pizza"}, key: "order_item_pizza"},
	{keywords: []string{"pasta", "spaghetti"}, key: "order_item_pasta"},
	{keywords: []string{"water", "su"}, key: "order_item_drink"},
	{keywords: []string{"dessert", "tiramisu"}, key: "order_item_dessert"},
}

var menuKeywords = []string{
	"menu", "food", "eat", "pizza", "pasta", "drink", "dessert",
	"menyu", "yemək", "içki", "desert", "pitsa", "пицца", "меню",
}

var menuTopics = []keywordRule{
	{keywords: []string{"pizza"}, key: "menu_pizza", category: "pizza"},
	{keywords: []string{"pasta", "spaghetti"}, key: "menu_pasta", category: "pasta"},
	{keywords: []string{"drink", "beverage", "içki"}, key: "menu_drinks", category: "drinks"},
	{keywords: []string{"dessert", "tatlı", "desert"}, key: "menu_desserts", category: "desserts"},
}

var infoTopics = []keywordRule{
	{keywords: []string{"hours", "open", "açıq", "saat"}, key: msgInfoHours},
	{keywords: []string{"location", "address", "ünvan", "adres"}, key: msgInfoLocation},
	{keywords: []string{"delivery", "çatdırılma", "доставка"}, key: msgInfoDelivery},
	{keywords: []string{"payment", "ödəniş", "оплата"}, key: msgInfoPayment},
	{keywords: []string{"reservation", "book", "rezervasiya"}, key: msgInfoReservation},
}

// Responder answers user messages with keyword rules. Rules are tried in
// order: order intent, menu query, general question, then the default reply.
type Responder struct {
	menu MenuSource
	tr   *Translator
}

// NewResponder creates a Responder.
func NewResponder(menu MenuSource, tr *Translator) *Responder {
	return &Responder{menu: menu, tr: tr}
}

// Welcome returns the greeting for lang.
func (r *Responder) Welcome(lang model.LanguageCode) string {
	return r.tr.T(lang, msgWelcome, nil)
}

// Reply builds the assistant's answer to message in lang.
func (r *Responder) Reply(ctx context.Context, message string, lang model.LanguageCode) (string, error) {
	text := strings.ToLower(message)

	if reply, ok := r.orderReply(text, lang); ok {
		return reply, nil
	}
	if containsAny(text, menuKeywords) {
		return r.menuReply(ctx, text, lang)
	}
	for _, topic := range infoTopics {
		if topic.matches(text) {
			return r.tr.T(lang, topic.key, nil), nil
		}
	}
	return r.tr.T(lang, msgNotUnderstood, nil), nil
}

// orderReply confirms an order. An order keyword without any recognised
// item is not treated as an order.
func (r *Responder) orderReply(text string, lang model.LanguageCode) (string, bool) {
	if !containsAny(text, orderKeywords) {
		return "", false
	}
	var items []string
	for _, item := range orderItems {
		if item.matches(text) {
			items = append(items, r.tr.T(lang, item.key, nil)+" x1")
		}
	}
	if len(items) == 0 {
		return "", false
	}
	return r.tr.T(lang, msgOrderConfirm, map[string]any{"Items": strings.Join(items, ", ")}), true
}

func (r *Responder) menuReply(ctx context.Context, text string, lang model.LanguageCode) (string, error) {
	for _, topic := range menuTopics {
		if !topic.matches(text) {
			continue
		}
		items, err := r.menu.Items(ctx, service.ItemFilter{
			Language:      lang,
			CategoryID:    topic.category,
			AvailableOnly: true,
		})
		if err != nil {
			return "", fmt.Errorf("listing %s items: %w", topic.category, err)
		}
		entries := make([]string, 0, len(items))
		for _, it := range items {
			entries = append(entries, priceEntry(it.Name, it.Price))
		}
		return r.tr.T(lang, topic.key, map[string]any{"Items": strings.Join(entries, ", ")}), nil
	}

	popular, err := r.menu.PopularItems(ctx, lang, popularInReply)
	if err != nil {
		return "", err
	}
	entries := make([]string, 0, len(popular))
	for _, it := range popular {
		entries = append(entries, priceEntry(it.Name, it.Price))
	}
	return r.tr.T(lang, msgMenuPopular, map[string]any{"Items": strings.Join(entries, ", ")}), nil
}

func priceEntry(name string, price float64) string {
	return fmt.Sprintf("%s ($%.2f)", name, price)
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
