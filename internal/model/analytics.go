// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// User action types ranked by the analytics summary. Other types are
// stored but not ranked.
const (
	ActionView      = "view"
	ActionClick     = "click"
	ActionAddToCart = "add_to_cart"
	ActionOrder     = "order"
)

// Client types recorded with each action.
const (
	ClientDesktop = "desktop"
	ClientMobile  = "mobile"
	ClientTablet  = "tablet"
	ClientBot     = "bot"
	ClientUnknown = "unknown"
)

// UserAction is one recorded interaction of a visitor with a menu item.
type UserAction struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"user_id"`
	ActionType string    `json:"action_type"`
	ItemID     string    `json:"item_id"`
	ClientType string    `json:"client_type"`
	CreatedAt  time.Time `json:"created_at"`
}

// ItemViews is a menu item with its view count.
type ItemViews struct {
	ItemID string `json:"item_id"`
	Views  int64  `json:"views"`
}

// ItemAdds is a menu item with its add-to-cart count.
type ItemAdds struct {
	ItemID string `json:"item_id"`
	Adds   int64  `json:"adds"`
}

// ItemOrders is a menu item with its order count.
type ItemOrders struct {
	ItemID string `json:"item_id"`
	Orders int64  `json:"orders"`
}

// ClientCount is the number of actions recorded from one client type.
type ClientCount struct {
	ClientType string `json:"client_type"`
	Actions    int64  `json:"actions"`
}

// AnalyticsSummary ranks menu items by views, cart additions and orders.
type AnalyticsSummary struct {
	TopViewed      []ItemViews   `json:"top_viewed"`
	TopAddedToCart []ItemAdds    `json:"top_added_to_cart"`
	TopOrdered     []ItemOrders  `json:"top_ordered"`
	Clients        []ClientCount `json:"clients"`
}
