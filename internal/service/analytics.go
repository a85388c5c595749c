// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/mileusna/useragent"

	"github.com/olegiv/omenu/internal/model"
	"github.com/olegiv/omenu/internal/store"
	"github.com/olegiv/omenu/internal/translate"
)

// DefaultSummaryLimit is the length of each ranking in the analytics summary.
const DefaultSummaryLimit = 10

const maxActionTypeLen = 64

// AnalyticsService records visitor actions on menu items and ranks items by them.
type AnalyticsService struct {
	queries *store.Queries
	now     func() time.Time
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(db *sql.DB) *AnalyticsService {
	return &AnalyticsService{
		queries: store.New(db),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// ActionInput is a user action as submitted by a client. Timestamp is unix
// seconds; zero means now.
type ActionInput struct {
	UserID     string `json:"user_id"`
	ActionType string `json:"action_type"`
	ItemID     string `json:"item_id"`
	Timestamp  int64  `json:"timestamp,omitempty"`
}

// LogAction validates and stores an action. userAgent is the request's
// User-Agent header and decides the recorded client type.
func (s *AnalyticsService) LogAction(ctx context.Context, in ActionInput, userAgent string) (model.UserAction, error) {
	in.UserID = strings.TrimSpace(in.UserID)
	in.ActionType = strings.ToLower(strings.TrimSpace(in.ActionType))
	in.ItemID = strings.TrimSpace(in.ItemID)

	switch {
	case in.UserID == "":
		return model.UserAction{}, &translate.ValidationError{Field: "user_id", Message: "user_id is required"}
	case in.ActionType == "":
		return model.UserAction{}, &translate.ValidationError{Field: "action_type", Message: "action_type is required"}
	case len(in.ActionType) > maxActionTypeLen:
		return model.UserAction{}, &translate.ValidationError{Field: "action_type", Message: fmt.Sprintf("action_type must be at most %d characters", maxActionTypeLen)}
	case in.ItemID == "":
		return model.UserAction{}, &translate.ValidationError{Field: "item_id", Message: "item_id is required"}
	case in.Timestamp < 0:
		return model.UserAction{}, &translate.ValidationError{Field: "timestamp", Message: "timestamp must be unix seconds"}
	}

	at := s.now()
	if in.Timestamp > 0 {
		at = time.Unix(in.Timestamp, 0).UTC()
	}

	row, err := s.queries.CreateUserAction(ctx, store.CreateUserActionParams{
		UserID:     in.UserID,
		ActionType: in.ActionType,
		ItemID:     in.ItemID,
		ClientType: ClientType(userAgent),
		CreatedAt:  at,
	})
	if err != nil {
		return model.UserAction{}, fmt.Errorf("logging user action: %w", err)
	}
	return model.UserAction{
		ID:         row.ID,
		UserID:     row.UserID,
		ActionType: row.ActionType,
		ItemID:     row.ItemID,
		ClientType: row.ClientType,
		CreatedAt:  row.CreatedAt,
	}, nil
}

// ClientType classifies a User-Agent string. An empty string is unknown.
func ClientType(uaString string) string {
	if strings.TrimSpace(uaString) == "" {
		return model.ClientUnknown
	}
	ua := useragent.Parse(uaString)
	switch {
	case ua.Mobile:
		return model.ClientMobile
	case ua.Tablet:
		return model.ClientTablet
	case ua.Bot:
		return model.ClientBot
	default:
		return model.ClientDesktop
	}
}

// Summary ranks items by views, cart additions and orders. Each ranking
// holds at most limit entries; limit <= 0 uses DefaultSummaryLimit.
func (s *AnalyticsService) Summary(ctx context.Context, limit int) (model.AnalyticsSummary, error) {
	if limit <= 0 {
		limit = DefaultSummaryLimit
	}
	n := int64(limit)

	summary := model.AnalyticsSummary{
		TopViewed:      []model.ItemViews{},
		TopAddedToCart: []model.ItemAdds{},
		TopOrdered:     []model.ItemOrders{},
		Clients:        []model.ClientCount{},
	}

	views, err := s.queries.TopItemsByAction(ctx, model.ActionView, n)
	if err != nil {
		return summary, fmt.Errorf("ranking views: %w", err)
	}
	for _, kc := range views {
		summary.TopViewed = append(summary.TopViewed, model.ItemViews{ItemID: kc.Key, Views: kc.Count})
	}

	adds, err := s.queries.TopItemsByAction(ctx, model.ActionAddToCart, n)
	if err != nil {
		return summary, fmt.Errorf("ranking cart additions: %w", err)
	}
	for _, kc := range adds {
		summary.TopAddedToCart = append(summary.TopAddedToCart, model.ItemAdds{ItemID: kc.Key, Adds: kc.Count})
	}

	orders, err := s.queries.TopItemsByAction(ctx, model.ActionOrder, n)
	if err != nil {
		return summary, fmt.Errorf("ranking orders: %w", err)
	}
	for _, kc := range orders {
		summary.TopOrdered = append(summary.TopOrdered, model.ItemOrders{ItemID: kc.Key, Orders: kc.Count})
	}

	clients, err := s.queries.CountUserActionsByClient(ctx)
	if err != nil {
		return summary, fmt.Errorf("counting clients: %w", err)
	}
	for _, kc := range clients {
		summary.Clients = append(summary.Clients, model.ClientCount{ClientType: kc.Key, Actions: kc.Count})
	}
	return summary, nil
}
