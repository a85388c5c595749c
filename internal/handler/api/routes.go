// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/omenu/internal/middleware"
	"github.com/olegiv/omenu/internal/model"
)

// Route paths.
const (
	RouteHealth     = "/health"
	RouteMenu       = "/api/menu"
	RouteChat       = "/api/chat"
	RouteAdmin      = "/api/admin"
	RouteAnalytics  = "/api/analytics"
	RouteCategories = "/categories"
	RouteCategoryID = "/categories/{id}"
	RouteItems      = "/items"
	RouteItemID     = "/items/{id}"
	RoutePairing    = "/items/{id}/pairings/{pairedID}"
)

// RouteOptions tunes the mounted routes.
type RouteOptions struct {
	// FallbackLanguage is used when neither ?language= nor
	// Accept-Language names a supported language.
	FallbackLanguage model.LanguageCode
	// ChatLimiter, when set, wraps every chat endpoint.
	ChatLimiter func(http.Handler) http.Handler
}

// Routes mounts the health check and the menu, chat, analytics and admin
// APIs on r.
func (h *Handler) Routes(r chi.Router, opts RouteOptions) {
	if opts.FallbackLanguage == "" {
		opts.FallbackLanguage = model.CanonicalLanguage
	}

	r.Get(RouteHealth, h.Health)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Language(opts.FallbackLanguage))

		r.Route(RouteMenu, func(r chi.Router) {
			r.Get(RouteCategories, h.ListCategories)
			r.Get(RouteCategoryID, h.GetCategory)
			r.Get(RouteItems, h.ListItems)
			r.Get(RouteItemID, h.GetItem)
			r.Get("/recommendations", h.Recommendations)
			r.Get("/summary", h.Summary)
			r.Get("/languages", h.ListLanguages)

			r.Route("/admin", func(r chi.Router) {
				r.Post(RouteCategories, h.CreateCategory)
				r.Put(RouteCategoryID, h.UpdateCategory)
				r.Delete(RouteCategoryID, h.DeleteCategory)
				r.Post(RouteItems, h.CreateItem)
				r.Put(RouteItemID, h.UpdateItem)
				r.Delete(RouteItemID, h.DeleteItem)
				r.Put(RoutePairing, h.SetPairing)
			})
		})

		r.Route(RouteChat, func(r chi.Router) {
			if opts.ChatLimiter != nil {
				r.Use(opts.ChatLimiter)
			}
			r.Post("/start", h.StartChat)
			r.Post("/message", h.ChatMessage)
			r.Get("/history/{id}", h.ChatHistory)
			r.Post("/end/{id}", h.EndChat)
		})

		r.Route(RouteAnalytics, func(r chi.Router) {
			r.Post("/user_action", h.LogUserAction)
			r.Get("/summary", h.AnalyticsSummary)
		})

		r.Route(RouteAdmin, func(r chi.Router) {
			r.Get("/export", h.Export)
			r.Post("/import", h.Import)
			r.Get("/translations/coverage", h.Coverage)
			r.Get("/events", h.ListEvents)
			r.Get("/jobs", h.ListJobs)
			r.Post("/jobs/{name}/run", h.RunJob)
		})
	})
}
