// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package chat

import (
	"embed"
	"fmt"
	"log/slog"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"

	"github.com/olegiv/omenu/internal/model"
)

//go:embed active.*.toml
var localeFS embed.FS

// Message IDs of the canned assistant texts.
const (
	msgWelcome         = "welcome"
	msgNotUnderstood   = "not_understood"
	msgOrderConfirm    = "order_confirm"
	msgMenuPopular     = "menu_popular"
	msgInfoHours       = "info_hours"
	msgInfoLocation    = "info_location"
	msgInfoDelivery    = "info_delivery"
	msgInfoPayment     = "info_payment"
	msgInfoReservation = "info_reservation"
)

// Translator renders canned assistant texts from the embedded go-i18n bundles.
type Translator struct {
	bundle *i18n.Bundle
	logger *slog.Logger
}

// NewTranslator loads the embedded message files for every menu language.
// English is the bundle default and the fallback for missing messages.
func NewTranslator(logger *slog.Logger) (*Translator, error) {
	if logger == nil {
		logger = slog.Default()
	}
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, code := range model.LanguageCodes() {
		file := fmt.Sprintf("active.%s.toml", code)
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			return nil, fmt.Errorf("loading %s: %w", file, err)
		}
	}
	return &Translator{bundle: bundle, logger: logger}, nil
}

// T renders the message key in lang. Messages missing in lang fall back to
// English, and unknown keys render as the key itself.
func (t *Translator) T(lang model.LanguageCode, key string, data map[string]any) string {
	if key == "" {
		return ""
	}
	localizer := i18n.NewLocalizer(t.bundle, string(lang))
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if msg != "" {
		return msg
	}
	t.logger.Warn("chat message not localized", "key", key, "language", lang, "error", err)
	return key
}
