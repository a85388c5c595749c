// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"

	"golang.org/x/text/language"

	"github.com/olegiv/omenu/internal/model"
)

// ContextKeyLanguage is the context key for the negotiated menu language.
const ContextKeyLanguage ContextKey = "language"

// LanguageParam is the query parameter that selects the response language.
const LanguageParam = "language"

var (
	supportedCodes = model.LanguageCodes()
	languageTags   = func() []language.Tag {
		tags := make([]language.Tag, len(supportedCodes))
		for i, c := range supportedCodes {
			tags[i] = language.MustParse(string(c))
		}
		return tags
	}()
	languageMatcher = language.NewMatcher(languageTags)
)

// Language negotiates the menu language of a request.
// Priority order:
// 1. Query parameter ?language=XX (unsupported codes resolve to English)
// 2. Accept-Language header, matched against the supported languages
// 3. fallback
func Language(fallback model.LanguageCode) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := fallback
			if q := r.URL.Query().Get(LanguageParam); q != "" {
				lang = model.NormalizeLanguage(q)
			} else if code, ok := matchAcceptLanguage(r.Header.Get("Accept-Language")); ok {
				lang = code
			}
			ctx := context.WithValue(r.Context(), ContextKeyLanguage, lang)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// matchAcceptLanguage returns the best supported language for an
// Accept-Language header value.
func matchAcceptLanguage(header string) (model.LanguageCode, bool) {
	if header == "" {
		return "", false
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return "", false
	}
	_, idx, conf := languageMatcher.Match(tags...)
	if conf == language.No {
		return "", false
	}
	return supportedCodes[idx], true
}

// GetLanguage returns the negotiated language, or English when the
// Language middleware did not run.
func GetLanguage(r *http.Request) model.LanguageCode {
	if lang, ok := r.Context().Value(ContextKeyLanguage).(model.LanguageCode); ok {
		return lang
	}
	return model.CanonicalLanguage
}
