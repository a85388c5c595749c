// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "strings"

// Language text directions
const (
	DirectionLTR = "ltr"
	DirectionRTL = "rtl"
)

// LanguageCode identifies one of the menu languages.
type LanguageCode string

// Supported menu languages.
const (
	LangAZ LanguageCode = "az"
	LangEN LanguageCode = "en"
	LangRU LanguageCode = "ru"
	LangTR LanguageCode = "tr"
	LangAR LanguageCode = "ar"
	LangHI LanguageCode = "hi"
	LangFR LanguageCode = "fr"
	LangIT LanguageCode = "it"
)

// CanonicalLanguage is the language every other language falls back to.
const CanonicalLanguage = LangEN

// Language describes a menu language for listings and negotiation.
type Language struct {
	Code       LanguageCode `json:"code"`
	Name       string       `json:"name"`        // Azerbaijani, English, Russian
	NativeName string       `json:"native_name"` // Azərbaycan, English, Русский
	Direction  string       `json:"direction"`   // ltr, rtl
}

// IsRTL returns true if the language is right-to-left.
func (l Language) IsRTL() bool {
	return l.Direction == DirectionRTL
}

// Languages is the closed set of menu languages in column order.
var Languages = []Language{
	{LangAZ, "Azerbaijani", "Azərbaycan", DirectionLTR},
	{LangEN, "English", "English", DirectionLTR},
	{LangRU, "Russian", "Русский", DirectionLTR},
	{LangTR, "Turkish", "Türkçe", DirectionLTR},
	{LangAR, "Arabic", "العربية", DirectionRTL},
	{LangHI, "Hindi", "हिन्दी", DirectionLTR},
	{LangFR, "French", "Français", DirectionLTR},
	{LangIT, "Italian", "Italiano", DirectionLTR},
}

// LanguageColumns names the per-language columns of a translatable table.
type LanguageColumns struct {
	Name        string
	Description string
}

var languageColumns = map[LanguageCode]LanguageColumns{
	LangAZ: {"name_az", "description_az"},
	LangEN: {"name_en", "description_en"},
	LangRU: {"name_ru", "description_ru"},
	LangTR: {"name_tr", "description_tr"},
	LangAR: {"name_ar", "description_ar"},
	LangHI: {"name_hi", "description_hi"},
	LangFR: {"name_fr", "description_fr"},
	LangIT: {"name_it", "description_it"},
}

// FallbackColumns is the pair ColumnsFor returns for unsupported codes.
var FallbackColumns = languageColumns[CanonicalLanguage]

// ColumnsFor returns the column pair holding translations for code.
// Codes outside the supported set resolve to FallbackColumns.
func ColumnsFor(code string) LanguageColumns {
	cols, ok := languageColumns[LanguageCode(code)]
	if !ok {
		return FallbackColumns
	}
	return cols
}

// TranslationColumns returns every per-language column: all name columns
// first, then all description columns.
func TranslationColumns() []string {
	cols := make([]string, 0, 2*len(Languages))
	for _, l := range Languages {
		cols = append(cols, languageColumns[l.Code].Name)
	}
	for _, l := range Languages {
		cols = append(cols, languageColumns[l.Code].Description)
	}
	return cols
}

// IsSupportedLanguage reports whether code is one of the menu languages.
func IsSupportedLanguage(code string) bool {
	_, ok := languageColumns[LanguageCode(code)]
	return ok
}

// ParseLanguage normalises code and reports whether it is supported.
func ParseLanguage(code string) (LanguageCode, bool) {
	c := LanguageCode(strings.ToLower(strings.TrimSpace(code)))
	_, ok := languageColumns[c]
	return c, ok
}

// NormalizeLanguage returns the supported code for s, or the canonical
// language when s is not supported.
func NormalizeLanguage(s string) LanguageCode {
	if c, ok := ParseLanguage(s); ok {
		return c
	}
	return CanonicalLanguage
}

// LanguageCodes returns the supported codes in column order.
func LanguageCodes() []LanguageCode {
	codes := make([]LanguageCode, len(Languages))
	for i, l := range Languages {
		codes[i] = l.Code
	}
	return codes
}
