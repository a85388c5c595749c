// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "testing"

func TestColumnsFor(t *testing.T) {
	tests := []struct {
		code     string
		wantName string
		wantDesc string
	}{
		{"az", "name_az", "description_az"},
		{"en", "name_en", "description_en"},
		{"ru", "name_ru", "description_ru"},
		{"tr", "name_tr", "description_tr"},
		{"ar", "name_ar", "description_ar"},
		{"hi", "name_hi", "description_hi"},
		{"fr", "name_fr", "description_fr"},
		{"it", "name_it", "description_it"},
		{"xx", "name_en", "description_en"},
		{"", "name_en", "description_en"},
		{"RU", "name_en", "description_en"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got := ColumnsFor(tt.code)
			if got.Name != tt.wantName || got.Description != tt.wantDesc {
				t.Errorf("ColumnsFor(%q) = %+v, want {%s %s}", tt.code, got, tt.wantName, tt.wantDesc)
			}
		})
	}
}

func TestFallbackColumns(t *testing.T) {
	if FallbackColumns != ColumnsFor(string(CanonicalLanguage)) {
		t.Errorf("FallbackColumns = %+v, want the %s pair", FallbackColumns, CanonicalLanguage)
	}
	for _, code := range []string{"xx", "", "RU", "en-US"} {
		if got := ColumnsFor(code); got != FallbackColumns {
			t.Errorf("ColumnsFor(%q) = %+v, want FallbackColumns", code, got)
		}
	}
}

func TestTranslationColumns(t *testing.T) {
	cols := TranslationColumns()
	if len(cols) != 16 {
		t.Fatalf("TranslationColumns() returned %d columns, want 16", len(cols))
	}
	if cols[0] != "name_az" || cols[7] != "name_it" {
		t.Errorf("name columns out of order: %v", cols[:8])
	}
	if cols[8] != "description_az" || cols[15] != "description_it" {
		t.Errorf("description columns out of order: %v", cols[8:])
	}

	seen := make(map[string]bool)
	for _, c := range cols {
		if seen[c] {
			t.Errorf("duplicate column %q", c)
		}
		seen[c] = true
	}
}

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		in     string
		want   LanguageCode
		wantOK bool
	}{
		{"ru", LangRU, true},
		{" RU ", LangRU, true},
		{"Ar", LangAR, true},
		{"de", "de", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseLanguage(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseLanguage(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestNormalizeLanguage(t *testing.T) {
	if got := NormalizeLanguage("xx"); got != CanonicalLanguage {
		t.Errorf("NormalizeLanguage(xx) = %q, want %q", got, CanonicalLanguage)
	}
	if got := NormalizeLanguage("FR"); got != LangFR {
		t.Errorf("NormalizeLanguage(FR) = %q, want fr", got)
	}
}

func TestLanguagesRTL(t *testing.T) {
	for _, l := range Languages {
		want := l.Code == LangAR
		if l.IsRTL() != want {
			t.Errorf("%s IsRTL() = %v, want %v", l.Code, l.IsRTL(), want)
		}
	}
	if len(LanguageCodes()) != 8 {
		t.Errorf("LanguageCodes() length = %d, want 8", len(LanguageCodes()))
	}
}
