// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/olegiv/omenu/internal/model"
)

// indicators lists words and characters typical for each language.
// Order matters: the first language wins a tie.
var indicators = []struct {
	lang  model.LanguageCode
	marks []string
}{
	{model.LangAZ, []string{"salam", "necə", "və", "üçün", "istəyirəm", "edir", "olur", "mən", "siz", "biz", "ə", "ı", "ö", "ü"}},
	{model.LangEN, []string{"the", "and", "for", "is", "in", "to", "hello", "want", "please", "thank", "would", "like"}},
	{model.LangRU, []string{"и", "в", "не", "что", "привет", "пожалуйста", "спасибо", "хочу", "меню", "ы", "э", "я", "ю"}},
	{model.LangTR, []string{"ve", "için", "bir", "bu", "merhaba", "lütfen", "teşekkür", "istiyorum", "menü", "ı", "ğ", "ş", "ç", "ö", "ü"}},
	{model.LangAR, []string{"و", "في", "من", "هذا", "مرحبا", "شكرا", "أريد", "قائمة", "ا", "ب", "ت", "ث", "ج", "ح", "خ", "د"}},
	{model.LangHI, []string{"और", "के", "में", "है", "नमस्ते", "धन्यवाद", "चाहते", "मेनू", "ा", "ि", "ी", "ु", "ू", "े", "ै", "ो", "ौ"}},
	{model.LangFR, []string{"et", "le", "la", "les", "pour", "dans", "bonjour", "merci", "voudrais", "menu", "é", "è", "ê", "à", "ç", "ù"}},
	{model.LangIT, []string{"e", "il", "la", "per", "in", "ciao", "grazie", "vorrei", "menu", "à", "è", "ì", "ò", "ù"}},
}

// DetectLanguage guesses the language of text by counting indicator
// substrings. It returns fallback when no indicator matches.
func DetectLanguage(text string, fallback model.LanguageCode) model.LanguageCode {
	text = strings.ToLower(text)

	best, bestScore := fallback, 0
	for _, ind := range indicators {
		score := 0
		for _, m := range ind.marks {
			if strings.Contains(text, m) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = ind.lang, score
		}
	}
	return best
}
