package types

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Language is the output language selected in the UI.
type Language string

const (
	Vietnamese Language = "vi"
	English    Language = "en"
)

// DefaultLanguage is the language the dashboard starts in.
const DefaultLanguage = Vietnamese

var (
	supportedLanguages = []Language{Vietnamese, English}
	languageMatcher    = language.NewMatcher([]language.Tag{language.Vietnamese, language.English})
)

// ParseLanguage accepts a BCP 47 tag ("vi", "en-US", "vi-VN") and maps it onto
// one of the supported languages.
func ParseLanguage(s string) (Language, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("language must not be empty")
	}

	tag, err := language.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid language %q: %w", s, err)
	}

	_, idx, confidence := languageMatcher.Match(tag)
	if confidence == language.No {
		return "", fmt.Errorf("unsupported language %q (supported: vi, en)", s)
	}
	return supportedLanguages[idx], nil
}

// Valid reports whether l is one of the supported languages.
func (l Language) Valid() bool {
	return l == Vietnamese || l == English
}

// DisplayName is the English name used inside prompt instructions.
func (l Language) DisplayName() string {
	if l == Vietnamese {
		return "Vietnamese"
	}
	return "English"
}

// Pick returns vi when the language is Vietnamese and en otherwise.
func (l Language) Pick(vi, en string) string {
	if l == Vietnamese {
		return vi
	}
	return en
}
