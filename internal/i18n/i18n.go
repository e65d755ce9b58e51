// Package i18n resolves the visitor's language selection to a translation
// table, a text direction, and the localized database tables backing the
// project directory.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
)

//go:embed locales/*.json
var localeFS embed.FS

// Language is one of the fixed supported locale codes.
type Language string

// Supported languages.
const (
	English Language = "en"
	Arabic  Language = "ar"
	Kurdish Language = "ku"
)

// DefaultLanguage is used when no valid prior selection exists.
const DefaultLanguage = English

// Direction is the text layout flow for a language.
type Direction string

// Text directions.
const (
	LTR Direction = "ltr"
	RTL Direction = "rtl"
)

// rtlLanguages is the fixed subset of languages rendered right-to-left.
var rtlLanguages = map[Language]struct{}{
	Arabic:  {},
	Kurdish: {},
}

// Resolver holds the loaded translation tables for all supported languages.
// It is immutable after construction and safe for concurrent use; the current
// selection lives with the client (cookie) and is passed per call.
type Resolver struct {
	tables map[Language]map[string]string
}

// NewResolver loads the embedded locale tables for every supported language.
func NewResolver() (*Resolver, error) {
	tables := make(map[Language]map[string]string, len(Supported()))
	for _, lang := range Supported() {
		raw, errRead := localeFS.ReadFile(fmt.Sprintf("locales/%s.json", lang))
		if errRead != nil {
			return nil, fmt.Errorf("i18n: read locale %s: %w", lang, errRead)
		}
		table := map[string]string{}
		if errDecode := json.Unmarshal(raw, &table); errDecode != nil {
			return nil, fmt.Errorf("i18n: decode locale %s: %w", lang, errDecode)
		}
		tables[lang] = table
	}
	return &Resolver{tables: tables}, nil
}

// Supported returns the fixed set of supported languages.
func Supported() []Language {
	return []Language{English, Arabic, Kurdish}
}

// IsSupported reports whether code names a supported language.
func IsSupported(code string) bool {
	_, ok := Parse(code)
	return ok
}

// Parse validates a raw language code. Unsupported or blank codes report
// ok=false so callers can treat them as a no-op rather than an error.
func Parse(code string) (Language, bool) {
	switch Language(strings.ToLower(strings.TrimSpace(code))) {
	case English:
		return English, true
	case Arabic:
		return Arabic, true
	case Kurdish:
		return Kurdish, true
	default:
		return "", false
	}
}

// DirectionOf derives the text direction for a language. The direction is a
// pure function of the language and is never stored separately, so the two
// cannot drift apart.
func DirectionOf(lang Language) Direction {
	if _, ok := rtlLanguages[lang]; ok {
		return RTL
	}
	return LTR
}

// Translate looks up key in the table for lang. A missing key returns the key
// itself unchanged; an unsupported language falls back to the default table.
func (r *Resolver) Translate(lang Language, key string) string {
	table, ok := r.tables[lang]
	if !ok {
		table = r.tables[DefaultLanguage]
	}
	if value, found := table[key]; found {
		return value
	}
	return key
}

// Messages returns a copy of the full translation table for lang so clients
// can render without a round trip per key. An unsupported language yields the
// default table.
func (r *Resolver) Messages(lang Language) map[string]string {
	table, ok := r.tables[lang]
	if !ok {
		table = r.tables[DefaultLanguage]
	}
	out := make(map[string]string, len(table))
	for k, v := range table {
		out[k] = v
	}
	return out
}

// ProjectTable maps the base project table to its language-suffixed variant.
// English content lives in the base table.
func ProjectTable(lang Language) string {
	if lang == English {
		return "projects"
	}
	if _, ok := Parse(string(lang)); !ok {
		return "projects"
	}
	return "projects_" + string(lang)
}
