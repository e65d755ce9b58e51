package handlers

import (
	"strings"

	"github.com/cardly-iq/cardly/internal/i18n"
	"github.com/gin-gonic/gin"
)

// LanguageCookie is the cookie carrying the visitor's language selection.
const LanguageCookie = "cardly_lang"

// languageCookieMaxAge keeps the selection for one year.
const languageCookieMaxAge = 365 * 24 * 60 * 60

// activeLanguage returns the request language resolved by the middleware.
func activeLanguage(c *gin.Context) i18n.Language {
	val, exists := c.Get("language")
	if !exists {
		return i18n.DefaultLanguage
	}
	lang, ok := val.(i18n.Language)
	if !ok {
		return i18n.DefaultLanguage
	}
	return lang
}

// splitCSV splits a comma-separated query value, dropping empty entries.
func splitCSV(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
