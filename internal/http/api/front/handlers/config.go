package handlers

import (
	"net/http"

	"github.com/cardly-iq/cardly/internal/i18n"
	"github.com/cardly-iq/cardly/internal/settings"
	"github.com/gin-gonic/gin"
)

// ConfigHandler serves public site configuration and language selection.
type ConfigHandler struct {
	resolver *i18n.Resolver
}

// NewConfigHandler constructs a ConfigHandler.
func NewConfigHandler(resolver *i18n.Resolver) *ConfigHandler {
	return &ConfigHandler{resolver: resolver}
}

// Get returns the public site configuration with the resolved language.
func (h *ConfigHandler) Get(c *gin.Context) {
	lang := activeLanguage(c)
	c.JSON(http.StatusOK, gin.H{
		"site_name":     settings.StringValue(settings.SiteNameKey, settings.DefaultSiteName),
		"support_phone": settings.StringValue(settings.SupportPhoneKey, ""),
		"support_email": settings.StringValue(settings.SupportEmailKey, ""),
		"language":      lang,
		"direction":     i18n.DirectionOf(lang),
		"languages":     i18n.Supported(),
	})
}

// Translations returns the full message table for the resolved language so
// clients render without a lookup round trip per key.
func (h *ConfigHandler) Translations(c *gin.Context) {
	lang := activeLanguage(c)
	c.JSON(http.StatusOK, gin.H{
		"language":  lang,
		"direction": i18n.DirectionOf(lang),
		"messages":  h.resolver.Messages(lang),
	})
}

// setLanguageRequest defines the request body for changing the language.
type setLanguageRequest struct {
	Language string `json:"language"`
}

// SetLanguage persists the visitor's language selection in a cookie.
// Unsupported codes keep the current selection rather than failing.
func (h *ConfigHandler) SetLanguage(c *gin.Context) {
	var body setLanguageRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	lang, ok := i18n.Parse(body.Language)
	if !ok {
		lang = activeLanguage(c)
	} else {
		c.SetCookie(LanguageCookie, string(lang), languageCookieMaxAge, "/", "", false, false)
	}

	c.JSON(http.StatusOK, gin.H{
		"language":  lang,
		"direction": i18n.DirectionOf(lang),
	})
}
