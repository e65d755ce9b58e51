package front

import (
	"github.com/cardly-iq/cardly/internal/cache"
	"github.com/cardly-iq/cardly/internal/http/api/front/handlers"
	"github.com/cardly-iq/cardly/internal/i18n"
	"github.com/cardly-iq/cardly/internal/storage"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RegisterFrontRoutes registers the public holder-facing routes.
func RegisterFrontRoutes(r *gin.Engine, db *gorm.DB, resolver *i18n.Resolver, store storage.ObjectStore, cacheClient *cache.Cache) {
	if r == nil || db == nil || resolver == nil {
		return
	}

	front := r.Group("/v0/front")
	front.Use(languageMiddleware())

	configHandler := handlers.NewConfigHandler(resolver)
	front.GET("/config", configHandler.Get)
	front.GET("/translations", configHandler.Translations)
	front.PUT("/language", configHandler.SetLanguage)

	cardHandler := handlers.NewCardFrontHandler(db, resolver)
	front.GET("/cards/:card_id", cardHandler.Verify)
	front.POST("/cards/:card_id/activate", cardHandler.Activate)

	pictureHandler := handlers.NewPictureHandler(db, store)
	front.POST("/cards/:card_id/picture", pictureHandler.Upload)

	projectHandler := handlers.NewProjectFrontHandler(db, cacheClient)
	front.GET("/projects", projectHandler.List)
	front.GET("/projects/featured", projectHandler.Featured)
}

// languageMiddleware resolves the request language and loads it into context.
// An explicit query parameter wins over the stored cookie; anything invalid
// falls back to the default without an error.
func languageMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := i18n.DefaultLanguage
		if cookie, errCookie := c.Cookie(handlers.LanguageCookie); errCookie == nil {
			if parsed, ok := i18n.Parse(cookie); ok {
				lang = parsed
			}
		}
		if query := c.Query("lang"); query != "" {
			if parsed, ok := i18n.Parse(query); ok {
				lang = parsed
			}
		}
		c.Set("language", lang)
		c.Next()
	}
}
