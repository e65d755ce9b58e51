package admin

import (
	"net/http"
	"strings"

	"github.com/cardly-iq/cardly/internal/cache"
	"github.com/cardly-iq/cardly/internal/config"
	"github.com/cardly-iq/cardly/internal/http/api/admin/handlers"
	"github.com/cardly-iq/cardly/internal/models"
	"github.com/cardly-iq/cardly/internal/security"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RegisterAdminRoutes registers the staff-facing management routes.
func RegisterAdminRoutes(r *gin.Engine, db *gorm.DB, jwtCfg config.JWTConfig, cacheClient *cache.Cache) {
	if r == nil || db == nil {
		return
	}

	adminGroup := r.Group("/v0/admin")

	healthHandler := handlers.NewHealthHandler(db)
	adminGroup.GET("/healthz", healthHandler.Healthz)

	authHandler := handlers.NewAuthHandler(db, jwtCfg)
	adminGroup.POST("/login", authHandler.Login)
	adminGroup.POST("/login/prepare", authHandler.LoginPrepare)
	adminGroup.POST("/login/totp", authHandler.LoginTOTP)

	authed := adminGroup.Group("")
	authed.Use(staffAuthMiddleware(db, jwtCfg))

	authed.GET("/version", handlers.GetVersion)
	authed.PUT("/profile/password", authHandler.ChangePassword)

	mfaHandler := handlers.NewMFAHandler(db)
	authed.GET("/mfa/status", mfaHandler.Status)
	authed.POST("/mfa/totp/prepare", mfaHandler.PrepareTOTP)
	authed.POST("/mfa/totp/confirm", mfaHandler.ConfirmTOTP)
	authed.POST("/mfa/totp/disable", mfaHandler.DisableTOTP)

	cardHandler := handlers.NewDiscountCardHandler(db)
	authed.POST("/cards", cardHandler.Create)
	authed.POST("/cards/batch", cardHandler.BatchCreate)
	authed.GET("/cards", cardHandler.List)
	authed.GET("/cards/:card_id", cardHandler.Get)

	projectHandler := handlers.NewProjectHandler(db, cacheClient)
	authed.GET("/projects", projectHandler.List)
	authed.POST("/projects", projectHandler.Create)
	authed.PUT("/projects/:id", projectHandler.Update)
	authed.DELETE("/projects/:id", projectHandler.Delete)

	settingsHandler := handlers.NewSettingsHandler(db)
	authed.GET("/settings", settingsHandler.List)
	authed.PUT("/settings", settingsHandler.Upsert)
	authed.DELETE("/settings/:key", settingsHandler.Delete)
}

// staffAuthMiddleware validates staff JWTs and loads the account into context.
func staffAuthMiddleware(db *gorm.DB, jwtCfg config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}
		token = strings.TrimSpace(token)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "empty token"})
			return
		}

		claims, errJWT := security.ParseStaffToken(jwtCfg.Secret, token)
		if errJWT != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		var staff models.Staff
		if errFind := db.WithContext(c.Request.Context()).First(&staff, claims.StaffID).Error; errFind != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "staff not found"})
			return
		}
		if !staff.Active {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "account disabled"})
			return
		}

		c.Set("staffID", staff.ID)
		c.Next()
	}
}
