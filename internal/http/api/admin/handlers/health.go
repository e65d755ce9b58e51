package handlers

import (
	"net/http"

	"github.com/cardly-iq/cardly/internal/buildinfo"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HealthHandler reports service liveness for deploy and uptime checks.
type HealthHandler struct {
	db *gorm.DB // Database handle probed on each check.
}

// NewHealthHandler wires the health endpoint to the database connection.
func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Healthz pings the database and reports the service status together with
// the running build version. A failed ping degrades the status to 503.
func (h *HealthHandler) Healthz(c *gin.Context) {
	sqlDB, errDB := h.db.DB()
	if errDB == nil {
		errDB = sqlDB.PingContext(c.Request.Context())
	}
	if errDB != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "degraded",
			"version": buildinfo.Version,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}
