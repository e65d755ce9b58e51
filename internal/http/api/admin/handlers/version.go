package handlers

import (
	"net/http"

	"github.com/cardly-iq/cardly/internal/buildinfo"
	"github.com/gin-gonic/gin"
)

// GetVersion returns the running build's version metadata.
func GetVersion(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version":    buildinfo.Version,
		"commit":     buildinfo.Commit,
		"build_date": buildinfo.BuildDate,
	})
}
