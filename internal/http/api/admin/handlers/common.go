package handlers

import "github.com/gin-gonic/gin"

// getStaffID extracts the authenticated staff ID from gin context.
func getStaffID(c *gin.Context) uint64 {
	val, exists := c.Get("staffID")
	if !exists {
		return 0
	}
	switch v := val.(type) {
	case uint64:
		return v
	case int64:
		return uint64(v)
	case uint:
		return uint64(v)
	case int:
		return uint64(v)
	default:
		return 0
	}
}
