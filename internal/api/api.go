package api

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// parseID reads a numeric path parameter. Returns 0, false after writing the
// 400 response when the value is not a positive integer.
func parseID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(400, gin.H{"error": name + " must be a positive integer"})
		return 0, false
	}
	return uint(id), true
}
