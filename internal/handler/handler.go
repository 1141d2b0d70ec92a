package handler

import (
	"github.com/gin-gonic/gin"
)

// currentUser pulls the authenticated user's id and role out of the gin
// context. RequireRole guarantees both are set on protected routes.
func currentUser(c *gin.Context) (string, string) {
	id, _ := c.Get("userID")
	role, _ := c.Get("userRole")

	idStr, _ := id.(string)
	roleStr, _ := role.(string)
	return idStr, roleStr
}
