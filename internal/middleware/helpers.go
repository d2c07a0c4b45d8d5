// internal/middleware/helpers.go
package middleware

import (
	"grocer-service/internal/domain/user"

	"github.com/gin-gonic/gin"
)

// GetUserID gets the authenticated user id from context
func GetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get(ctxUserID)
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

// MustGetUserID gets the user id from context or panics
func MustGetUserID(c *gin.Context) string {
	id, exists := GetUserID(c)
	if !exists {
		panic("user_id not found in context")
	}
	return id
}

// GetRole gets the user role from context
func GetRole(c *gin.Context) string {
	return c.GetString(ctxRole)
}

// GetUserName gets the display name carried by the token
func GetUserName(c *gin.Context) string {
	return c.GetString(ctxName)
}

// IsAdmin checks if user is an admin
func IsAdmin(c *gin.Context) bool {
	return GetRole(c) == user.RoleAdmin
}
