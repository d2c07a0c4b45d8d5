// internal/pkg/jwt/claims.go
package jwt

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the JWT claims issued by the storefront's auth service.
type Claims struct {
	UserID string `json:"user_id"`
	Name   string `json:"name,omitempty"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// IsAdmin checks if the token belongs to an admin.
func (c *Claims) IsAdmin() bool {
	return c.Role == "admin"
}
