package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GatewayAuth trusts user info from gateway headers (X-User-ID, X-User-Email, X-User-Role).
// This is used when the API runs behind a gateway that validates tokens and
// enforces quotas.
//
// When AUTH_MODE=gateway, the API trusts these headers unconditionally.
// This should ONLY be used in the hosted environment with proper network isolation.
func GatewayAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Authentication required",
				"message": "Missing X-User-ID header from gateway",
			})
			return
		}

		setUser(c, userID, c.GetHeader("X-User-Email"), c.GetHeader("X-User-Role"))

		// Also set API key info if present
		if apiKeyID := c.GetHeader("X-API-Key-ID"); apiKeyID != "" {
			c.Set("api_key_id", apiKeyID)
			c.Set("api_key_scopes", c.GetHeader("X-API-Key-Scopes"))
		}

		c.Next()
	}
}

func setUser(c *gin.Context, id, email, role string) {
	c.Set("user_id", id)
	c.Set("user_email", email)
	c.Set("user_role", role)
}

// GetUserID retrieves the authenticated user ID
// Returns the ID and a boolean indicating if it was found
func GetUserID(c *gin.Context) (string, bool) {
	id := c.GetString("user_id")
	return id, id != ""
}

// GetUserEmail retrieves the authenticated user email
func GetUserEmail(c *gin.Context) (string, bool) {
	email := c.GetString("user_email")
	return email, email != ""
}

// GetUserRole retrieves the authenticated user role
func GetUserRole(c *gin.Context) (string, bool) {
	role := c.GetString("user_role")
	return role, role != ""
}
