package middleware

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/Conceptual-Machines/loopgen-api/internal/config"
)

// Auth picks the authentication middleware for the configured AUTH_MODE
func Auth(cfg *config.Config) gin.HandlerFunc {
	switch {
	case cfg.IsGatewayMode():
		log.Println("🔐 Auth mode: gateway (trusting X-User-* headers)")
		return GatewayAuth()
	case cfg.IsJWTMode():
		if cfg.JWTSecret == "" {
			log.Println("⚠️  AUTH_MODE=jwt without JWT_SECRET, every token will be rejected")
		}
		log.Println("🔐 Auth mode: jwt (HS256 bearer tokens)")
		return JWTAuth(cfg.JWTSecret)
	default:
		log.Println("🔓 Auth mode: none")
		return NoAuth()
	}
}
