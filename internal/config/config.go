package config

import (
	"os"
	"strconv"
	"time"
)

const defaultLilyPondTimeout = 60 * time.Second

// Config holds the application configuration
// Note: This is a stateless configuration - loops are generated per request
// and written to OutputDir, nothing is persisted between requests
type Config struct {
	// Environment
	Environment string
	Port        string

	// Observability
	SentryDSN string // Sentry DSN for error tracking

	// Auth mode
	// - "none": No auth (self-hosted, local dev)
	// - "gateway": Trust X-User-* headers from an upstream gateway
	// - "jwt": Validate HS256 bearer tokens signed with JWTSecret
	AuthMode  string
	JWTSecret string

	// Export
	OutputDir       string        // Root folder for exported loop packs
	LilyPondPath    string        // Engraver binary, looked up on PATH when bare
	LilyPondTimeout time.Duration // Per-score engraving limit
	CoverFontPath   string        // Optional TTF/OTF for cover text, Go fonts otherwise
	StylesFile      string        // Optional style registry override, embedded otherwise
}

func Load() *Config {
	return &Config{
		Environment:     getEnv("ENVIRONMENT", "development"),
		Port:            getEnv("PORT", "8080"),
		SentryDSN:       getEnv("SENTRY_DSN", ""),
		AuthMode:        getEnv("AUTH_MODE", "none"), // Default to no auth for self-hosted
		JWTSecret:       getEnv("JWT_SECRET", ""),
		OutputDir:       getEnv("OUTPUT_DIR", "output"),
		LilyPondPath:    getEnv("LILYPOND_PATH", "lilypond"),
		LilyPondTimeout: getDuration("LILYPOND_TIMEOUT", defaultLilyPondTimeout),
		CoverFontPath:   getEnv("COVER_FONT_PATH", ""),
		StylesFile:      getEnv("STYLES_FILE", ""),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

// getDuration accepts Go durations ("90s") or plain seconds ("90")
func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

// IsGatewayMode returns true if running behind an auth gateway
func (c *Config) IsGatewayMode() bool {
	return c.AuthMode == "gateway"
}

// IsJWTMode returns true if bearer tokens are validated locally
func (c *Config) IsJWTMode() bool {
	return c.AuthMode == "jwt"
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
