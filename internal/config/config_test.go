package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"ENVIRONMENT", "PORT", "AUTH_MODE", "OUTPUT_DIR", "LILYPOND_PATH", "LILYPOND_TIMEOUT", "STYLES_FILE"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "none", cfg.AuthMode)
	assert.Equal(t, "output", cfg.OutputDir)
	assert.Equal(t, "lilypond", cfg.LilyPondPath)
	assert.Equal(t, 60*time.Second, cfg.LilyPondTimeout)
	assert.Empty(t, cfg.StylesFile)
	assert.False(t, cfg.IsGatewayMode())
	assert.False(t, cfg.IsJWTMode())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("AUTH_MODE", "jwt")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("OUTPUT_DIR", "/tmp/loops")
	t.Setenv("COVER_FONT_PATH", "/fonts/Inter.ttf")

	cfg := Load()
	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.IsJWTMode())
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, "/tmp/loops", cfg.OutputDir)
	assert.Equal(t, "/fonts/Inter.ttf", cfg.CoverFontPath)
}

func TestGetDuration(t *testing.T) {
	tests := []struct {
		value string
		want  time.Duration
	}{
		{"", time.Minute},
		{"90s", 90 * time.Second},
		{"2m", 2 * time.Minute},
		{"15", 15 * time.Second},
		{"soon", time.Minute},
		{"-5", time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("LILYPOND_TIMEOUT", tt.value)
			assert.Equal(t, tt.want, getDuration("LILYPOND_TIMEOUT", time.Minute))
		})
	}
}
