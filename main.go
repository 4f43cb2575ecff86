package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/Conceptual-Machines/loopgen-api/internal/api"
	"github.com/Conceptual-Machines/loopgen-api/internal/config"
	"github.com/Conceptual-Machines/loopgen-api/internal/metrics"
	"github.com/Conceptual-Machines/loopgen-api/internal/notation"
	"github.com/Conceptual-Machines/loopgen-api/internal/services"
	"github.com/Conceptual-Machines/loopgen-api/internal/styles"
	"github.com/Conceptual-Machines/loopgen-api/internal/version"
)

const (
	sentryFlushTimeout = 2 * time.Second
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()
	releaseVersion := version.Get()

	// Initialize Sentry
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			Release:          "loopgen-api@" + releaseVersion, // Use embedded release version
			EnableTracing:    true,                            // Enable tracing for spans
			TracesSampleRate: 1.0,                             // 100% sampling for now, adjust based on volume
			EnableLogs:       true,                            // Enable Sentry Logs feature
			Debug:            !cfg.IsProduction(),             // Enable debug in non-prod
			BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
				// Filter out sensitive data
				if event.Request != nil {
					event.Request.Headers = filterSensitiveHeaders(event.Request.Headers)
				}
				return event
			},
		}); err != nil {
			log.Printf("Failed to initialize Sentry: %v", err)
		} else {
			log.Printf("✅ Sentry initialized (environment: %s, release: %s)", cfg.Environment, releaseVersion)
			// Flush on shutdown
			defer sentry.Flush(sentryFlushTimeout)
		}
	} else {
		log.Println("⚠️  Sentry not configured (SENTRY_DSN not set)")
	}

	// Load the style registry, embedded unless STYLES_FILE overrides it
	registry, err := styles.Open(cfg.StylesFile)
	if err != nil {
		sentry.CaptureException(err)
		log.Fatal("Failed to load styles:", err)
	}
	log.Printf("🎶 Loaded %d styles: %v", len(registry.Names()), registry.Names())

	// Score engraver
	engraver := notation.NewLilyPond(cfg.LilyPondPath, cfg.LilyPondTimeout)
	if !engraver.Available() {
		log.Printf("⚠️  %s not found, exports will skip the score PDF", cfg.LilyPondPath)
	}

	// Metrics
	metricsClient, err := metrics.NewClient(context.Background(), cfg.Environment)
	if err != nil {
		log.Printf("⚠️  Metrics disabled: %v", err)
	}
	sentryMetrics := metrics.NewSentryMetrics()

	service := services.NewLoopService(registry, engraver, metricsClient, sentryMetrics, services.Options{
		CoverFontPath: cfg.CoverFontPath,
	})

	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	router := api.SetupRouter(cfg, service, releaseVersion, metricsClient, sentryMetrics)

	log.Printf("🚀 Starting server on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		sentry.CaptureException(err)
		log.Fatal("Failed to start server:", err)
	}
}

func filterSensitiveHeaders(headers map[string]string) map[string]string {
	filtered := make(map[string]string)
	sensitiveKeys := map[string]bool{
		"authorization": true,
		"cookie":        true,
		"x-api-key":     true,
	}

	for k, v := range headers {
		if sensitiveKeys[strings.ToLower(k)] {
			filtered[k] = "[REDACTED]"
		} else {
			filtered[k] = v
		}
	}
	return filtered
}
