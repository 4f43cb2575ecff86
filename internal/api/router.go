package api

import (
	"github.com/gin-gonic/gin"

	"github.com/Conceptual-Machines/loopgen-api/internal/api/handlers"
	apimiddleware "github.com/Conceptual-Machines/loopgen-api/internal/api/middleware"
	"github.com/Conceptual-Machines/loopgen-api/internal/config"
	"github.com/Conceptual-Machines/loopgen-api/internal/metrics"
	"github.com/Conceptual-Machines/loopgen-api/internal/services"
)

func SetupRouter(
	cfg *config.Config,
	service *services.LoopService,
	version string,
	metricsClient *metrics.Client,
	sentryMetrics *metrics.SentryMetrics,
) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(apimiddleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(apimiddleware.RequestTracking(metricsClient, sentryMetrics))

	// CORS middleware
	router.Use(apimiddleware.CORS())

	// Health check
	healthHandler := handlers.NewHealthHandler(service.Engraver())
	router.GET("/health", healthHandler.HealthCheck)

	// Metrics endpoint
	metricsHandler := handlers.NewMetricsHandler(version, service.Registry().Names())
	router.GET("/api/metrics", metricsHandler.GetMetrics)

	// API routes v1, auth per AUTH_MODE
	v1 := router.Group("/api/v1")
	v1.Use(apimiddleware.Auth(cfg))
	{
		stylesHandler := handlers.NewStylesHandler(service.Registry())
		v1.GET("/styles", stylesHandler.List)
		v1.GET("/styles/:name", stylesHandler.Get)

		loopsHandler := handlers.NewLoopsHandler(service, cfg.OutputDir, metricsHandler)
		v1.POST("/loops/generate", loopsHandler.Generate)
		v1.POST("/loops/export", loopsHandler.Export) // Writes the pack under OUTPUT_DIR
	}

	return router
}
