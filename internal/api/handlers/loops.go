package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Conceptual-Machines/loopgen-api/internal/api/middleware"
	"github.com/Conceptual-Machines/loopgen-api/internal/logger"
	"github.com/Conceptual-Machines/loopgen-api/internal/models"
	"github.com/Conceptual-Machines/loopgen-api/internal/services"
)

const exportTimeout = 120 * time.Second

type LoopsHandler struct {
	service   *services.LoopService
	outputDir string
	counters  *MetricsHandler
}

func NewLoopsHandler(service *services.LoopService, outputDir string, counters *MetricsHandler) *LoopsHandler {
	return &LoopsHandler{
		service:   service,
		outputDir: outputDir,
		counters:  counters,
	}
}

// Generate composes a loop and returns its note events and score
func (h *LoopsHandler) Generate(c *gin.Context) {
	var req models.LoopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, err)
		return
	}

	userID, _ := middleware.GetUserID(c)
	fields := logger.WithContext(c)
	fields["style"] = req.Style
	fields["user_id"] = userID
	logger.Debug("Loop generation requested", fields)

	loop, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	if h.counters != nil {
		h.counters.CountGenerated()
	}

	c.JSON(http.StatusOK, loop.Response(c.GetString("request_id")))
}

// Export composes a loop and writes its pack under the output folder
func (h *LoopsHandler) Export(c *gin.Context) {
	var req models.LoopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), exportTimeout)
	defer cancel()

	loop, err := h.service.Generate(ctx, req)
	if err != nil {
		respondError(c, err)
		return
	}

	pack, err := h.service.Export(ctx, loop, h.outputDir, services.ExportOptions{
		Progress: func(stage services.Stage) {
			logger.Debug("Export stage", logger.Fields{"request_id": c.GetString("request_id"), "stage": string(stage)})
		},
	})
	if err != nil {
		respondError(c, err)
		return
	}
	if h.counters != nil {
		h.counters.CountGenerated()
		h.counters.CountExported()
	}

	c.JSON(http.StatusOK, pack.Response(c.GetString("request_id"), loop.Seed))
}
