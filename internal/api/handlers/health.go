package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Conceptual-Machines/loopgen-api/internal/notation"
)

type HealthHandler struct {
	engraver notation.Engraver
}

func NewHealthHandler(engraver notation.Engraver) *HealthHandler {
	return &HealthHandler{engraver: engraver}
}

// HealthCheck returns the health status of the API.
// A missing engraver only degrades exports, so the API stays healthy.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	lilypondStatus := "unavailable"
	if h.engraver != nil && h.engraver.Available() {
		lilypondStatus = "available"
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"lilypond": gin.H{
			"status": lilypondStatus,
		},
	})
}
