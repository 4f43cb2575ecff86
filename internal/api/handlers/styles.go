package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Conceptual-Machines/loopgen-api/internal/models"
	"github.com/Conceptual-Machines/loopgen-api/internal/styles"
)

type StylesHandler struct {
	registry *styles.Registry
}

func NewStylesHandler(registry *styles.Registry) *StylesHandler {
	return &StylesHandler{registry: registry}
}

// List returns every style with its defaults
func (h *StylesHandler) List(c *gin.Context) {
	list := make([]models.StyleInfo, 0, len(h.registry.Names()))
	for _, s := range h.registry.Styles() {
		list = append(list, s.Info())
	}
	c.JSON(http.StatusOK, gin.H{"styles": list})
}

// Get returns one style
func (h *StylesHandler) Get(c *gin.Context) {
	style, err := h.registry.Lookup(c.Param("name"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "code": codeUnsupportedStyle})
		return
	}
	c.JSON(http.StatusOK, style.Info())
}
