package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Conceptual-Machines/loopgen-api/internal/logger"
	"github.com/Conceptual-Machines/loopgen-api/internal/services"
	"github.com/Conceptual-Machines/loopgen-api/internal/styles"
	"github.com/Conceptual-Machines/loopgen-api/internal/theory"
)

// Error codes returned with 400 responses
const (
	codeInvalidBody        = "invalid_body"
	codeUnsupportedStyle   = "unsupported_style"
	codeInvalidKey         = "invalid_key"
	codeInvalidScale       = "invalid_scale"
	codeInvalidProgression = "invalid_progression"
	codeInvalidRequest     = "invalid_request"
	codeInternal           = "internal_error"
)

var clientErrors = []struct {
	err  error
	code string
}{
	{styles.ErrUnsupportedStyle, codeUnsupportedStyle},
	{theory.ErrInvalidNoteName, codeInvalidKey},
	{theory.ErrUnknownMode, codeInvalidScale},
	{theory.ErrInvalidDegree, codeInvalidProgression},
	{theory.ErrUnknownQuality, codeInvalidProgression},
	{theory.ErrInvalidProgression, codeInvalidProgression},
	{services.ErrInvalidRequest, codeInvalidRequest},
}

// respondError maps validation errors to 400 and everything else to 500
func respondError(c *gin.Context, err error) {
	for _, ce := range clientErrors {
		if errors.Is(err, ce.err) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":      err.Error(),
				"code":       ce.code,
				"request_id": c.GetString("request_id"),
			})
			return
		}
	}

	_ = c.Error(err)
	logger.Error("Loop request failed", err, logger.WithContext(c))
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":      "Internal server error",
		"code":       codeInternal,
		"request_id": c.GetString("request_id"),
	})
}

func respondBadBody(c *gin.Context, err error) {
	code := codeInvalidBody
	for _, ce := range clientErrors {
		if errors.Is(err, ce.err) {
			code = ce.code
			break
		}
	}
	c.JSON(http.StatusBadRequest, gin.H{
		"error":      err.Error(),
		"code":       code,
		"request_id": c.GetString("request_id"),
	})
}
