package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Umair-Ahm3d/Club-Lit/internal/fault"
)

// respondError maps a service fault onto the HTTP reply. Validation,
// not-found, and permission faults carry their message to the client;
// anything transient is logged in full and answered generically.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status := http.StatusInternalServerError

	switch fault.KindOf(err) {
	case fault.KindValidation:
		status = http.StatusBadRequest
	case fault.KindNotFound:
		status = http.StatusNotFound
	case fault.KindPermission:
		status = http.StatusForbidden
	default:
		logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}

	c.JSON(status, gin.H{"error": fault.UserMessage(err)})
}
