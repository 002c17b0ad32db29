package v1

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"allgecare/internal/domain/usecase"
	"allgecare/pkg/client/upstream"
	"allgecare/pkg/logger"
)

// writeError maps usecase and upstream errors to a JSON reply.
func writeError(c *gin.Context, err error) {
	var (
		cooldown *usecase.CooldownError
		status   *upstream.StatusError
	)
	switch {
	case errors.As(err, &cooldown):
		retry := int(math.Ceil(cooldown.Remaining.Seconds()))
		c.Header("Retry-After", strconv.Itoa(retry))
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "refresh cooling down", "retry_after_sec": retry})
	case errors.Is(err, usecase.ErrNoData):
		c.JSON(http.StatusNotFound, gin.H{"error": "no data"})
	case errors.Is(err, usecase.ErrNothingToUpdate):
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
	case errors.Is(err, usecase.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case errors.Is(err, usecase.ErrSessionNotFound):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
	case errors.As(err, &status):
		c.JSON(http.StatusBadGateway, gin.H{"error": status.Message, "upstream_status": status.Code})
	case errors.Is(err, context.Canceled):
		c.JSON(http.StatusConflict, gin.H{"error": "request superseded"})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "upstream timeout"})
	case errors.Is(err, upstream.ErrUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "monitoring API unreachable"})
	default:
		logger.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
