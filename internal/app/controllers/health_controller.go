package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/gradesheet/internal/app/models/dto"
)

// Health statuses
const (
	StatusOK       = "OK"
	StatusDegraded = "DEGRADED"
)

// PingFunc checks that the storage backend is reachable
type PingFunc func(ctx context.Context) error

// HealthController reports liveness and storage reachability
type HealthController struct {
	storage string
	ping    PingFunc
	logger  zerolog.Logger
}

// NewHealthController creates a new HealthController
func NewHealthController(storage string, ping PingFunc, logger zerolog.Logger) *HealthController {
	return &HealthController{
		storage: storage,
		ping:    ping,
		logger:  logger,
	}
}

// Health pings the storage backend
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse "Storage unreachable"
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	resp := dto.HealthResponse{
		Status:    StatusOK,
		Timestamp: time.Now().UTC(),
		Storage:   c.storage,
	}

	if err := c.ping(pingCtx); err != nil {
		c.logger.Warn().Err(err).Str("storage", c.storage).Msg("Storage ping failed")
		resp.Status = StatusDegraded
		ctx.JSON(http.StatusServiceUnavailable, resp)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}
