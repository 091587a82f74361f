package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/agrotrace/backend/internal/infrastructure/logger"
	"github.com/agrotrace/backend/internal/infrastructure/persistence"
	"github.com/agrotrace/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const healthCheckTimeout = 2 * time.Second

// DatabaseHealth is the database surface probed by the health endpoint
type DatabaseHealth interface {
	Ping(ctx context.Context) error
	Stats() (persistence.ConnectionStats, error)
}

// SystemHandler handles operational endpoints
type SystemHandler struct {
	BaseHandler
	db DatabaseHealth
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db DatabaseHealth) *SystemHandler {
	return &SystemHandler{db: db}
}

// Health godoc
// @Summary      Health check
// @Description  Pings the database. Answers 503 when it does not respond.
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.HealthResponse
// @Failure      503 {object} dto.HealthResponse
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		logger.GetGinLogger(c).Warn("Database health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, dto.HealthResponse{
			Status:   "unavailable",
			Database: "unreachable",
		})
		return
	}

	resp := dto.HealthResponse{Status: "ok", Database: "ok"}
	if stats, err := h.db.Stats(); err == nil {
		resp.Pool = &dto.PoolStatsResponse{
			MaxOpenConnections: stats.MaxOpenConnections,
			OpenConnections:    stats.OpenConnections,
			InUse:              stats.InUse,
			Idle:               stats.Idle,
			WaitCount:          stats.WaitCount,
		}
	}
	h.Success(c, resp)
}
