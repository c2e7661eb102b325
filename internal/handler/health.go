package handler

import (
	"context"
	"time"

	"pdf-study-agent/internal/domain"
	"pdf-study-agent/internal/dto"
	"pdf-study-agent/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const healthCheckTimeout = 2 * time.Second

// HealthHandler reports whether the session cache is reachable
type HealthHandler struct {
	cache     domain.Cache
	modelName string
}

func NewHealthHandler(cache domain.Cache, modelName string) *HealthHandler {
	return &HealthHandler{cache: cache, modelName: modelName}
}

// Check godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /healthz [get]
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	resp := dto.HealthResponse{Status: "ok", Cache: "ok", Model: h.modelName}

	if h.cache != nil {
		ctx, cancel := context.WithTimeout(c.Context(), healthCheckTimeout)
		defer cancel()
		if err := h.cache.Ping(ctx); err != nil {
			logger.Get().Warn("Health check: cache unreachable", zap.Error(err))
			resp.Status = "degraded"
			resp.Cache = "unreachable"
			return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
		}
	}
	return c.JSON(resp)
}
