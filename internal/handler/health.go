package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/customers-api/internal/middleware"
	"github.com/deppfellow/customers-api/internal/server"
	"github.com/labstack/echo/v4"
)

// HealthHandler serves /status for load balancers and uptime monitors.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// CheckHealth reports overall status, timestamp, environment and one entry
// per enabled dependency check.
//
// It returns 503 when the database is unreachable. Redis is optional: a
// failing redis is reported but keeps the status at 200.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	obs := h.server.Config.Observability

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	checks := make(map[string]interface{})
	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      checks,
	}

	isHealthy := true

	if obs.HealthCheckEnabled("database") {
		result, err := h.probe(c.Request().Context(), "database", h.server.DB.Ping)
		checks["database"] = result
		if err != nil {
			isHealthy = false
			logger.Error().Err(err).Msg("database health check failed")
		} else {
			logger.Debug().Msg("database health check passed")
		}
	}

	if h.server.Redis != nil && obs.HealthCheckEnabled("redis") {
		result, err := h.probe(c.Request().Context(), "redis", func(ctx context.Context) error {
			return h.server.Redis.Ping(ctx).Err()
		})
		checks["redis"] = result
		if err != nil {
			logger.Error().Err(err).Msg("redis health check failed")
		} else {
			logger.Debug().Msg("redis health check passed")
		}
	}

	if !isHealthy {
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		h.recordFailure(map[string]interface{}{
			"check_type":        "overall",
			"error_type":        "overall_unhealthy",
			"total_duration_ms": time.Since(start).Milliseconds(),
		})

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Info().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}

// probe runs ping under the configured health check timeout.
func (h *HealthHandler) probe(parent context.Context, name string, ping func(context.Context) error) (map[string]interface{}, error) {
	ctx, cancel := context.WithTimeout(parent, h.server.Config.Observability.HealthChecks.Timeout)
	defer cancel()

	probeStart := time.Now()
	err := ping(ctx)
	elapsed := time.Since(probeStart)

	if err != nil {
		h.recordFailure(map[string]interface{}{
			"check_type":       name,
			"error_type":       name + "_unhealthy",
			"response_time_ms": elapsed.Milliseconds(),
			"error_message":    err.Error(),
		})

		return map[string]interface{}{
			"status":        "unhealthy",
			"response_time": elapsed.String(),
			"error":         err.Error(),
		}, err
	}

	return map[string]interface{}{
		"status":        "healthy",
		"response_time": elapsed.String(),
	}, nil
}

func (h *HealthHandler) recordFailure(attrs map[string]interface{}) {
	app := h.server.LoggerService.GetApplication()
	if app == nil {
		return
	}
	attrs["operation"] = "health_check"
	app.RecordCustomEvent("HealthCheckError", attrs)
}
