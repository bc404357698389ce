package middleware

import (
	"net/http"

	"github.com/deppfellow/customers-api/internal/errs"
	"github.com/deppfellow/customers-api/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// RateLimitMiddleware enforces server.rate_limit requests per second per
// client IP and reports rejected requests to New Relic.
type RateLimitMiddleware struct {
	server *server.Server
}

func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		server: s,
	}
}

// Limit returns the Echo rate limiter backed by an in-memory token bucket
// per IP. The burst equals the per-second rate, rounded up.
func (r *RateLimitMiddleware) Limit() echo.MiddlewareFunc {
	limit := rate.Limit(r.server.Config.Server.RateLimit)
	burst := int(r.server.Config.Server.RateLimit)
	if float64(burst) < r.server.Config.Server.RateLimit {
		burst++
	}

	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:  limit,
		Burst: burst,
	})

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return errs.NewForbiddenError("Unable to identify client", false)
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			r.RecordRateLimitHit(c.Request().URL.Path)

			r.server.Logger.Warn().
				Str("ip", identifier).
				Str("path", c.Request().URL.Path).
				Msg("rate limit exceeded")

			return &errs.HTTPError{
				Code:    errs.MakeUpperCaseWithUnderscores(http.StatusText(http.StatusTooManyRequests)),
				Message: "Rate limit exceeded",
				Status:  http.StatusTooManyRequests,
			}
		},
	})
}

// RecordRateLimitHit records a RateLimitHit custom event when New Relic is enabled.
func (r *RateLimitMiddleware) RecordRateLimitHit(endpoint string) {
	if app := r.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("RateLimitHit", map[string]interface{}{
			"endpoint": endpoint,
		})
	}
}
