package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Sekyls/job-recruitment-backend/internal/auth"
	"github.com/Sekyls/job-recruitment-backend/internal/domain"
	apperrors "github.com/Sekyls/job-recruitment-backend/internal/errors"
	"github.com/Sekyls/job-recruitment-backend/internal/metrics"
	"github.com/Sekyls/job-recruitment-backend/internal/platform/correlation"
	"github.com/labstack/echo/v4"
)

// Context keys on the echo context.
const (
	principalKey        = "principal"
	correlationIDHeader = "X-Correlation-ID"
)

// correlationMiddleware tags every request with a correlation id. An id
// sent by the client is reused so retries correlate across log lines.
func correlationMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Request().Header.Get(correlationIDHeader)
		if id == "" {
			id = correlation.NewID()
		}

		ctx := correlation.WithID(c.Request().Context(), id)
		c.SetRequest(c.Request().WithContext(ctx))
		c.Response().Header().Set(correlationIDHeader, id)
		return next(c)
	}
}

func requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)

		slog.InfoContext(c.Request().Context(), "Request handled",
			"method", c.Request().Method,
			"path", c.Path(),
			"status", c.Response().Status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return err
	}
}

// requireAuth extracts and verifies the bearer token. On success the
// verified principal is stored on the context for the role gate and the
// handlers; no identity claim from the request body is ever trusted.
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, err := auth.BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			metrics.AuthFailuresTotal.WithLabelValues("missing_token").Inc()
			return apperrors.UnauthorizedError("authentication required")
		}

		principal, err := s.verifier.Verify(token)
		if err != nil {
			metrics.AuthFailuresTotal.WithLabelValues("invalid_token").Inc()
			return apperrors.UnauthorizedError("invalid or expired token")
		}

		c.Set(principalKey, principal)
		c.Set("userID", principal.UserID)
		return next(c)
	}
}

// requireRole gates a route to the given roles. It runs strictly after
// requireAuth; a request that never passed verification is rejected as
// unauthenticated, not as forbidden.
func (s *Server) requireRole(allowed ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := c.Get(principalKey).(auth.Principal)
			if !ok {
				metrics.AuthFailuresTotal.WithLabelValues("missing_token").Inc()
				return apperrors.UnauthorizedError("authentication required")
			}

			if err := auth.Authorize(principal, allowed...); err != nil {
				metrics.AuthFailuresTotal.WithLabelValues("forbidden").Inc()
				return apperrors.ForbiddenError("insufficient permissions for this operation")
			}
			return next(c)
		}
	}
}

// rateLimit throttles the credential endpoints per client IP. Without a
// Redis connection it is a no-op, and limiter errors fail open so an
// unreachable Redis never locks everyone out.
func (s *Server) rateLimit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if s.limiter == nil {
			return next(c)
		}

		key := fmt.Sprintf("%s:%s", c.Path(), c.RealIP())
		allowed, err := s.limiter.Allow(c.Request().Context(), key)
		if err != nil {
			slog.WarnContext(c.Request().Context(), "Rate limiter unavailable, allowing request", "error", err)
		}
		if !allowed {
			metrics.RateLimitedTotal.Inc()
			return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests, slow down")
		}
		return next(c)
	}
}

// principal returns the verified principal set by requireAuth.
func principal(c echo.Context) (auth.Principal, error) {
	p, ok := c.Get(principalKey).(auth.Principal)
	if !ok {
		return auth.Principal{}, apperrors.UnauthorizedError("authentication required")
	}
	return p, nil
}
