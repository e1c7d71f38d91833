package api

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/minidrive/internal/common"
	"github.com/dmitrijs2005/minidrive/internal/logging"
	"github.com/dmitrijs2005/minidrive/internal/server/auth"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// TokenVerifier checks a bearer token and returns who it belongs to.
type TokenVerifier interface {
	Verify(token string) (auth.Identity, error)
}

// RequireAuth rejects requests without a valid "Authorization: Bearer"
// header and stores the verified identity in the request context.
func RequireAuth(v TokenVerifier, log logging.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			token, ok := bearerToken(req.Header.Get(common.AuthorizationHeaderName))
			if !ok {
				log.Info(req.Context(), "auth rejected", "reason", "missing_bearer", "path", req.URL.Path)
				return writeError(c, replyFor(common.ErrUnauthenticated))
			}

			id, err := v.Verify(token)
			if err != nil {
				reason := "token_invalid"
				if errors.Is(err, common.ErrTokenExpired) {
					reason = "token_expired"
				}
				log.Info(req.Context(), "auth rejected", "reason", reason, "path", req.URL.Path)
				return writeError(c, replyFor(err))
			}

			c.SetRequest(req.WithContext(withIdentity(req.Context(), id)))
			return next(c)
		}
	}
}

func bearerToken(header string) (string, bool) {
	if len(header) < len(common.BearerPrefix) || !strings.EqualFold(header[:len(common.BearerPrefix)], common.BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(common.BearerPrefix):])
	return token, token != ""
}

// RateLimit limits requests per client IP using echo's in-memory store.
func RateLimit(rps float64, burst int, log logging.Logger) echo.MiddlewareFunc {
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(rps),
		Burst:     burst,
		ExpiresIn: 3 * time.Minute,
	})

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return writeError(c, errInternal)
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			log.Warn(c.Request().Context(), "rate limit exceeded", "ip", identifier, "path", c.Request().URL.Path)
			return writeError(c, errRateLimited)
		},
	})
}

// RequestLogger logs one line per request.
func RequestLogger(log logging.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info(context.WithoutCancel(req.Context()), "request",
				"method", req.Method,
				"path", req.URL.Path,
				"status", res.Status,
				"latency_ms", time.Since(start).Milliseconds(),
				"ip", c.RealIP(),
				"bytes_out", res.Size,
			)

			return nil
		}
	}
}
