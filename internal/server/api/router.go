package api

import (
	"context"
	"net"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/minidrive/internal/logging"
	"github.com/dmitrijs2005/minidrive/internal/server/config"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// multipartSlack covers multipart framing around the file part.
const multipartSlack = 1 << 20

// SetupRouter creates the echo router with all routes and middleware.
func SetupRouter(h *Handler, verifier TokenVerifier, cfg *config.Config, log logging.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(log)
	e.IPExtractor = ipExtractor(cfg.TrustedProxies, log)

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(RequestLogger(log))

	authLimiter := RateLimit(cfg.AuthRateLimit, cfg.AuthRateBurst, log)
	requireAuth := RequireAuth(verifier, log)
	uploadLimit := middleware.BodyLimit(strconv.FormatInt(cfg.MaxUploadSize+multipartSlack, 10) + "B")

	e.GET("/", h.HandleHealth)
	e.GET("/health", h.HandleHealth)

	e.POST("/signup", h.HandleSignup, authLimiter)
	e.POST("/login", h.HandleLogin, authLimiter)

	e.POST("/upload", h.HandleUpload, requireAuth, uploadLimit)
	e.GET("/files", h.HandleList, requireAuth)
	e.GET("/download/*", h.HandleDownload, requireAuth)
	e.DELETE("/delete/*", h.HandleDelete, requireAuth)
	e.POST("/share/*", h.HandleShare, requireAuth)

	e.GET("/public/:token", h.HandlePublic)

	return e
}

// ipExtractor decides which address identifies a client for rate limiting
// and logs. X-Forwarded-For is honoured only when the peer is one of the
// configured proxies; otherwise the socket address is used.
func ipExtractor(trusted []string, log logging.Logger) echo.IPExtractor {
	if len(trusted) == 0 {
		return echo.ExtractIPDirect()
	}

	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, cidr := range trusted {
		_, ipNet, err := net.ParseCIDR(cidr)
		if err != nil {
			log.Warn(context.Background(), "ignoring invalid trusted proxy range", "cidr", cidr, "error", err)
			continue
		}
		opts = append(opts, echo.TrustIPRange(ipNet))
	}
	return echo.ExtractIPFromXFFHeader(opts...)
}

// errorHandler renders errors that escape handlers, such as unknown routes
// or oversized bodies, in the same JSON shape as handler errors.
func errorHandler(log logging.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		reply := replyFor(err)
		if reply.status >= http.StatusInternalServerError {
			log.Error(c.Request().Context(), "unhandled error", "path", c.Request().URL.Path, "error", err)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(reply.status)
		} else {
			err = writeError(c, reply)
		}
		if err != nil {
			log.Error(c.Request().Context(), "failed to write error response", "error", err)
		}
	}
}
