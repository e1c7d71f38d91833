package api

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/minidrive/internal/common"
	"github.com/labstack/echo/v4"
)

// apiError is the only error body clients ever see. Message is fixed per
// code; lower-layer error text stays in the logs.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type errorReply struct {
	status  int
	code    string
	message string
}

var (
	errInvalidRequest = errorReply{http.StatusBadRequest, "invalid_request", "The request is malformed or missing required fields."}
	errInternal       = errorReply{http.StatusInternalServerError, "internal_error", "Internal server error."}
	errRateLimited    = errorReply{http.StatusTooManyRequests, "rate_limited", "Too many requests, try again later."}
	errRouteNotFound  = errorReply{http.StatusNotFound, "not_found", "Resource not found."}
	errMethod         = errorReply{http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed."}
	errTooLarge       = errorReply{http.StatusRequestEntityTooLarge, "file_too_large", "File exceeds the maximum upload size."}
)

// sentinels is consulted in order; the first match wins.
var sentinels = []struct {
	err   error
	reply errorReply
}{
	{common.ErrValidation, errInvalidRequest},
	{common.ErrUnauthenticated, errorReply{http.StatusUnauthorized, "unauthenticated", "Authentication required."}},
	{common.ErrTokenExpired, errorReply{http.StatusUnauthorized, "token_expired", "Session token has expired."}},
	{common.ErrTokenInvalid, errorReply{http.StatusUnauthorized, "token_invalid", "Session token is invalid."}},
	{common.ErrInvalidCredentials, errorReply{http.StatusUnauthorized, "invalid_credentials", "Invalid username or password."}},
	{common.ErrUsernameTaken, errorReply{http.StatusConflict, "username_taken", "Username already exists."}},
	{common.ErrFileExists, errorReply{http.StatusConflict, "file_exists", "A file with this name already exists."}},
	{common.ErrorNotFound, errorReply{http.StatusNotFound, "not_found", "File not found."}},
	{common.ErrExpired, errorReply{http.StatusForbidden, "link_expired", "Share link has expired."}},
	{common.ErrFileTooLarge, errTooLarge},
	{common.ErrUpstreamStorage, errorReply{http.StatusServiceUnavailable, "storage_unavailable", "Storage backend unavailable, retry later."}},
	{common.ErrPersistence, errorReply{http.StatusServiceUnavailable, "persistence_unavailable", "Database unavailable, retry later."}},
}

func replyFor(err error) errorReply {
	for _, s := range sentinels {
		if errors.Is(err, s.err) {
			return s.reply
		}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		switch he.Code {
		case http.StatusNotFound:
			return errRouteNotFound
		case http.StatusMethodNotAllowed:
			return errMethod
		case http.StatusRequestEntityTooLarge:
			return errTooLarge
		case http.StatusTooManyRequests:
			return errRateLimited
		case http.StatusBadRequest, http.StatusUnsupportedMediaType:
			return errInvalidRequest
		}
	}

	return errInternal
}

func writeError(c echo.Context, reply errorReply) error {
	return c.JSON(reply.status, apiError{Error: reply.code, Message: reply.message})
}
