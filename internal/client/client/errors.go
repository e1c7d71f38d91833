package client

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/minidrive/internal/common"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrRateLimited  = errors.New("rate limited")
	ErrNotLoggedIn  = errors.New("not logged in")
)

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return e.Message
}

// Unwrap maps the server's error code to a sentinel so callers can use
// errors.Is.
func (e *APIError) Unwrap() error {
	switch e.Code {
	case "unauthenticated", "token_invalid", "token_expired":
		return ErrUnauthorized
	case "invalid_credentials":
		return common.ErrInvalidCredentials
	case "username_taken":
		return common.ErrUsernameTaken
	case "file_exists":
		return common.ErrFileExists
	case "not_found":
		return common.ErrorNotFound
	case "link_expired":
		return common.ErrExpired
	case "file_too_large":
		return common.ErrFileTooLarge
	case "invalid_request":
		return common.ErrValidation
	case "rate_limited":
		return ErrRateLimited
	case "storage_unavailable", "persistence_unavailable":
		return ErrUnavailable
	}
	if e.Status >= 500 {
		return ErrUnavailable
	}
	return nil
}
