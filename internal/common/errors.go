// Package common defines shared constants and sentinel errors used across
// client and server layers of MiniDrive. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")
	ErrValidation = errors.New("validation error")

	// Credential store errors.
	ErrUsernameTaken      = errors.New("username taken")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Session token errors. All three are reported to clients as 401.
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrTokenExpired    = errors.New("token expired")
	ErrTokenInvalid    = errors.New("invalid token")

	// File ledger errors.
	ErrFileExists   = errors.New("file already exists")
	ErrFileTooLarge = errors.New("file too large")

	// Share capability errors.
	ErrExpired = errors.New("share link expired")

	// Infrastructure errors. Both are transient and safe to retry.
	ErrUpstreamStorage = errors.New("upstream storage failure")
	ErrPersistence     = errors.New("persistence failure")
)
