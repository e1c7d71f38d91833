// Package common contains shared constants and sentinel errors used across
// MiniDrive components.
package common

// AuthorizationHeaderName carries the bearer session token on HTTP requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix is the scheme prefix expected in the Authorization header.
const BearerPrefix = "Bearer "
