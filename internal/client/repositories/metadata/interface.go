// Package metadata stores small key/value records in the CLI's local
// database, such as the current session token.
package metadata

import (
	"context"
)

// Keys used by the CLI.
const (
	KeyToken     = "session_token"
	KeyUsername  = "username"
	KeyServerURL = "server_url"
)

// Repository is a key/value store. Get returns (nil, nil) for absent keys.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
