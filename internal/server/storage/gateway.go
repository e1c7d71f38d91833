// Package storage talks to the S3-compatible object store holding file
// bytes. Only the server holds credentials; clients receive presigned URLs.
package storage

import (
	"context"
	"io"
	"time"
)

// Gateway is the object store surface used by the services.
type Gateway interface {
	// Put stores body under key. size may be -1 when unknown.
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// SignedReadURL returns a URL granting GET access to key for ttl.
	// When downloadName is set the response is served as an attachment.
	SignedReadURL(ctx context.Context, key string, ttl time.Duration, downloadName string) (string, error)
}
