package common

import (
	"crypto/rand"
	"encoding/base64"
)

// MakeRandURLToken returns size random bytes from crypto/rand encoded as
// unpadded base64url, suitable for embedding in a URL path segment.
func MakeRandURLToken(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// WipeByteArray zeroes b in place. Nil is allowed.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
