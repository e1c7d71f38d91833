package services

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/dmitrijs2005/minidrive/internal/common"
	"github.com/google/uuid"
)

const maxFilenameLen = 255

// SanitizeFilename reduces a client-supplied name to a safe base name:
// directory parts are dropped, control characters removed and surrounding
// whitespace trimmed. An empty result, "." or ".." and names longer than
// 255 bytes are rejected with common.ErrValidation.
func SanitizeFilename(name string) (string, error) {
	name = strings.ReplaceAll(name, `\`, "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}

	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(name)

	if name == "" || name == "." || name == ".." || len(name) > maxFilenameLen {
		return "", common.ErrValidation
	}
	return name, nil
}

// StorageKey builds the object key for a new upload:
// users/<username>/<YYYYMMDDhhmmss>_<uuid>_<filename>.
func StorageKey(username string, at time.Time, filename string) string {
	return fmt.Sprintf("users/%s/%s_%s_%s", username, at.UTC().Format("20060102150405"), uuid.New(), filename)
}
