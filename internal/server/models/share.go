package models

import "time"

// Share is a bearer capability granting time-limited read access to one
// file. The token is the primary key; the storage key is captured at
// creation so the link does not depend on the file row.
type Share struct {
	Token      string
	OwnerID    string
	Filename   string
	StorageKey string
	ExpiresAt  time.Time
	CreatedAt  time.Time
}
