// Package models defines server-side data models persisted in the database.
package models

import "time"

// File is the metadata row for one stored object. The bytes themselves live
// in object storage under StorageKey.
type File struct {
	ID string
	// OwnerID is the user the file belongs to.
	OwnerID string
	// Filename is unique per owner.
	Filename    string
	StorageKey  string
	ContentType string
	Size        int64
	UploadedAt  time.Time
}
