// Package models defines the data the CLI exchanges with the MiniDrive API.
package models

import "time"

// RemoteFile is one entry of the caller's file listing.
type RemoteFile struct {
	Filename    string    `json:"filename"`
	Uploaded    time.Time `json:"uploaded"`
	StorageKey  string    `json:"storage_key"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
}

// ShareLink is a public link returned by the share endpoint.
type ShareLink struct {
	URL       string    `json:"share_url"`
	ExpiresAt time.Time `json:"expires_at"`
}
