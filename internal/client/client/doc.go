// Package client contains client-side building blocks for MiniDrive.
//
// # Overview
//
// The package provides:
//  1. The API contract used by the CLI (see the Client interface):
//     Signup, Login, Upload, List, DownloadURL, Delete, Share and Ping.
//  2. A concrete HTTP implementation (see HTTPClient) that attaches the
//     bearer token, streams multipart uploads and maps the server's JSON
//     error bodies to sentinel errors.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database with embedded goose migrations.
//
// # Error Handling
//
// Server errors are returned as *APIError. Callers match them with
// errors.Is against ErrUnavailable, ErrUnauthorized, ErrRateLimited or the
// sentinels of internal/common (ErrFileExists, ErrorNotFound, ...).
package client
