// Package netx holds small HTTP helpers for talking to object storage
// through presigned URLs.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxErrorBody bounds how much of an error response is quoted back.
const maxErrorBody = 512

// DownloadFromPresignedURL GETs url and copies the body to w. Presigned
// URLs carry their own authorization, so no headers are added. Any status
// other than 200 is an error that quotes the start of the response body.
func DownloadFromPresignedURL(ctx context.Context, hc *http.Client, url string, w io.Writer) (int64, error) {
	if hc == nil {
		hc = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := hc.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return 0, fmt.Errorf("download failed: %s; body: %s", resp.Status, strings.TrimSpace(string(b)))
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("download interrupted after %d bytes: %w", n, err)
	}
	return n, nil
}
