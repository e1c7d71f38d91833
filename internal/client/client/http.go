package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/minidrive/internal/client/models"
	"github.com/dmitrijs2005/minidrive/internal/common"
)

// HTTPClient talks to the MiniDrive HTTP API. It is safe for concurrent use.
type HTTPClient struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// NewHTTPClient returns a client for the server at baseURL. A nil hc uses
// a client without a global timeout; per-call deadlines come from ctx.
func NewHTTPClient(baseURL string, hc *http.Client) *HTTPClient {
	if hc == nil {
		hc = &http.Client{}
	}
	return &HTTPClient{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

// SetToken sets the bearer token sent with every request. An empty token
// sends none.
func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *HTTPClient) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodGet, "/health", nil, "", &resp); err != nil {
		return err
	}
	if resp.Status != "ok" {
		return fmt.Errorf("%w: server reports %q", ErrUnavailable, resp.Status)
	}
	return nil
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c *HTTPClient) Signup(ctx context.Context, username, password string) (string, error) {
	var resp struct {
		UserID string `json:"user_id"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/signup", credentials{username, password}, &resp); err != nil {
		return "", err
	}
	return resp.UserID, nil
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/login", credentials{username, password}, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", errors.New("login response carries no token")
	}
	return resp.Token, nil
}

// Upload streams body as the multipart "file" field and returns the name
// the server stored it under.
func (c *HTTPClient) Upload(ctx context.Context, filename string, body io.Reader) (string, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreatePart(filePartHeader(filename))
		if err == nil {
			_, err = io.Copy(part, body)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	var resp struct {
		Filename string `json:"filename"`
	}
	if err := c.do(ctx, http.MethodPost, "/upload", pr, mw.FormDataContentType(), &resp); err != nil {
		_ = pr.CloseWithError(err)
		return "", err
	}
	return resp.Filename, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func filePartHeader(filename string) textproto.MIMEHeader {
	ct := mime.TypeByExtension(filepath.Ext(filename))
	if ct == "" {
		ct = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(filename)))
	h.Set("Content-Type", ct)
	return h
}

func (c *HTTPClient) List(ctx context.Context) ([]models.RemoteFile, error) {
	var resp struct {
		Files []models.RemoteFile `json:"files"`
	}
	if err := c.do(ctx, http.MethodGet, "/files", nil, "", &resp); err != nil {
		return nil, err
	}
	return resp.Files, nil
}

func (c *HTTPClient) DownloadURL(ctx context.Context, filename string) (string, error) {
	var resp struct {
		URL string `json:"url"`
	}
	if err := c.do(ctx, http.MethodGet, "/download/"+url.PathEscape(filename), nil, "", &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}

func (c *HTTPClient) Delete(ctx context.Context, filename string) error {
	return c.do(ctx, http.MethodDelete, "/delete/"+url.PathEscape(filename), nil, "", nil)
}

// Share creates a public link. A zero ttl leaves the lifetime to the server.
func (c *HTTPClient) Share(ctx context.Context, filename string, ttl time.Duration) (*models.ShareLink, error) {
	path := "/share/" + url.PathEscape(filename)

	var link models.ShareLink
	var err error
	if ttl > 0 {
		req := struct {
			TTLSeconds int64 `json:"ttl_seconds"`
		}{int64(ttl / time.Second)}
		err = c.doJSON(ctx, http.MethodPost, path, req, &link)
	} else {
		err = c.do(ctx, http.MethodPost, path, nil, "", &link)
	}
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, in, out any) error {
	b, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return c.do(ctx, method, path, bytes.NewReader(b), "application/json", out)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.bearer(); token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body); err == nil {
		apiErr.Code = body.Error
		apiErr.Message = body.Message
	}
	return apiErr
}
