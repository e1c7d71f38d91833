// Package api is the HTTP surface of MiniDrive: routing, authentication
// middleware, request decoding and the mapping of service errors to
// status codes.
package api

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dmitrijs2005/minidrive/internal/common"
	"github.com/dmitrijs2005/minidrive/internal/logging"
	"github.com/dmitrijs2005/minidrive/internal/server/auth"
	"github.com/dmitrijs2005/minidrive/internal/server/models"
	"github.com/dmitrijs2005/minidrive/internal/server/services"
	"github.com/labstack/echo/v4"
)

// UserService registers accounts and logs users in.
type UserService interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (string, error)
}

// FileService manages the caller's own files.
type FileService interface {
	Upload(ctx context.Context, owner auth.Identity, filename string, body io.Reader, size int64, contentType string) (*models.File, error)
	List(ctx context.Context, ownerID string) ([]*models.File, error)
	Download(ctx context.Context, ownerID, filename string) (string, error)
	Remove(ctx context.Context, ownerID, filename string) error
}

// ShareService creates and redeems public links.
type ShareService interface {
	Create(ctx context.Context, ownerID, filename string, ttl time.Duration) (*services.ShareLink, error)
	ResolveAndIssueAccess(ctx context.Context, token string) (string, error)
}

// Pinger reports database reachability.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler contains the HTTP handlers for the MiniDrive API.
type Handler struct {
	users  UserService
	files  FileService
	shares ShareService
	db     Pinger
	log    logging.Logger
}

// NewHandler creates a handler over the given services.
func NewHandler(us UserService, fs FileService, ss ShareService, db Pinger, log logging.Logger) *Handler {
	return &Handler{users: us, files: fs, shares: ss, db: db, log: log}
}

type credentialsRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type shareRequest struct {
	TTLSeconds *int64 `json:"ttl_seconds" form:"ttl_seconds"`
}

type fileResponse struct {
	Filename    string    `json:"filename"`
	Uploaded    time.Time `json:"uploaded"`
	StorageKey  string    `json:"storage_key"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
}

// HandleHealth handles GET / and GET /health.
func (h *Handler) HandleHealth(c echo.Context) error {
	status := "ok"
	dbStatus := "connected"

	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.log.Warn(ctx, "health check: database unreachable", "error", err)
		status = "degraded"
		dbStatus = "unavailable"
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status":   status,
		"service":  "minidrive",
		"database": dbStatus,
	})
}

// HandleSignup handles POST /signup.
func (h *Handler) HandleSignup(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return h.fail(c, common.ErrValidation)
	}

	user, err := h.users.Register(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return h.fail(c, err)
	}

	h.log.Info(c.Request().Context(), "user registered", "user_id", user.ID)
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User created successfully",
		"user_id": user.ID,
	})
}

// HandleLogin handles POST /login.
func (h *Handler) HandleLogin(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return h.fail(c, common.ErrValidation)
	}

	token, err := h.users.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"token": token})
}

// HandleUpload handles POST /upload with a multipart "file" field.
func (h *Handler) HandleUpload(c echo.Context) error {
	owner, ok := IdentityFrom(c.Request().Context())
	if !ok {
		return h.fail(c, common.ErrUnauthenticated)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) && he.Code == http.StatusRequestEntityTooLarge {
			return h.fail(c, common.ErrFileTooLarge)
		}
		return h.fail(c, common.ErrValidation)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return h.fail(c, err)
	}
	defer src.Close()

	f, err := h.files.Upload(c.Request().Context(), owner, fileHeader.Filename, src,
		fileHeader.Size, fileHeader.Header.Get(echo.HeaderContentType))
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message":  "File uploaded successfully",
		"filename": f.Filename,
	})
}

// HandleList handles GET /files.
func (h *Handler) HandleList(c echo.Context) error {
	owner, ok := IdentityFrom(c.Request().Context())
	if !ok {
		return h.fail(c, common.ErrUnauthenticated)
	}

	files, err := h.files.List(c.Request().Context(), owner.UserID)
	if err != nil {
		return h.fail(c, err)
	}

	out := make([]fileResponse, 0, len(files))
	for _, f := range files {
		out = append(out, fileResponse{
			Filename:    f.Filename,
			Uploaded:    f.UploadedAt.UTC(),
			StorageKey:  f.StorageKey,
			Size:        f.Size,
			ContentType: f.ContentType,
		})
	}

	return c.JSON(http.StatusOK, echo.Map{"files": out})
}

// HandleDownload handles GET /download/*.
func (h *Handler) HandleDownload(c echo.Context) error {
	owner, ok := IdentityFrom(c.Request().Context())
	if !ok {
		return h.fail(c, common.ErrUnauthenticated)
	}

	name, err := filenameParam(c)
	if err != nil {
		return h.fail(c, err)
	}

	u, err := h.files.Download(c.Request().Context(), owner.UserID, name)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"url": u})
}

// HandleDelete handles DELETE /delete/*.
func (h *Handler) HandleDelete(c echo.Context) error {
	owner, ok := IdentityFrom(c.Request().Context())
	if !ok {
		return h.fail(c, common.ErrUnauthenticated)
	}

	name, err := filenameParam(c)
	if err != nil {
		return h.fail(c, err)
	}

	if err := h.files.Remove(c.Request().Context(), owner.UserID, name); err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "File deleted successfully"})
}

// HandleShare handles POST /share/*. The body is optional; ttl_seconds
// overrides the default link lifetime.
func (h *Handler) HandleShare(c echo.Context) error {
	owner, ok := IdentityFrom(c.Request().Context())
	if !ok {
		return h.fail(c, common.ErrUnauthenticated)
	}

	name, err := filenameParam(c)
	if err != nil {
		return h.fail(c, err)
	}

	var req shareRequest
	if hasBody(c.Request()) {
		if err := (&echo.DefaultBinder{}).BindBody(c, &req); err != nil {
			return h.fail(c, common.ErrValidation)
		}
	}

	var ttl time.Duration
	if req.TTLSeconds != nil {
		if *req.TTLSeconds <= 0 || *req.TTLSeconds > int64(maxTTLSeconds) {
			return h.fail(c, common.ErrValidation)
		}
		ttl = time.Duration(*req.TTLSeconds) * time.Second
	}

	link, err := h.shares.Create(c.Request().Context(), owner.UserID, name, ttl)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"share_url":  link.URL,
		"expires_at": link.ExpiresAt,
	})
}

// HandlePublic handles GET /public/:token and redirects to a signed URL.
func (h *Handler) HandlePublic(c echo.Context) error {
	u, err := h.shares.ResolveAndIssueAccess(c.Request().Context(), c.Param("token"))
	if err != nil {
		return h.fail(c, err)
	}

	return c.Redirect(http.StatusFound, u)
}

// maxTTLSeconds guards the Duration conversion; the service enforces the
// configured maximum.
const maxTTLSeconds = int64(10 * 365 * 24 * time.Hour / time.Second)

// filenameParam returns the wildcard path segment, unescaped. Echo matches
// on the raw path when one is present, so escapes must be undone here.
func filenameParam(c echo.Context) (string, error) {
	name := c.Param("*")
	if c.Request().URL.RawPath != "" {
		unescaped, err := url.PathUnescape(name)
		if err != nil {
			return "", common.ErrValidation
		}
		name = unescaped
	}
	if name == "" {
		return "", common.ErrorNotFound
	}
	return name, nil
}

// fail writes the fixed error body for err and logs the underlying cause
// for server-side failures.
func (h *Handler) fail(c echo.Context, err error) error {
	reply := replyFor(err)
	if reply.status >= http.StatusInternalServerError {
		h.log.Error(c.Request().Context(), "request failed",
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"code", reply.code,
			"error", err,
		)
	}
	return writeError(c, reply)
}

// hasBody reports whether the request carries any body bytes. A chunked
// request has no declared length, so its first byte is peeked and pushed
// back onto the body.
func hasBody(req *http.Request) bool {
	if req.Body == nil || req.Body == http.NoBody || req.ContentLength == 0 {
		return false
	}
	if req.ContentLength > 0 {
		return true
	}

	br := bufio.NewReader(req.Body)
	if _, err := br.Peek(1); err != nil {
		return false
	}
	req.Body = struct {
		io.Reader
		io.Closer
	}{br, req.Body}
	return true
}
