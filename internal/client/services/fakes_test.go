package services

import (
	"context"
	"database/sql"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/minidrive/internal/client/client"
	"github.com/dmitrijs2005/minidrive/internal/client/models"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// fakeClient implements client.Client for unit tests.
type fakeClient struct {
	mu    sync.Mutex
	token string

	SignupID  string
	SignupErr error
	LoginTok  string
	LoginErr  error
	PingErr   error

	UploadErr    error
	Uploaded     map[string]string
	ListRet      []models.RemoteFile
	ListErr      error
	DownloadURLs map[string]string
	DeleteErr    error
	ShareRet     *models.ShareLink
	ShareErr     error

	LastSignupUser string
	LastSignupPass string
	LastDeleted    string
	LastShareName  string
	LastShareTTL   time.Duration
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) SetToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = token
}

func (f *fakeClient) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func (f *fakeClient) Ping(context.Context) error { return f.PingErr }

func (f *fakeClient) Signup(_ context.Context, username, password string) (string, error) {
	f.LastSignupUser, f.LastSignupPass = username, password
	return f.SignupID, f.SignupErr
}

func (f *fakeClient) Login(_ context.Context, username, password string) (string, error) {
	return f.LoginTok, f.LoginErr
}

func (f *fakeClient) Upload(_ context.Context, filename string, body io.Reader) (string, error) {
	if f.UploadErr != nil {
		return "", f.UploadErr
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	if f.Uploaded == nil {
		f.Uploaded = map[string]string{}
	}
	f.Uploaded[filename] = string(b)
	return filename, nil
}

func (f *fakeClient) List(context.Context) ([]models.RemoteFile, error) {
	return f.ListRet, f.ListErr
}

func (f *fakeClient) DownloadURL(_ context.Context, filename string) (string, error) {
	u, ok := f.DownloadURLs[filename]
	if !ok {
		return "", &client.APIError{Status: 404, Code: "not_found", Message: "File not found."}
	}
	return u, nil
}

func (f *fakeClient) Delete(_ context.Context, filename string) error {
	f.LastDeleted = filename
	return f.DeleteErr
}

func (f *fakeClient) Share(_ context.Context, filename string, ttl time.Duration) (*models.ShareLink, error) {
	f.LastShareName, f.LastShareTTL = filename, ttl
	return f.ShareRet, f.ShareErr
}
