package client

import (
	"context"
	"io"
	"time"

	"github.com/dmitrijs2005/minidrive/internal/client/models"
)

type Client interface {
	SetToken(token string)
	Ping(ctx context.Context) error
	Signup(ctx context.Context, username, password string) (string, error)
	Login(ctx context.Context, username, password string) (string, error)
	Upload(ctx context.Context, filename string, body io.Reader) (string, error)
	List(ctx context.Context) ([]models.RemoteFile, error)
	DownloadURL(ctx context.Context, filename string) (string, error)
	Delete(ctx context.Context, filename string) error
	Share(ctx context.Context, filename string, ttl time.Duration) (*models.ShareLink, error)
}
