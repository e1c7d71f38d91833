package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/minidrive/internal/client/client"
	"github.com/dmitrijs2005/minidrive/internal/client/models"
	"github.com/dmitrijs2005/minidrive/internal/filex"
	"github.com/dmitrijs2005/minidrive/internal/netx"
)

// FileService covers the file commands of the CLI.
type FileService interface {
	Upload(ctx context.Context, localPath string) (string, error)
	List(ctx context.Context) ([]models.RemoteFile, error)
	Download(ctx context.Context, filename, dest string) (int64, error)
	Delete(ctx context.Context, filename string) error
	Share(ctx context.Context, filename string, ttl time.Duration) (*models.ShareLink, error)
}

type fileService struct {
	client client.Client
	// storage fetches presigned URLs; it never carries the session token.
	storage *http.Client
}

// NewFileService constructs a FileService. A nil storage client uses
// http.DefaultClient for presigned downloads.
func NewFileService(c client.Client, storage *http.Client) FileService {
	return &fileService{client: c, storage: storage}
}

// Upload sends the file at localPath under its base name.
func (s *fileService) Upload(ctx context.Context, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return "", err
	}
	if fi.IsDir() {
		return "", fmt.Errorf("%s is a directory", localPath)
	}

	return s.client.Upload(ctx, filepath.Base(localPath), f)
}

func (s *fileService) List(ctx context.Context) ([]models.RemoteFile, error) {
	return s.client.List(ctx)
}

// Download fetches filename into dest. dest is replaced only when the whole
// body arrived.
func (s *fileService) Download(ctx context.Context, filename, dest string) (int64, error) {
	url, err := s.client.DownloadURL(ctx, filename)
	if err != nil {
		return 0, err
	}

	var n int64
	err = filex.WriteAtomic(dest, func(w io.Writer) error {
		var err error
		n, err = netx.DownloadFromPresignedURL(ctx, s.storage, url, w)
		return err
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (s *fileService) Delete(ctx context.Context, filename string) error {
	return s.client.Delete(ctx, filename)
}

func (s *fileService) Share(ctx context.Context, filename string, ttl time.Duration) (*models.ShareLink, error) {
	return s.client.Share(ctx, filename, ttl)
}
