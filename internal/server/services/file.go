package services

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"time"

	"github.com/dmitrijs2005/minidrive/internal/common"
	"github.com/dmitrijs2005/minidrive/internal/dbx"
	"github.com/dmitrijs2005/minidrive/internal/logging"
	"github.com/dmitrijs2005/minidrive/internal/server/auth"
	"github.com/dmitrijs2005/minidrive/internal/server/config"
	"github.com/dmitrijs2005/minidrive/internal/server/models"
	"github.com/dmitrijs2005/minidrive/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/minidrive/internal/server/storage"
)

const defaultContentType = "application/octet-stream"

// FileService binds stored objects to their owners. Every method takes the
// verified owner id; a name is never resolved outside that owner's scope.
type FileService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	gateway       storage.Gateway
	log           logging.Logger
	timeout       time.Duration
	uploadTimeout time.Duration
	downloadTTL   time.Duration
	maxUploadSize int64
	now           func() time.Time
}

func NewFileService(db *sql.DB, m repomanager.RepositoryManager, gw storage.Gateway, cfg *config.Config, log logging.Logger) *FileService {
	return &FileService{
		db:            db,
		repomanager:   m,
		gateway:       gw,
		log:           log.With("module", "files"),
		timeout:       cfg.OperationTimeout,
		uploadTimeout: cfg.UploadTimeout,
		downloadTTL:   cfg.DownloadURLTTL,
		maxUploadSize: cfg.MaxUploadSize,
		now:           time.Now,
	}
}

// Upload stores body for owner under a sanitized filename. The object is
// written first and the record inserted afterwards; if the insert fails the
// object is deleted again so no unreferenced bytes are left behind.
func (s *FileService) Upload(ctx context.Context, owner auth.Identity, filename string, body io.Reader, size int64, contentType string) (*models.File, error) {
	name, err := SanitizeFilename(filename)
	if err != nil {
		return nil, err
	}
	if s.maxUploadSize > 0 && size > s.maxUploadSize {
		return nil, common.ErrFileTooLarge
	}
	if contentType == "" {
		contentType = defaultContentType
	}

	if err := s.ensureAbsent(ctx, owner.UserID, name); err != nil {
		return nil, err
	}

	key := StorageKey(owner.Username, s.now(), name)
	if err := s.put(ctx, key, body, size, contentType); err != nil {
		return nil, storageErr("put object", err)
	}

	file := &models.File{
		OwnerID:     owner.UserID,
		Filename:    name,
		StorageKey:  key,
		ContentType: contentType,
		Size:        size,
	}

	insCtx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	err = dbx.WithTx(insCtx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		file, err = s.repomanager.Files(tx).Create(ctx, file)
		return err
	})
	if err != nil {
		s.compensate(ctx, key)
		if errors.Is(err, common.ErrFileExists) {
			return nil, common.ErrFileExists
		}
		return nil, persistenceErr("insert file", err)
	}

	s.log.Info(ctx, "file uploaded", "owner_id", owner.UserID, "filename", name, "size", size)
	return file, nil
}

// List returns the owner's files, newest first.
func (s *FileService) List(ctx context.Context, ownerID string) ([]*models.File, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	files, err := s.repomanager.Files(s.db).List(ctx, ownerID)
	if err != nil {
		return nil, persistenceErr("list files", err)
	}
	return files, nil
}

// Resolve returns the owner's record for filename or common.ErrorNotFound.
// The same error is returned when another user owns a file of that name.
func (s *FileService) Resolve(ctx context.Context, ownerID, filename string) (*models.File, error) {
	if filename == "" {
		return nil, common.ErrorNotFound
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	f, err := s.repomanager.Files(s.db).GetByOwnerAndName(ctx, ownerID, filename)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, persistenceErr("resolve file", err)
	}
	return f, nil
}

// Download returns a short-lived signed URL for the owner's file.
func (s *FileService) Download(ctx context.Context, ownerID, filename string) (string, error) {
	f, err := s.Resolve(ctx, ownerID, filename)
	if err != nil {
		return "", err
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	url, err := s.gateway.SignedReadURL(ctx, f.StorageKey, s.downloadTTL, f.Filename)
	if err != nil {
		return "", storageErr("sign download", err)
	}
	return url, nil
}

// Remove deletes the record and the object together. The record delete and
// the object delete share one transaction: if the object store refuses, the
// row is restored by rollback. A commit failure after the object is gone
// leaves a dangling record; that case is logged with its storage key.
func (s *FileService) Remove(ctx context.Context, ownerID, filename string) error {
	if filename == "" {
		return common.ErrorNotFound
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	var removedKey string
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		key, err := s.repomanager.Files(tx).DeleteByOwnerAndName(ctx, ownerID, filename)
		if err != nil {
			return err
		}
		if err := s.gateway.Delete(ctx, key); err != nil {
			return storageErr("delete object", err)
		}
		removedKey = key
		return nil
	})
	if err != nil && removedKey != "" {
		s.log.Error(ctx, "object deleted but record kept", "owner_id", ownerID, "filename", filename, "storage_key", removedKey, "error", err)
	}
	switch {
	case err == nil:
		s.log.Info(ctx, "file deleted", "owner_id", ownerID, "filename", filename)
		return nil
	case errors.Is(err, common.ErrorNotFound), errors.Is(err, common.ErrUpstreamStorage):
		return err
	default:
		return persistenceErr("delete file", err)
	}
}

// --- helpers below ---

func (s *FileService) ensureAbsent(ctx context.Context, ownerID, name string) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	exists, err := s.repomanager.Files(s.db).Exists(ctx, ownerID, name)
	if err != nil {
		return persistenceErr("check file", err)
	}
	if exists {
		return common.ErrFileExists
	}
	return nil
}

// put streams the body under UploadTimeout rather than OperationTimeout.
func (s *FileService) put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	ctx, cancel := withTimeout(ctx, s.uploadTimeout)
	defer cancel()
	return s.gateway.Put(ctx, key, body, size, contentType)
}

// compensate removes an object whose record could not be written. It runs
// detached from the request so a cancelled client does not leave an orphan.
func (s *FileService) compensate(ctx context.Context, key string) {
	ctx, cancel := withTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	if err := s.gateway.Delete(ctx, key); err != nil {
		s.log.Error(ctx, "orphaned object after failed insert", "storage_key", key, "error", err)
		return
	}
	s.log.Warn(ctx, "rolled back object after failed insert", "storage_key", key)
}
