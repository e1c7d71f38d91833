// Package files stores per-owner file metadata in PostgreSQL.
package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/minidrive/internal/common"
	"github.com/dmitrijs2005/minidrive/internal/dbx"
	"github.com/dmitrijs2005/minidrive/internal/server/models"
)

// PostgresRepository implements file storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a file row. A second row with the same (owner, filename)
// yields common.ErrFileExists.
func (r *PostgresRepository) Create(ctx context.Context, file *models.File) (*models.File, error) {
	query := `
		INSERT INTO files (owner_id, filename, storage_key, content_type, size)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, uploaded_at
	`
	err := r.db.QueryRowContext(ctx, query,
		file.OwnerID, file.Filename, file.StorageKey, file.ContentType, file.Size).Scan(&file.ID, &file.UploadedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrFileExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return file, nil
}

// List returns the owner's files, newest upload first.
func (r *PostgresRepository) List(ctx context.Context, ownerID string) ([]*models.File, error) {
	query := `SELECT id, owner_id, filename, storage_key, content_type, size, uploaded_at FROM files
		WHERE owner_id = $1
		ORDER BY uploaded_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to select files: %w", err)
	}
	defer rows.Close()

	result := make([]*models.File, 0)
	for rows.Next() {
		var item models.File
		if err := rows.Scan(&item.ID, &item.OwnerID, &item.Filename, &item.StorageKey,
			&item.ContentType, &item.Size, &item.UploadedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByOwnerAndName returns common.ErrorNotFound when the owner has no such file.
func (r *PostgresRepository) GetByOwnerAndName(ctx context.Context, ownerID, filename string) (*models.File, error) {
	query := `SELECT id, owner_id, filename, storage_key, content_type, size, uploaded_at FROM files
		WHERE owner_id = $1 AND filename = $2
	`
	var item models.File
	err := r.db.QueryRowContext(ctx, query, ownerID, filename).Scan(&item.ID, &item.OwnerID, &item.Filename,
		&item.StorageKey, &item.ContentType, &item.Size, &item.UploadedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &item, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, ownerID, filename string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM files WHERE owner_id = $1 AND filename = $2)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, ownerID, filename).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

// DeleteByOwnerAndName removes the row and returns its storage key so the
// caller can delete the object inside the same transaction.
func (r *PostgresRepository) DeleteByOwnerAndName(ctx context.Context, ownerID, filename string) (string, error) {
	query := `DELETE FROM files WHERE owner_id = $1 AND filename = $2 RETURNING storage_key`

	var key string
	if err := r.db.QueryRowContext(ctx, query, ownerID, filename).Scan(&key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return key, nil
}
