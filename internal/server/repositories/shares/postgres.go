// Package shares persists public share capabilities.
package shares

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/minidrive/internal/common"
	"github.com/dmitrijs2005/minidrive/internal/dbx"
	"github.com/dmitrijs2005/minidrive/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, share *models.Share) error {
	query := `
		INSERT INTO shares (token, owner_id, filename, storage_key, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		share.Token, share.OwnerID, share.Filename, share.StorageKey, share.ExpiresAt).Scan(&share.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// FindByToken returns the share regardless of expiry; the caller decides.
func (r *PostgresRepository) FindByToken(ctx context.Context, token string) (*models.Share, error) {
	query := `SELECT token, owner_id, filename, storage_key, expires_at, created_at FROM shares
		WHERE token = $1
	`
	var s models.Share
	err := r.db.QueryRowContext(ctx, query, token).Scan(&s.Token, &s.OwnerID, &s.Filename,
		&s.StorageKey, &s.ExpiresAt, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &s, nil
}
