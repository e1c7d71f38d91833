package files

import (
	"context"

	"github.com/dmitrijs2005/minidrive/internal/server/models"
)

// Repository abstracts persistence of file metadata. Every lookup is scoped
// by owner so one user can never address another user's rows.
type Repository interface {
	Create(ctx context.Context, file *models.File) (*models.File, error)
	List(ctx context.Context, ownerID string) ([]*models.File, error)
	GetByOwnerAndName(ctx context.Context, ownerID, filename string) (*models.File, error)
	Exists(ctx context.Context, ownerID, filename string) (bool, error)
	DeleteByOwnerAndName(ctx context.Context, ownerID, filename string) (string, error)
}
