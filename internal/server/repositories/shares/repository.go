package shares

import (
	"context"

	"github.com/dmitrijs2005/minidrive/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, share *models.Share) error
	FindByToken(ctx context.Context, token string) (*models.Share, error)
}
