package services

import (
	"fmt"

	"github.com/dmitrijs2005/minidrive/internal/common"
)

// persistenceErr tags a database failure so the API reports it as a
// retryable 503 while the cause stays available to logs.
func persistenceErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", common.ErrPersistence, op, err)
}

// storageErr is persistenceErr for the object store.
func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", common.ErrUpstreamStorage, op, err)
}
