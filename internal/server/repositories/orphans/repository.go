// Package orphans journals mints that reached the chain but failed to persist.
package orphans

import (
	"context"

	"github.com/dmitrijs2005/shipmarket/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, o *models.OrphanedMint) error
	List(ctx context.Context) ([]*models.OrphanedMint, error)
}
