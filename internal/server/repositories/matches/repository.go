// Package matches stores pairings of cargo and vessel orders.
package matches

import (
	"context"

	"github.com/dmitrijs2005/shipmarket/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, m *models.OrderMatch) error
	GetByID(ctx context.Context, id string) (*models.OrderMatch, error)
	// ListByOrders returns matches that reference any of the given order ids.
	ListByOrders(ctx context.Context, orderIDs []string) ([]*models.OrderMatch, error)
	// Decide moves a proposed match to status. A match that is missing or no
	// longer proposed yields common.ErrorNotFound.
	Decide(ctx context.Context, id string, status models.MatchStatus) error
}
