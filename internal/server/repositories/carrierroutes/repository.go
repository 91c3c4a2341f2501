// Package carrierroutes stores journeys (scheduled voyages) of vessel orders.
package carrierroutes

import (
	"context"

	"github.com/dmitrijs2005/shipmarket/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, route *models.CarrierRoute) error
	ListByVesselOrder(ctx context.Context, vesselOrderID string) ([]*models.CarrierRoute, error)
	ListByOwner(ctx context.Context, owner string) ([]*models.CarrierRoute, error)
}
