// Package orders declares the repository contract for cargo and vessel listings.
package orders

import (
	"context"

	"github.com/dmitrijs2005/shipmarket/internal/server/models"
)

// Filter narrows a listing. Zero values mean "any".
type Filter struct {
	Type   models.OrderType
	Status models.OrderStatus
	Owner  string
	Limit  int
}

type Repository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	List(ctx context.Context, f Filter) ([]*models.Order, error)
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error
	// TransitionStatus changes the status only while it still equals from;
	// otherwise it returns common.ErrorNotFound.
	TransitionStatus(ctx context.Context, id string, from, to models.OrderStatus) error
	// UpdateInsurance sets only the insurance linkage columns of one order.
	UpdateInsurance(ctx context.Context, id, templateID, policyID string) error
}
