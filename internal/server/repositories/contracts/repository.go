// Package contracts stores the smart-contract directory: logical contract
// name to deployed address and network.
package contracts

import (
	"context"

	"github.com/dmitrijs2005/shipmarket/internal/server/models"
)

type Repository interface {
	Get(ctx context.Context, name string) (*models.SmartContract, error)
	List(ctx context.Context) ([]*models.SmartContract, error)
	Upsert(ctx context.Context, c *models.SmartContract) error
}
