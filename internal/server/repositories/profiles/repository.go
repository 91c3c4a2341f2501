// Package profiles stores marketplace participants keyed by wallet address.
package profiles

import (
	"context"

	"github.com/dmitrijs2005/shipmarket/internal/server/models"
)

type Repository interface {
	// Create inserts a new profile. Wallet addresses are stored lowercase.
	Create(ctx context.Context, p *models.Profile) error
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	// GetByWallet returns common.ErrorNotFound when no profile owns the address.
	GetByWallet(ctx context.Context, wallet string) (*models.Profile, error)
	// SetNonce replaces the login challenge for a profile.
	SetNonce(ctx context.Context, id string, nonce string) error
}
