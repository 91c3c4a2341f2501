// Package refreshtokens declares the server-side repository contract for
// managing refresh tokens in persistent storage.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/shipmarket/internal/server/models"
)

// Repository defines operations for issuing, retrieving, and revoking refresh tokens.
type Repository interface {
	// Create stores a new refresh token for profileID with an expiry of now+validity.
	Create(ctx context.Context, profileID string, token string, validity time.Duration) error

	// Find looks up a refresh token by its opaque token string.
	// Returns common.ErrorNotFound when the token is absent.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete removes a refresh token. Deleting a missing token is not an error.
	Delete(ctx context.Context, token string) error

	// DeleteExpired prunes tokens whose expiry is before now and reports how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
