// Package snapshots stores the last server responses the terminal client
// can fall back to while the marketplace is unreachable.
package snapshots

import (
	"context"
	"time"
)

// Snapshot is a cached response body keyed by query name.
type Snapshot struct {
	Key     string
	Value   []byte
	SavedAt time.Time
}

type Repository interface {
	// Get returns common.ErrorNotFound when nothing is cached under key.
	Get(ctx context.Context, key string) (*Snapshot, error)
	Put(ctx context.Context, s *Snapshot) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
