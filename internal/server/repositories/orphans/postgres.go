package orphans

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/shipmarket/internal/dbx"
	"github.com/dmitrijs2005/shipmarket/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create records the orphan. A repeated tx hash is ignored.
func (r *PostgresRepository) Create(ctx context.Context, o *models.OrphanedMint) error {
	payload := o.Payload
	if len(payload) == 0 {
		payload = []byte("{}")
	}
	query := `
		INSERT INTO orphaned_mints (tx_hash, flow, token_id, contract_address, owner, payload, error)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (tx_hash) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query, o.TxHash, o.Flow, o.TokenID, o.ContractAddress, o.Owner, payload, o.Error)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.OrphanedMint, error) {
	query := `
		SELECT tx_hash, flow, token_id, contract_address, owner, payload, error, created_at
		FROM orphaned_mints
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select orphaned mints: %w", err)
	}
	defer rows.Close()

	var result []*models.OrphanedMint
	for rows.Next() {
		var o models.OrphanedMint
		if err := rows.Scan(&o.TxHash, &o.Flow, &o.TokenID, &o.ContractAddress, &o.Owner, &o.Payload, &o.Error, &o.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
