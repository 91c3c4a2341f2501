package contracts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/shipmarket/internal/common"
	"github.com/dmitrijs2005/shipmarket/internal/dbx"
	"github.com/dmitrijs2005/shipmarket/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, name string) (*models.SmartContract, error) {
	query := `SELECT name, address, network, chain_id, created_at FROM smart_contracts WHERE name = $1`

	c := &models.SmartContract{}
	err := r.db.QueryRowContext(ctx, query, name).Scan(&c.Name, &c.Address, &c.Network, &c.ChainID, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.SmartContract, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name, address, network, chain_id, created_at FROM smart_contracts ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to select contracts: %w", err)
	}
	defer rows.Close()

	var result []*models.SmartContract
	for rows.Next() {
		var c models.SmartContract
		if err := rows.Scan(&c.Name, &c.Address, &c.Network, &c.ChainID, &c.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Upsert inserts or replaces the directory row for c.Name.
func (r *PostgresRepository) Upsert(ctx context.Context, c *models.SmartContract) error {
	query := `
		INSERT INTO smart_contracts (name, address, network, chain_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name)
		DO UPDATE SET address = EXCLUDED.address, network = EXCLUDED.network, chain_id = EXCLUDED.chain_id
	`
	if _, err := r.db.ExecContext(ctx, query, c.Name, c.Address, c.Network, c.ChainID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
