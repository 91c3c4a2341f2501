package carrierroutes

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/shipmarket/internal/dbx"
	"github.com/dmitrijs2005/shipmarket/internal/server/models"
)

const columns = `id, vessel_order_id, owner, origin_port, destination_port, departure_date, arrival_date,
	available_capacity_tons, price_per_ton, status, token_id, contract_address, tx_hash, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, c *models.CarrierRoute) error {
	query := `
		INSERT INTO carrier_routes (id, vessel_order_id, owner, origin_port, destination_port, departure_date,
			arrival_date, available_capacity_tons, price_per_ton, status, token_id, contract_address, tx_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		c.ID, c.VesselOrderID, c.Owner, c.OriginPort, c.DestinationPort, c.DepartureDate,
		c.ArrivalDate, c.AvailableCapacityTons, c.PricePerTon, string(c.Status), c.TokenID, c.ContractAddress, c.TxHash,
	).Scan(&c.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListByVesselOrder(ctx context.Context, vesselOrderID string) ([]*models.CarrierRoute, error) {
	query := `SELECT ` + columns + ` FROM carrier_routes WHERE vessel_order_id = $1 ORDER BY departure_date`
	return r.list(ctx, query, vesselOrderID)
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, owner string) ([]*models.CarrierRoute, error) {
	query := `SELECT ` + columns + ` FROM carrier_routes WHERE owner = $1 ORDER BY departure_date`
	return r.list(ctx, query, owner)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.CarrierRoute, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select carrier routes: %w", err)
	}
	defer rows.Close()

	var result []*models.CarrierRoute
	for rows.Next() {
		var (
			c      models.CarrierRoute
			status string
		)
		if err := rows.Scan(
			&c.ID, &c.VesselOrderID, &c.Owner, &c.OriginPort, &c.DestinationPort, &c.DepartureDate, &c.ArrivalDate,
			&c.AvailableCapacityTons, &c.PricePerTon, &status, &c.TokenID, &c.ContractAddress, &c.TxHash, &c.CreatedAt,
		); err != nil {
			return nil, err
		}
		c.Status = models.OrderStatus(status)
		result = append(result, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
