// Package orders provides the PostgreSQL-backed order repository.
package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/shipmarket/internal/common"
	"github.com/dmitrijs2005/shipmarket/internal/dbx"
	"github.com/dmitrijs2005/shipmarket/internal/server/models"
)

const columns = `id, owner, type, title, origin_port, destination_port, departure_date, arrival_date,
	weight_tons, capacity_tons, cargo_type, vessel_name, imo_number, price, status,
	insurance_template_id, insurance_policy_id, token_id, contract_address, tx_hash, metadata_uri,
	created_at, updated_at`

// PostgresRepository implements order storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new order. CreatedAt/UpdatedAt are filled from the database.
func (r *PostgresRepository) Create(ctx context.Context, o *models.Order) error {
	query := `
		INSERT INTO orders (id, owner, type, title, origin_port, destination_port, departure_date, arrival_date,
			weight_tons, capacity_tons, cargo_type, vessel_name, imo_number, price, status,
			token_id, contract_address, tx_hash, metadata_uri)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		o.ID, o.Owner, string(o.Type), o.Title, o.OriginPort, o.DestinationPort, o.DepartureDate, o.ArrivalDate,
		o.WeightTons, o.CapacityTons, o.CargoType, o.VesselName, o.IMONumber, o.Price, string(o.Status),
		o.TokenID, o.ContractAddress, o.TxHash, o.MetadataURI,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	query := `SELECT ` + columns + ` FROM orders WHERE id = $1`

	o, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return o, nil
}

// List returns orders matching f, newest first.
func (r *PostgresRepository) List(ctx context.Context, f Filter) ([]*models.Order, error) {
	var (
		where []string
		args  []any
	)
	if f.Type != "" {
		args = append(args, string(f.Type))
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.Owner != "" {
		args = append(args, f.Owner)
		where = append(where, fmt.Sprintf("owner = $%d", len(args)))
	}

	query := `SELECT ` + columns + ` FROM orders`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select orders: %w", err)
	}
	defer rows.Close()

	var result []*models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error {
	query := `UPDATE orders SET status = $1, updated_at = now() WHERE id = $2`
	return r.execOne(ctx, query, string(status), id)
}

func (r *PostgresRepository) TransitionStatus(ctx context.Context, id string, from, to models.OrderStatus) error {
	query := `UPDATE orders SET status = $1, updated_at = now() WHERE id = $2 AND status = $3`
	return r.execOne(ctx, query, string(to), id, string(from))
}

func (r *PostgresRepository) UpdateInsurance(ctx context.Context, id, templateID, policyID string) error {
	query := `UPDATE orders SET insurance_template_id = $1, insurance_policy_id = $2, updated_at = now() WHERE id = $3`
	return r.execOne(ctx, query, templateID, policyID, id)
}

func (r *PostgresRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(s scanner) (*models.Order, error) {
	var (
		o          models.Order
		typ, state string
	)
	err := s.Scan(
		&o.ID, &o.Owner, &typ, &o.Title, &o.OriginPort, &o.DestinationPort, &o.DepartureDate, &o.ArrivalDate,
		&o.WeightTons, &o.CapacityTons, &o.CargoType, &o.VesselName, &o.IMONumber, &o.Price, &state,
		&o.InsuranceTemplateID, &o.InsurancePolicyID, &o.TokenID, &o.ContractAddress, &o.TxHash, &o.MetadataURI,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.Type = models.OrderType(typ)
	o.Status = models.OrderStatus(state)
	return &o, nil
}
