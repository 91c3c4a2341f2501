package matches

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

const columns = `id, cargo_order_id, vessel_order_id, agreed_price, proposed_by, status, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMatch(s scanner) (*models.OrderMatch, error) {
	var (
		m      models.OrderMatch
		status string
	)
	if err := s.Scan(&m.ID, &m.CargoOrderID, &m.VesselOrderID, &m.AgreedPrice, &m.ProposedBy, &status, &m.CreatedAt); err != nil {
		return nil, err
	}
	m.Status = models.MatchStatus(status)
	return &m, nil
}

func (r *PostgresRepository) Create(ctx context.Context, m *models.OrderMatch) error {
	query := `
		INSERT INTO order_matches (id, cargo_order_id, vessel_order_id, agreed_price, proposed_by, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query, m.ID, m.CargoOrderID, m.VesselOrderID, m.AgreedPrice, m.ProposedBy, string(m.Status)).
		Scan(&m.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.OrderMatch, error) {
	query := `SELECT ` + columns + ` FROM order_matches WHERE id = $1`
	m, err := scanMatch(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return m, nil
}

func (r *PostgresRepository) ListByOrders(ctx context.Context, orderIDs []string) ([]*models.OrderMatch, error) {
	if len(orderIDs) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(orderIDs))
	args := make([]any, len(orderIDs))
	for i, id := range orderIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	in := strings.Join(placeholders, ", ")

	query := `SELECT ` + columns + ` FROM order_matches
		WHERE cargo_order_id IN (` + in + `) OR vessel_order_id IN (` + in + `)
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select matches: %w", err)
	}
	defer rows.Close()

	var result []*models.OrderMatch
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Decide(ctx context.Context, id string, status models.MatchStatus) error {
	query := `UPDATE order_matches SET status = $1 WHERE id = $2 AND status = 'proposed'`
	res, err := r.db.ExecContext(ctx, query, string(status), id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
