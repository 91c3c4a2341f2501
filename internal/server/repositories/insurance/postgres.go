package insurance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/shipmarket/internal/common"
	"github.com/dmitrijs2005/shipmarket/internal/dbx"
	"github.com/dmitrijs2005/shipmarket/internal/server/models"
)

const templateColumns = `id, name, description, trigger_condition, threshold, premium, payout, active, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTemplate(s scanner) (*models.InsuranceTemplate, error) {
	var (
		t       models.InsuranceTemplate
		trigger string
	)
	if err := s.Scan(&t.ID, &t.Name, &t.Description, &trigger, &t.Threshold, &t.Premium, &t.Payout, &t.Active, &t.CreatedAt); err != nil {
		return nil, err
	}
	t.TriggerCondition = models.TriggerCondition(trigger)
	return &t, nil
}

func (r *PostgresRepository) ListTemplates(ctx context.Context, activeOnly bool) ([]*models.InsuranceTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM insurance_templates`
	if activeOnly {
		query += ` WHERE active`
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select templates: %w", err)
	}
	defer rows.Close()

	var result []*models.InsuranceTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) GetTemplate(ctx context.Context, id string) (*models.InsuranceTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM insurance_templates WHERE id = $1`
	t, err := scanTemplate(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

func (r *PostgresRepository) CreateUserPolicy(ctx context.Context, p *models.UserInsurancePolicy) error {
	query := `
		INSERT INTO user_insurance_policies (id, owner, name, trigger_condition, threshold, premium, payout,
			order_id, token_id, contract_address, tx_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		p.ID, p.Owner, p.Name, string(p.TriggerCondition), p.Threshold, p.Premium, p.Payout,
		p.OrderID, p.TokenID, p.ContractAddress, p.TxHash,
	).Scan(&p.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListUserPolicies(ctx context.Context, owner string) ([]*models.UserInsurancePolicy, error) {
	query := `
		SELECT id, owner, name, trigger_condition, threshold, premium, payout, order_id, token_id,
			contract_address, tx_hash, created_at
		FROM user_insurance_policies WHERE owner = $1 ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to select user policies: %w", err)
	}
	defer rows.Close()

	var result []*models.UserInsurancePolicy
	for rows.Next() {
		var (
			p       models.UserInsurancePolicy
			trigger string
		)
		if err := rows.Scan(&p.ID, &p.Owner, &p.Name, &trigger, &p.Threshold, &p.Premium, &p.Payout,
			&p.OrderID, &p.TokenID, &p.ContractAddress, &p.TxHash, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.TriggerCondition = models.TriggerCondition(trigger)
		result = append(result, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) CreatePolicy(ctx context.Context, p *models.InsurancePolicy) error {
	query := `
		INSERT INTO insurance_policies (id, order_id, template_id, holder, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	if err := r.db.QueryRowContext(ctx, query, p.ID, p.OrderID, p.TemplateID, p.Holder, string(p.Status)).Scan(&p.CreatedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ExpireOrderPolicies(ctx context.Context, orderID string) (int64, error) {
	query := `UPDATE insurance_policies SET status = 'expired' WHERE order_id = $1 AND status = 'active'`
	res, err := r.db.ExecContext(ctx, query, orderID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) ListPoliciesByHolder(ctx context.Context, holder string) ([]*models.InsurancePolicy, error) {
	query := `SELECT id, order_id, template_id, holder, status, created_at FROM insurance_policies WHERE holder = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, holder)
	if err != nil {
		return nil, fmt.Errorf("failed to select policies: %w", err)
	}
	defer rows.Close()

	var result []*models.InsurancePolicy
	for rows.Next() {
		var (
			p      models.InsurancePolicy
			status string
		)
		if err := rows.Scan(&p.ID, &p.OrderID, &p.TemplateID, &p.Holder, &status, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.Status = models.PolicyStatus(status)
		result = append(result, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
