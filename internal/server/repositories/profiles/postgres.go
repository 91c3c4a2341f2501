package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/shipmarket/internal/common"
	"github.com/dmitrijs2005/shipmarket/internal/dbx"
	"github.com/dmitrijs2005/shipmarket/internal/server/models"
)

const columns = `id, wallet_address, display_name, role, nonce, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.Profile) error {
	p.WalletAddress = common.NormalizeAddress(p.WalletAddress)

	query := `
		INSERT INTO profiles (id, wallet_address, display_name, role, nonce)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query, p.ID, p.WalletAddress, p.DisplayName, string(p.Role), p.Nonce).
		Scan(&p.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) getOne(ctx context.Context, where string, arg any) (*models.Profile, error) {
	var (
		p    models.Profile
		role string
	)
	query := `SELECT ` + columns + ` FROM profiles WHERE ` + where + ` = $1`
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&p.ID, &p.WalletAddress, &p.DisplayName, &role, &p.Nonce, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	p.Role = models.Role(role)
	return &p, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	return r.getOne(ctx, "id", id)
}

func (r *PostgresRepository) GetByWallet(ctx context.Context, wallet string) (*models.Profile, error) {
	return r.getOne(ctx, "wallet_address", common.NormalizeAddress(wallet))
}

func (r *PostgresRepository) SetNonce(ctx context.Context, id string, nonce string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE profiles SET nonce = $1 WHERE id = $2`, nonce, id)
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
