// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/shipmarket/internal/dbx"
	"github.com/dmitrijs2005/shipmarket/internal/server/migrations"
	"github.com/dmitrijs2005/shipmarket/internal/server/repositories/carrierroutes"
	"github.com/dmitrijs2005/shipmarket/internal/server/repositories/contracts"
	"github.com/dmitrijs2005/shipmarket/internal/server/repositories/insurance"
	"github.com/dmitrijs2005/shipmarket/internal/server/repositories/matches"
	"github.com/dmitrijs2005/shipmarket/internal/server/repositories/orders"
	"github.com/dmitrijs2005/shipmarket/internal/server/repositories/orphans"
	"github.com/dmitrijs2005/shipmarket/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/shipmarket/internal/server/repositories/refreshtokens"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

func (m *PostgresRepositoryManager) Profiles(db dbx.DBTX) profiles.Repository {
	return profiles.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Orders(db dbx.DBTX) orders.Repository {
	return orders.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) CarrierRoutes(db dbx.DBTX) carrierroutes.Repository {
	return carrierroutes.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Insurance(db dbx.DBTX) insurance.Repository {
	return insurance.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Matches(db dbx.DBTX) matches.Repository {
	return matches.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Contracts(db dbx.DBTX) contracts.Repository {
	return contracts.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Orphans(db dbx.DBTX) orphans.Repository {
	return orphans.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}
