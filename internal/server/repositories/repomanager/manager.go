package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/shipmarket/internal/dbx"
	"github.com/dmitrijs2005/shipmarket/internal/server/repositories/carrierroutes"
	"github.com/dmitrijs2005/shipmarket/internal/server/repositories/contracts"
	"github.com/dmitrijs2005/shipmarket/internal/server/repositories/insurance"
	"github.com/dmitrijs2005/shipmarket/internal/server/repositories/matches"
	"github.com/dmitrijs2005/shipmarket/internal/server/repositories/orders"
	"github.com/dmitrijs2005/shipmarket/internal/server/repositories/orphans"
	"github.com/dmitrijs2005/shipmarket/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/shipmarket/internal/server/repositories/refreshtokens"
)

// RepositoryManager vends repositories bound to a DBTX, so callers can pass
// either the pool or an open transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Profiles(db dbx.DBTX) profiles.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Orders(db dbx.DBTX) orders.Repository
	CarrierRoutes(db dbx.DBTX) carrierroutes.Repository
	Insurance(db dbx.DBTX) insurance.Repository
	Matches(db dbx.DBTX) matches.Repository
	Contracts(db dbx.DBTX) contracts.Repository
	Orphans(db dbx.DBTX) orphans.Repository
}
