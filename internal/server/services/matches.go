package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/shipmarket/internal/common"
	"github.com/dmitrijs2005/shipmarket/internal/dbx"
	"github.com/dmitrijs2005/shipmarket/internal/server/events"
	"github.com/dmitrijs2005/shipmarket/internal/server/models"
	"github.com/dmitrijs2005/shipmarket/internal/server/repositories/orders"
	"github.com/dmitrijs2005/shipmarket/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

const pgUniqueViolation = "23505"

type MatchService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	mint        *MintWorkflow
}

func NewMatchService(db *sql.DB, rm repomanager.RepositoryManager, mint *MintWorkflow) *MatchService {
	return &MatchService{db: db, repomanager: rm, mint: mint}
}

// CreateMatch proposes pairing an active cargo order with an active vessel
// order. The caller must own one of the two.
func (s *MatchService) CreateMatch(ctx context.Context, caller, cargoOrderID, vesselOrderID string, price decimal.Decimal) (*models.OrderMatch, error) {
	var f form
	f.check(uuid.Validate(cargoOrderID) == nil, "cargo_order_id", "must be a uuid")
	f.check(uuid.Validate(vesselOrderID) == nil, "vessel_order_id", "must be a uuid")
	f.positive("agreed_price", price)
	if err := f.err(); err != nil {
		return nil, err
	}

	repo := s.repomanager.Orders(s.db)
	cargo, err := repo.GetByID(ctx, cargoOrderID)
	if err != nil {
		return nil, err
	}
	vessel, err := repo.GetByID(ctx, vesselOrderID)
	if err != nil {
		return nil, err
	}

	f.check(cargo.Type == models.OrderTypeCargo, "cargo_order_id", "is not a cargo order")
	f.check(vessel.Type == models.OrderTypeVessel, "vessel_order_id", "is not a vessel order")
	f.check(cargo.Status == models.OrderStatusActive, "cargo_order_id", "is not active")
	f.check(vessel.Status == models.OrderStatusActive, "vessel_order_id", "is not active")
	if err := f.err(); err != nil {
		return nil, err
	}

	me := common.NormalizeAddress(caller)
	if cargo.Owner != me && vessel.Owner != me {
		return nil, common.ErrorForbidden
	}

	m := &models.OrderMatch{
		ID:            uuid.NewString(),
		CargoOrderID:  cargoOrderID,
		VesselOrderID: vesselOrderID,
		AgreedPrice:   price,
		ProposedBy:    me,
		Status:        models.MatchStatusProposed,
	}
	if err := s.repomanager.Matches(s.db).Create(ctx, m); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, validationErr("vessel_order_id", "these orders are already matched")
		}
		return nil, err
	}

	s.mint.Publish(ctx, events.Event{Type: events.MatchCreated, Key: m.ID, Actor: me})
	return m, nil
}

// RespondMatch accepts or rejects a proposed match. Only the counterparty of
// the proposer may accept; the proposer may withdraw by rejecting. Accepting
// moves both orders from active to matched in the same transaction as the
// match itself, so a stale proposal cannot pair an order twice.
func (s *MatchService) RespondMatch(ctx context.Context, caller, matchID string, accept bool) (*models.OrderMatch, error) {
	if uuid.Validate(matchID) != nil {
		return nil, common.ErrorNotFound
	}

	m, err := s.repomanager.Matches(s.db).GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if m.Status != models.MatchStatusProposed {
		return nil, validationErr("match_id", "match is already "+string(m.Status))
	}

	repo := s.repomanager.Orders(s.db)
	cargo, err := repo.GetByID(ctx, m.CargoOrderID)
	if err != nil {
		return nil, err
	}
	vessel, err := repo.GetByID(ctx, m.VesselOrderID)
	if err != nil {
		return nil, err
	}

	me := common.NormalizeAddress(caller)
	if cargo.Owner != me && vessel.Owner != me {
		return nil, common.ErrorForbidden
	}
	if accept && counterparty(m, cargo, vessel) != me {
		return nil, common.ErrorForbidden
	}

	status := models.MatchStatusRejected
	if accept {
		status = models.MatchStatusAccepted

		var f form
		f.check(cargo.Status == models.OrderStatusActive, "cargo_order_id", "is no longer active")
		f.check(vessel.Status == models.OrderStatusActive, "vessel_order_id", "is no longer active")
		if err := f.err(); err != nil {
			return nil, err
		}
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if accept {
			ordersTx := s.repomanager.Orders(tx)
			if err := claimOrder(ctx, ordersTx, "cargo_order_id", m.CargoOrderID); err != nil {
				return err
			}
			if err := claimOrder(ctx, ordersTx, "vessel_order_id", m.VesselOrderID); err != nil {
				return err
			}
		}
		err := s.repomanager.Matches(tx).Decide(ctx, m.ID, status)
		if errors.Is(err, common.ErrorNotFound) {
			return validationErr("match_id", "match is no longer proposed")
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	m.Status = status

	s.mint.Publish(ctx, events.Event{
		Type:       events.MatchUpdated,
		Key:        m.ID,
		Actor:      me,
		Attributes: map[string]string{"status": string(status)},
	})
	return m, nil
}

// counterparty is the owner of the side the proposer does not hold.
func counterparty(m *models.OrderMatch, cargo, vessel *models.Order) string {
	if m.ProposedBy == cargo.Owner {
		return vessel.Owner
	}
	return cargo.Owner
}

func claimOrder(ctx context.Context, repo orders.Repository, field, id string) error {
	err := repo.TransitionStatus(ctx, id, models.OrderStatusActive, models.OrderStatusMatched)
	if errors.Is(err, common.ErrorNotFound) {
		return validationErr(field, "is no longer active")
	}
	return err
}

// ListMatches returns matches involving any order owned by caller.
func (s *MatchService) ListMatches(ctx context.Context, caller string) ([]*models.OrderMatch, error) {
	owned, err := s.repomanager.Orders(s.db).List(ctx, orders.Filter{Owner: common.NormalizeAddress(caller)})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(owned))
	for _, o := range owned {
		ids = append(ids, o.ID)
	}
	return s.repomanager.Matches(s.db).ListByOrders(ctx, ids)
}
