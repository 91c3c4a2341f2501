package services

import (
	"context"

	"github.com/dmitrijs2005/shipmarket/internal/common"
	"github.com/dmitrijs2005/shipmarket/internal/server/models"
	"github.com/dmitrijs2005/shipmarket/internal/server/repositories/orders"
	"golang.org/x/sync/errgroup"
)

// Portfolio is everything a wallet owns on the marketplace.
type Portfolio struct {
	Orders   []*models.Order
	Journeys []*models.CarrierRoute
	Policies *Policies
	Matches  []*models.OrderMatch
}

type PortfolioService struct {
	orders    *OrderService
	journeys  *JourneyService
	insurance *InsuranceService
	matches   *MatchService
}

func NewPortfolioService(o *OrderService, j *JourneyService, i *InsuranceService, m *MatchService) *PortfolioService {
	return &PortfolioService{orders: o, journeys: j, insurance: i, matches: m}
}

// GetPortfolio loads the four sections concurrently.
func (s *PortfolioService) GetPortfolio(ctx context.Context, owner string) (*Portfolio, error) {
	owner = common.NormalizeAddress(owner)
	p := &Portfolio{}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		p.Orders, err = s.orders.repomanager.Orders(s.orders.db).List(ctx, orders.Filter{Owner: owner})
		return err
	})
	g.Go(func() error {
		var err error
		p.Journeys, err = s.journeys.ListJourneys(ctx, owner, "")
		return err
	})
	g.Go(func() error {
		var err error
		p.Policies, err = s.insurance.ListPolicies(ctx, owner)
		return err
	})
	g.Go(func() error {
		var err error
		p.Matches, err = s.matches.ListMatches(ctx, owner)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return p, nil
}
