package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/shipmarket/internal/api"
	"github.com/dmitrijs2005/shipmarket/internal/client/client"
	"github.com/dmitrijs2005/shipmarket/internal/client/repositories/snapshots"
	"github.com/dmitrijs2005/shipmarket/internal/common"
)

const marketplaceKey = "marketplace"

// Listing is a marketplace view. Offline listings come from the local
// snapshot taken at SavedAt.
type Listing struct {
	*api.ListMarketplaceResponse
	Offline bool
	SavedAt time.Time
}

// MarketService wraps marketplace reads and order mutations. Reads of the
// public listing fall back to the local snapshot when the server is down;
// every mutation drops that snapshot.
type MarketService interface {
	Marketplace(ctx context.Context) (*Listing, error)
	Order(ctx context.Context, orderID string) (*api.Order, error)
	Portfolio(ctx context.Context) (*api.Portfolio, error)
	Templates(ctx context.Context) ([]*api.InsuranceTemplate, error)
	Contracts(ctx context.Context) ([]*api.Contract, error)
	UpdateOrderStatus(ctx context.Context, orderID, status string) error
	ApplyTemplate(ctx context.Context, orderID, templateID string) (*api.InsurancePolicy, error)
	AssessRisk(ctx context.Context, orderID string) (*api.RiskAssessment, error)
	Invalidate(ctx context.Context) error
}

type marketService struct {
	client client.Client
	db     *sql.DB
	now    func() time.Time
}

func NewMarketService(client client.Client, db *sql.DB) MarketService {
	return &marketService{client: client, db: db, now: time.Now}
}

func (m *marketService) snapshots() snapshots.Repository {
	return snapshots.NewSQLiteRepository(m.db)
}

func (m *marketService) Marketplace(ctx context.Context) (*Listing, error) {
	resp, err := m.client.Marketplace(ctx)
	if err == nil {
		m.save(ctx, resp)
		return &Listing{ListMarketplaceResponse: resp}, nil
	}
	if !errors.Is(err, client.ErrUnavailable) {
		return nil, err
	}

	snap, serr := m.snapshots().Get(ctx, marketplaceKey)
	if serr != nil {
		if errors.Is(serr, common.ErrorNotFound) {
			return nil, client.ErrLocalDataNotAvailable
		}
		return nil, serr
	}

	var cached api.ListMarketplaceResponse
	if err := json.Unmarshal(snap.Value, &cached); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &Listing{ListMarketplaceResponse: &cached, Offline: true, SavedAt: snap.SavedAt}, nil
}

// save stores the listing; a failed write only costs the offline copy.
func (m *marketService) save(ctx context.Context, resp *api.ListMarketplaceResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	_ = m.snapshots().Put(ctx, &snapshots.Snapshot{Key: marketplaceKey, Value: data, SavedAt: m.now()})
}

func (m *marketService) Order(ctx context.Context, orderID string) (*api.Order, error) {
	return m.client.Order(ctx, orderID)
}

func (m *marketService) Portfolio(ctx context.Context) (*api.Portfolio, error) {
	return m.client.Portfolio(ctx)
}

func (m *marketService) Templates(ctx context.Context) ([]*api.InsuranceTemplate, error) {
	return m.client.Templates(ctx)
}

func (m *marketService) Contracts(ctx context.Context) ([]*api.Contract, error) {
	return m.client.Contracts(ctx)
}

func (m *marketService) UpdateOrderStatus(ctx context.Context, orderID, status string) error {
	if err := m.client.UpdateOrderStatus(ctx, orderID, status); err != nil {
		return err
	}
	return m.Invalidate(ctx)
}

func (m *marketService) ApplyTemplate(ctx context.Context, orderID, templateID string) (*api.InsurancePolicy, error) {
	p, err := m.client.ApplyTemplate(ctx, orderID, templateID)
	if err != nil {
		return nil, err
	}
	return p, m.Invalidate(ctx)
}

func (m *marketService) AssessRisk(ctx context.Context, orderID string) (*api.RiskAssessment, error) {
	return m.client.AssessRisk(ctx, orderID)
}

// Invalidate drops the cached marketplace listing.
func (m *marketService) Invalidate(ctx context.Context) error {
	return m.snapshots().Delete(ctx, marketplaceKey)
}
