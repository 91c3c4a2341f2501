package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/shipmarket/internal/api"
	"github.com/dmitrijs2005/shipmarket/internal/client/client"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// fakeClient implements client.Client for service tests.
type fakeClient struct {
	CloseErr error
	PingErr  error

	Challenge    string
	ChallengeErr error
	LoginErr     error

	Market    *api.ListMarketplaceResponse
	MarketErr error

	StatusErr error
	Policy    *api.InsurancePolicy
	ApplyErr  error

	LastChallengeAddr string
	LastLoginAddr     string
	LastLoginSig      string
	LastStatus        string
	closed            bool
}

func (f *fakeClient) Close() error { f.closed = true; return f.CloseErr }

func (f *fakeClient) Ping(ctx context.Context) error { return f.PingErr }

func (f *fakeClient) RequestChallenge(_ context.Context, address string) (string, error) {
	f.LastChallengeAddr = address
	return f.Challenge, f.ChallengeErr
}

func (f *fakeClient) Login(_ context.Context, address, signature string) error {
	f.LastLoginAddr, f.LastLoginSig = address, signature
	return f.LoginErr
}

func (f *fakeClient) Marketplace(context.Context) (*api.ListMarketplaceResponse, error) {
	return f.Market, f.MarketErr
}

func (f *fakeClient) Order(_ context.Context, id string) (*api.Order, error) {
	return &api.Order{ID: id}, nil
}

func (f *fakeClient) Templates(context.Context) ([]*api.InsuranceTemplate, error) {
	return []*api.InsuranceTemplate{{ID: "t1"}}, nil
}

func (f *fakeClient) Contracts(context.Context) ([]*api.Contract, error) {
	return []*api.Contract{{Name: "cargo_nft"}}, nil
}

func (f *fakeClient) Portfolio(context.Context) (*api.Portfolio, error) {
	return &api.Portfolio{}, nil
}

func (f *fakeClient) UpdateOrderStatus(_ context.Context, _, status string) error {
	f.LastStatus = status
	return f.StatusErr
}

func (f *fakeClient) ApplyTemplate(context.Context, string, string) (*api.InsurancePolicy, error) {
	return f.Policy, f.ApplyErr
}

func (f *fakeClient) AssessRisk(_ context.Context, id string) (*api.RiskAssessment, error) {
	return &api.RiskAssessment{Level: "low"}, nil
}
