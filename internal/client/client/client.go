package client

import (
	"context"

	"github.com/dmitrijs2005/shipmarket/internal/api"
)

type Client interface {
	Close() error
	Ping(ctx context.Context) error
	RequestChallenge(ctx context.Context, address string) (string, error)
	Login(ctx context.Context, address, signature string) error
	Marketplace(ctx context.Context) (*api.ListMarketplaceResponse, error)
	Order(ctx context.Context, orderID string) (*api.Order, error)
	Templates(ctx context.Context) ([]*api.InsuranceTemplate, error)
	Contracts(ctx context.Context) ([]*api.Contract, error)
	Portfolio(ctx context.Context) (*api.Portfolio, error)
	UpdateOrderStatus(ctx context.Context, orderID, status string) error
	ApplyTemplate(ctx context.Context, orderID, templateID string) (*api.InsurancePolicy, error)
	AssessRisk(ctx context.Context, orderID string) (*api.RiskAssessment, error)
}
