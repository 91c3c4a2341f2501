package grpc

import (
	"context"

	"github.com/dmitrijs2005/shipmarket/internal/server/models"
	"github.com/dmitrijs2005/shipmarket/internal/server/risk"
	"github.com/dmitrijs2005/shipmarket/internal/server/services"
	"github.com/shopspring/decimal"
)

type UserService interface {
	RequestChallenge(ctx context.Context, address, displayName string, role models.Role) (*services.Challenge, error)
	Login(ctx context.Context, address, signature string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
}

type OrderService interface {
	CreateCargoOrder(ctx context.Context, owner string, in *services.CargoOrderInput) (*models.Order, error)
	RegisterVessel(ctx context.Context, owner string, in *services.VesselInput) (*models.Order, error)
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	ListMarketplace(ctx context.Context, status models.OrderStatus) (*models.Marketplace, error)
	UpdateStatus(ctx context.Context, caller, orderID string, status models.OrderStatus) error
	ApplyInsuranceTemplate(ctx context.Context, caller, orderID, templateID string) (*models.InsurancePolicy, error)
}

type JourneyService interface {
	LogJourney(ctx context.Context, owner string, in *services.JourneyInput) (*models.CarrierRoute, error)
	ListJourneys(ctx context.Context, owner, vesselOrderID string) ([]*models.CarrierRoute, error)
}

type InsuranceService interface {
	ListTemplates(ctx context.Context) ([]*models.InsuranceTemplate, error)
	CreatePolicy(ctx context.Context, owner string, in *services.PolicyInput) (*models.UserInsurancePolicy, error)
	ListPolicies(ctx context.Context, owner string) (*services.Policies, error)
}

type MatchService interface {
	CreateMatch(ctx context.Context, caller, cargoOrderID, vesselOrderID string, price decimal.Decimal) (*models.OrderMatch, error)
	RespondMatch(ctx context.Context, caller, matchID string, accept bool) (*models.OrderMatch, error)
	ListMatches(ctx context.Context, caller string) ([]*models.OrderMatch, error)
}

type PortfolioService interface {
	GetPortfolio(ctx context.Context, owner string) (*services.Portfolio, error)
}

type WalletService interface {
	ListContracts(ctx context.Context) ([]*models.SmartContract, error)
	GetWalletConfig(ctx context.Context) (*services.WalletConfig, error)
}

type RiskService interface {
	AssessRisk(ctx context.Context, orderID string, route risk.Subject) (*risk.Assessment, error)
}
