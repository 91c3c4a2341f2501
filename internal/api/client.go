package api

import (
	"context"

	"github.com/dmitrijs2005/shipmarket/internal/common"
	"google.golang.org/grpc"
)

// MarketplaceClient calls the Marketplace service over a client connection.
// Every call is sent with the JSON content-subtype.
type MarketplaceClient struct {
	cc grpc.ClientConnInterface
}

func NewMarketplaceClient(cc grpc.ClientConnInterface) *MarketplaceClient {
	return &MarketplaceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(common.ContentSubtype)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *MarketplaceClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, "Ping", in, opts)
}

func (c *MarketplaceClient) RequestChallenge(ctx context.Context, in *RequestChallengeRequest, opts ...grpc.CallOption) (*RequestChallengeResponse, error) {
	return invoke[RequestChallengeResponse](ctx, c.cc, "RequestChallenge", in, opts)
}

func (c *MarketplaceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*TokenPair, error) {
	return invoke[TokenPair](ctx, c.cc, "Login", in, opts)
}

func (c *MarketplaceClient) RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*TokenPair, error) {
	return invoke[TokenPair](ctx, c.cc, "RefreshToken", in, opts)
}

func (c *MarketplaceClient) GetWalletConfig(ctx context.Context, in *GetWalletConfigRequest, opts ...grpc.CallOption) (*WalletConfig, error) {
	return invoke[WalletConfig](ctx, c.cc, "GetWalletConfig", in, opts)
}

func (c *MarketplaceClient) ListContracts(ctx context.Context, in *ListContractsRequest, opts ...grpc.CallOption) (*ListContractsResponse, error) {
	return invoke[ListContractsResponse](ctx, c.cc, "ListContracts", in, opts)
}

func (c *MarketplaceClient) ListMarketplace(ctx context.Context, in *ListMarketplaceRequest, opts ...grpc.CallOption) (*ListMarketplaceResponse, error) {
	return invoke[ListMarketplaceResponse](ctx, c.cc, "ListMarketplace", in, opts)
}

func (c *MarketplaceClient) GetOrder(ctx context.Context, in *GetOrderRequest, opts ...grpc.CallOption) (*Order, error) {
	return invoke[Order](ctx, c.cc, "GetOrder", in, opts)
}

func (c *MarketplaceClient) ListInsuranceTemplates(ctx context.Context, in *ListInsuranceTemplatesRequest, opts ...grpc.CallOption) (*ListInsuranceTemplatesResponse, error) {
	return invoke[ListInsuranceTemplatesResponse](ctx, c.cc, "ListInsuranceTemplates", in, opts)
}

func (c *MarketplaceClient) CreateCargoOrder(ctx context.Context, in *CreateCargoOrderRequest, opts ...grpc.CallOption) (*Order, error) {
	return invoke[Order](ctx, c.cc, "CreateCargoOrder", in, opts)
}

func (c *MarketplaceClient) RegisterVessel(ctx context.Context, in *RegisterVesselRequest, opts ...grpc.CallOption) (*Order, error) {
	return invoke[Order](ctx, c.cc, "RegisterVessel", in, opts)
}

func (c *MarketplaceClient) UpdateOrderStatus(ctx context.Context, in *UpdateOrderStatusRequest, opts ...grpc.CallOption) (*UpdateOrderStatusResponse, error) {
	return invoke[UpdateOrderStatusResponse](ctx, c.cc, "UpdateOrderStatus", in, opts)
}

func (c *MarketplaceClient) LogJourney(ctx context.Context, in *LogJourneyRequest, opts ...grpc.CallOption) (*Journey, error) {
	return invoke[Journey](ctx, c.cc, "LogJourney", in, opts)
}

func (c *MarketplaceClient) ListJourneys(ctx context.Context, in *ListJourneysRequest, opts ...grpc.CallOption) (*ListJourneysResponse, error) {
	return invoke[ListJourneysResponse](ctx, c.cc, "ListJourneys", in, opts)
}

func (c *MarketplaceClient) ApplyInsuranceTemplate(ctx context.Context, in *ApplyInsuranceTemplateRequest, opts ...grpc.CallOption) (*InsurancePolicy, error) {
	return invoke[InsurancePolicy](ctx, c.cc, "ApplyInsuranceTemplate", in, opts)
}

func (c *MarketplaceClient) CreateInsurancePolicy(ctx context.Context, in *CreateInsurancePolicyRequest, opts ...grpc.CallOption) (*UserPolicy, error) {
	return invoke[UserPolicy](ctx, c.cc, "CreateInsurancePolicy", in, opts)
}

func (c *MarketplaceClient) ListUserPolicies(ctx context.Context, in *ListUserPoliciesRequest, opts ...grpc.CallOption) (*ListUserPoliciesResponse, error) {
	return invoke[ListUserPoliciesResponse](ctx, c.cc, "ListUserPolicies", in, opts)
}

func (c *MarketplaceClient) CreateMatch(ctx context.Context, in *CreateMatchRequest, opts ...grpc.CallOption) (*Match, error) {
	return invoke[Match](ctx, c.cc, "CreateMatch", in, opts)
}

func (c *MarketplaceClient) RespondMatch(ctx context.Context, in *RespondMatchRequest, opts ...grpc.CallOption) (*Match, error) {
	return invoke[Match](ctx, c.cc, "RespondMatch", in, opts)
}

func (c *MarketplaceClient) ListMatches(ctx context.Context, in *ListMatchesRequest, opts ...grpc.CallOption) (*ListMatchesResponse, error) {
	return invoke[ListMatchesResponse](ctx, c.cc, "ListMatches", in, opts)
}

func (c *MarketplaceClient) GetPortfolio(ctx context.Context, in *GetPortfolioRequest, opts ...grpc.CallOption) (*Portfolio, error) {
	return invoke[Portfolio](ctx, c.cc, "GetPortfolio", in, opts)
}

func (c *MarketplaceClient) AssessRisk(ctx context.Context, in *AssessRiskRequest, opts ...grpc.CallOption) (*RiskAssessment, error) {
	return invoke[RiskAssessment](ctx, c.cc, "AssessRisk", in, opts)
}
