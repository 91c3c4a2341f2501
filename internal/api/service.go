package api

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "shipmarket.v1.Marketplace"

// FullMethod returns the gRPC path of a Marketplace method.
func FullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

// MarketplaceServer is implemented by the gRPC server.
type MarketplaceServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	RequestChallenge(context.Context, *RequestChallengeRequest) (*RequestChallengeResponse, error)
	Login(context.Context, *LoginRequest) (*TokenPair, error)
	RefreshToken(context.Context, *RefreshTokenRequest) (*TokenPair, error)
	GetWalletConfig(context.Context, *GetWalletConfigRequest) (*WalletConfig, error)
	ListContracts(context.Context, *ListContractsRequest) (*ListContractsResponse, error)
	ListMarketplace(context.Context, *ListMarketplaceRequest) (*ListMarketplaceResponse, error)
	GetOrder(context.Context, *GetOrderRequest) (*Order, error)
	ListInsuranceTemplates(context.Context, *ListInsuranceTemplatesRequest) (*ListInsuranceTemplatesResponse, error)

	CreateCargoOrder(context.Context, *CreateCargoOrderRequest) (*Order, error)
	RegisterVessel(context.Context, *RegisterVesselRequest) (*Order, error)
	UpdateOrderStatus(context.Context, *UpdateOrderStatusRequest) (*UpdateOrderStatusResponse, error)
	LogJourney(context.Context, *LogJourneyRequest) (*Journey, error)
	ListJourneys(context.Context, *ListJourneysRequest) (*ListJourneysResponse, error)
	ApplyInsuranceTemplate(context.Context, *ApplyInsuranceTemplateRequest) (*InsurancePolicy, error)
	CreateInsurancePolicy(context.Context, *CreateInsurancePolicyRequest) (*UserPolicy, error)
	ListUserPolicies(context.Context, *ListUserPoliciesRequest) (*ListUserPoliciesResponse, error)
	CreateMatch(context.Context, *CreateMatchRequest) (*Match, error)
	RespondMatch(context.Context, *RespondMatchRequest) (*Match, error)
	ListMatches(context.Context, *ListMatchesRequest) (*ListMatchesResponse, error)
	GetPortfolio(context.Context, *GetPortfolioRequest) (*Portfolio, error)
	AssessRisk(context.Context, *AssessRiskRequest) (*RiskAssessment, error)
}

// PublicMethods can be called without an access token.
var PublicMethods = map[string]bool{
	FullMethod("Ping"):                   true,
	FullMethod("RequestChallenge"):       true,
	FullMethod("Login"):                  true,
	FullMethod("RefreshToken"):           true,
	FullMethod("GetWalletConfig"):        true,
	FullMethod("ListContracts"):          true,
	FullMethod("ListMarketplace"):        true,
	FullMethod("GetOrder"):               true,
	FullMethod("ListInsuranceTemplates"): true,
}

func unary[Req, Resp any](name string, call func(MarketplaceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(MarketplaceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(srv.(MarketplaceServer), ctx, req.(*Req))
			})
		},
	}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*MarketplaceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Ping", MarketplaceServer.Ping),
		unary("RequestChallenge", MarketplaceServer.RequestChallenge),
		unary("Login", MarketplaceServer.Login),
		unary("RefreshToken", MarketplaceServer.RefreshToken),
		unary("GetWalletConfig", MarketplaceServer.GetWalletConfig),
		unary("ListContracts", MarketplaceServer.ListContracts),
		unary("ListMarketplace", MarketplaceServer.ListMarketplace),
		unary("GetOrder", MarketplaceServer.GetOrder),
		unary("ListInsuranceTemplates", MarketplaceServer.ListInsuranceTemplates),
		unary("CreateCargoOrder", MarketplaceServer.CreateCargoOrder),
		unary("RegisterVessel", MarketplaceServer.RegisterVessel),
		unary("UpdateOrderStatus", MarketplaceServer.UpdateOrderStatus),
		unary("LogJourney", MarketplaceServer.LogJourney),
		unary("ListJourneys", MarketplaceServer.ListJourneys),
		unary("ApplyInsuranceTemplate", MarketplaceServer.ApplyInsuranceTemplate),
		unary("CreateInsurancePolicy", MarketplaceServer.CreateInsurancePolicy),
		unary("ListUserPolicies", MarketplaceServer.ListUserPolicies),
		unary("CreateMatch", MarketplaceServer.CreateMatch),
		unary("RespondMatch", MarketplaceServer.RespondMatch),
		unary("ListMatches", MarketplaceServer.ListMatches),
		unary("GetPortfolio", MarketplaceServer.GetPortfolio),
		unary("AssessRisk", MarketplaceServer.AssessRisk),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "shipmarket/v1/marketplace",
}

func RegisterMarketplaceServer(s grpc.ServiceRegistrar, srv MarketplaceServer) {
	s.RegisterService(&ServiceDesc, srv)
}
