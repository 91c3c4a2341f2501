package grpc

import (
	"context"

	"github.com/dmitrijs2005/shipmarket/internal/api"
	"github.com/dmitrijs2005/shipmarket/internal/server/models"
	"github.com/dmitrijs2005/shipmarket/internal/server/risk"
	"github.com/dmitrijs2005/shipmarket/internal/server/services"
)

func (s *GRPCServer) Ping(ctx context.Context, req *api.PingRequest) (*api.PingResponse, error) {

	return &api.PingResponse{Status: "OK"}, nil

}

// --- auth ---

func (s *GRPCServer) RequestChallenge(ctx context.Context, req *api.RequestChallengeRequest) (*api.RequestChallengeResponse, error) {

	c, err := s.services.Users.RequestChallenge(ctx, req.Address, req.DisplayName, models.Role(req.Role))
	if err != nil {
		return nil, s.toStatus(ctx, "RequestChallenge", err)
	}

	return &api.RequestChallengeResponse{Address: c.Address, Message: c.Message}, nil

}

func (s *GRPCServer) Login(ctx context.Context, req *api.LoginRequest) (*api.TokenPair, error) {

	tokens, err := s.services.Users.Login(ctx, req.Address, req.Signature)
	if err != nil {
		return nil, s.toStatus(ctx, "Login", err)
	}

	s.logger.Info(ctx, "Logged in", "wallet", req.Address)
	return &api.TokenPair{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil

}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *api.RefreshTokenRequest) (*api.TokenPair, error) {

	tokens, err := s.services.Users.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, s.toStatus(ctx, "RefreshToken", err)
	}

	return &api.TokenPair{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil

}

// --- wallet / directory ---

func (s *GRPCServer) GetWalletConfig(ctx context.Context, req *api.GetWalletConfigRequest) (*api.WalletConfig, error) {

	wc, err := s.services.Wallet.GetWalletConfig(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, "GetWalletConfig", err)
	}

	return &api.WalletConfig{ChainID: wc.ChainID, Network: wc.Network, RPCURL: wc.RPCURL, Contracts: wc.Contracts}, nil

}

func (s *GRPCServer) ListContracts(ctx context.Context, req *api.ListContractsRequest) (*api.ListContractsResponse, error) {

	list, err := s.services.Wallet.ListContracts(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, "ListContracts", err)
	}

	resp := &api.ListContractsResponse{Contracts: make([]*api.Contract, 0, len(list))}
	for _, c := range list {
		resp.Contracts = append(resp.Contracts, &api.Contract{Name: c.Name, Address: c.Address, Network: c.Network, ChainID: c.ChainID})
	}
	return resp, nil

}

// --- orders ---

func (s *GRPCServer) ListMarketplace(ctx context.Context, req *api.ListMarketplaceRequest) (*api.ListMarketplaceResponse, error) {

	m, err := s.services.Orders.ListMarketplace(ctx, models.OrderStatus(req.Status))
	if err != nil {
		return nil, s.toStatus(ctx, "ListMarketplace", err)
	}

	return &api.ListMarketplaceResponse{
		Cargo:       toOrders(m.Cargo),
		Vessel:      toOrders(m.Vessel),
		CargoCount:  m.CargoCount,
		VesselCount: m.VesselCount,
	}, nil

}

func (s *GRPCServer) GetOrder(ctx context.Context, req *api.GetOrderRequest) (*api.Order, error) {

	o, err := s.services.Orders.GetOrder(ctx, req.OrderID)
	if err != nil {
		return nil, s.toStatus(ctx, "GetOrder", err)
	}

	return toOrder(o), nil

}

func (s *GRPCServer) CreateCargoOrder(ctx context.Context, req *api.CreateCargoOrderRequest) (*api.Order, error) {

	id, err := identityFrom(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "Cargo order request", "wallet", id.Wallet)

	o, err := s.services.Orders.CreateCargoOrder(ctx, id.Wallet, &services.CargoOrderInput{
		Title:               req.Title,
		OriginPort:          req.OriginPort,
		DestinationPort:     req.DestinationPort,
		DepartureDate:       req.DepartureDate,
		ArrivalDate:         req.ArrivalDate,
		WeightTons:          req.WeightTons,
		CargoType:           req.CargoType,
		Price:               req.Price,
		InsuranceTemplateID: req.InsuranceTemplateID,
	})
	if err != nil {
		return nil, s.toStatus(ctx, "CreateCargoOrder", err)
	}

	return toOrder(o), nil

}

func (s *GRPCServer) RegisterVessel(ctx context.Context, req *api.RegisterVesselRequest) (*api.Order, error) {

	id, err := identityFrom(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "Vessel registration request", "wallet", id.Wallet, "imo", req.IMONumber)

	o, err := s.services.Orders.RegisterVessel(ctx, id.Wallet, &services.VesselInput{
		Title:           req.Title,
		VesselName:      req.VesselName,
		IMONumber:       req.IMONumber,
		OriginPort:      req.OriginPort,
		DestinationPort: req.DestinationPort,
		DepartureDate:   req.DepartureDate,
		ArrivalDate:     req.ArrivalDate,
		CapacityTons:    req.CapacityTons,
		Price:           req.Price,
	})
	if err != nil {
		return nil, s.toStatus(ctx, "RegisterVessel", err)
	}

	return toOrder(o), nil

}

func (s *GRPCServer) UpdateOrderStatus(ctx context.Context, req *api.UpdateOrderStatusRequest) (*api.UpdateOrderStatusResponse, error) {

	id, err := identityFrom(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Orders.UpdateStatus(ctx, id.Wallet, req.OrderID, models.OrderStatus(req.Status)); err != nil {
		return nil, s.toStatus(ctx, "UpdateOrderStatus", err)
	}

	return &api.UpdateOrderStatusResponse{}, nil

}

// --- journeys ---

func (s *GRPCServer) LogJourney(ctx context.Context, req *api.LogJourneyRequest) (*api.Journey, error) {

	id, err := identityFrom(ctx)
	if err != nil {
		return nil, err
	}

	r, err := s.services.Journeys.LogJourney(ctx, id.Wallet, &services.JourneyInput{
		VesselOrderID:         req.VesselOrderID,
		OriginPort:            req.OriginPort,
		DestinationPort:       req.DestinationPort,
		DepartureDate:         req.DepartureDate,
		ArrivalDate:           req.ArrivalDate,
		AvailableCapacityTons: req.AvailableCapacityTons,
		PricePerTon:           req.PricePerTon,
	})
	if err != nil {
		return nil, s.toStatus(ctx, "LogJourney", err)
	}

	return toJourney(r), nil

}

func (s *GRPCServer) ListJourneys(ctx context.Context, req *api.ListJourneysRequest) (*api.ListJourneysResponse, error) {

	id, err := identityFrom(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.services.Journeys.ListJourneys(ctx, id.Wallet, req.VesselOrderID)
	if err != nil {
		return nil, s.toStatus(ctx, "ListJourneys", err)
	}

	return &api.ListJourneysResponse{Journeys: toJourneys(list)}, nil

}

// --- insurance ---

func (s *GRPCServer) ListInsuranceTemplates(ctx context.Context, req *api.ListInsuranceTemplatesRequest) (*api.ListInsuranceTemplatesResponse, error) {

	list, err := s.services.Insurance.ListTemplates(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, "ListInsuranceTemplates", err)
	}

	resp := &api.ListInsuranceTemplatesResponse{Templates: make([]*api.InsuranceTemplate, 0, len(list))}
	for _, t := range list {
		resp.Templates = append(resp.Templates, toTemplate(t))
	}
	return resp, nil

}

func (s *GRPCServer) ApplyInsuranceTemplate(ctx context.Context, req *api.ApplyInsuranceTemplateRequest) (*api.InsurancePolicy, error) {

	id, err := identityFrom(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.services.Orders.ApplyInsuranceTemplate(ctx, id.Wallet, req.OrderID, req.TemplateID)
	if err != nil {
		return nil, s.toStatus(ctx, "ApplyInsuranceTemplate", err)
	}

	return toPolicy(p), nil

}

func (s *GRPCServer) CreateInsurancePolicy(ctx context.Context, req *api.CreateInsurancePolicyRequest) (*api.UserPolicy, error) {

	id, err := identityFrom(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.services.Insurance.CreatePolicy(ctx, id.Wallet, &services.PolicyInput{
		Name:             req.Name,
		TriggerCondition: models.TriggerCondition(req.TriggerCondition),
		Threshold:        req.Threshold,
		Premium:          req.Premium,
		Payout:           req.Payout,
		OrderID:          req.OrderID,
		Mint:             req.Mint,
	})
	if err != nil {
		return nil, s.toStatus(ctx, "CreateInsurancePolicy", err)
	}

	return toUserPolicy(p), nil

}

func (s *GRPCServer) ListUserPolicies(ctx context.Context, req *api.ListUserPoliciesRequest) (*api.ListUserPoliciesResponse, error) {

	id, err := identityFrom(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.services.Insurance.ListPolicies(ctx, id.Wallet)
	if err != nil {
		return nil, s.toStatus(ctx, "ListUserPolicies", err)
	}

	custom, issued := toPolicies(p.Custom, p.Issued)
	return &api.ListUserPoliciesResponse{Custom: custom, Issued: issued}, nil

}

// --- matches ---

func (s *GRPCServer) CreateMatch(ctx context.Context, req *api.CreateMatchRequest) (*api.Match, error) {

	id, err := identityFrom(ctx)
	if err != nil {
		return nil, err
	}

	m, err := s.services.Matches.CreateMatch(ctx, id.Wallet, req.CargoOrderID, req.VesselOrderID, req.AgreedPrice)
	if err != nil {
		return nil, s.toStatus(ctx, "CreateMatch", err)
	}

	return toMatch(m), nil

}

func (s *GRPCServer) RespondMatch(ctx context.Context, req *api.RespondMatchRequest) (*api.Match, error) {

	id, err := identityFrom(ctx)
	if err != nil {
		return nil, err
	}

	m, err := s.services.Matches.RespondMatch(ctx, id.Wallet, req.MatchID, req.Accept)
	if err != nil {
		return nil, s.toStatus(ctx, "RespondMatch", err)
	}

	return toMatch(m), nil

}

func (s *GRPCServer) ListMatches(ctx context.Context, req *api.ListMatchesRequest) (*api.ListMatchesResponse, error) {

	id, err := identityFrom(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.services.Matches.ListMatches(ctx, id.Wallet)
	if err != nil {
		return nil, s.toStatus(ctx, "ListMatches", err)
	}

	return &api.ListMatchesResponse{Matches: toMatches(list)}, nil

}

// --- portfolio / risk ---

func (s *GRPCServer) GetPortfolio(ctx context.Context, req *api.GetPortfolioRequest) (*api.Portfolio, error) {

	id, err := identityFrom(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.services.Portfolio.GetPortfolio(ctx, id.Wallet)
	if err != nil {
		return nil, s.toStatus(ctx, "GetPortfolio", err)
	}

	resp := &api.Portfolio{
		Orders:   toOrders(p.Orders),
		Journeys: toJourneys(p.Journeys),
		Matches:  toMatches(p.Matches),
	}
	if p.Policies != nil {
		resp.Custom, resp.Issued = toPolicies(p.Policies.Custom, p.Policies.Issued)
	}
	return resp, nil

}

func (s *GRPCServer) AssessRisk(ctx context.Context, req *api.AssessRiskRequest) (*api.RiskAssessment, error) {

	if _, err := identityFrom(ctx); err != nil {
		return nil, err
	}

	a, err := s.services.Risk.AssessRisk(ctx, req.OrderID, risk.Subject{
		OriginPort:      req.OriginPort,
		DestinationPort: req.DestinationPort,
		DepartureDate:   req.DepartureDate,
		ArrivalDate:     req.ArrivalDate,
		CargoType:       req.CargoType,
		WeightTons:      req.WeightTons,
		VesselName:      req.VesselName,
		Notes:           req.Notes,
	})
	if err != nil {
		return nil, s.toStatus(ctx, "AssessRisk", err)
	}

	return &api.RiskAssessment{
		Score:   a.Score,
		Level:   string(a.Level),
		Factors: a.Factors,
		Summary: a.Summary,
		Source:  a.Source,
	}, nil

}
