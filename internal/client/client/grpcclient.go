package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/shipmarket/internal/api"
	"github.com/dmitrijs2005/shipmarket/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// marketplaceAPI is the slice of api.MarketplaceClient the terminal uses.
type marketplaceAPI interface {
	Ping(ctx context.Context, in *api.PingRequest, opts ...grpc.CallOption) (*api.PingResponse, error)
	RequestChallenge(ctx context.Context, in *api.RequestChallengeRequest, opts ...grpc.CallOption) (*api.RequestChallengeResponse, error)
	Login(ctx context.Context, in *api.LoginRequest, opts ...grpc.CallOption) (*api.TokenPair, error)
	RefreshToken(ctx context.Context, in *api.RefreshTokenRequest, opts ...grpc.CallOption) (*api.TokenPair, error)
	ListMarketplace(ctx context.Context, in *api.ListMarketplaceRequest, opts ...grpc.CallOption) (*api.ListMarketplaceResponse, error)
	GetOrder(ctx context.Context, in *api.GetOrderRequest, opts ...grpc.CallOption) (*api.Order, error)
	ListInsuranceTemplates(ctx context.Context, in *api.ListInsuranceTemplatesRequest, opts ...grpc.CallOption) (*api.ListInsuranceTemplatesResponse, error)
	ListContracts(ctx context.Context, in *api.ListContractsRequest, opts ...grpc.CallOption) (*api.ListContractsResponse, error)
	GetPortfolio(ctx context.Context, in *api.GetPortfolioRequest, opts ...grpc.CallOption) (*api.Portfolio, error)
	UpdateOrderStatus(ctx context.Context, in *api.UpdateOrderStatusRequest, opts ...grpc.CallOption) (*api.UpdateOrderStatusResponse, error)
	ApplyInsuranceTemplate(ctx context.Context, in *api.ApplyInsuranceTemplateRequest, opts ...grpc.CallOption) (*api.InsurancePolicy, error)
	AssessRisk(ctx context.Context, in *api.AssessRiskRequest, opts ...grpc.CallOption) (*api.RiskAssessment, error)
}

type GRPCClient struct {
	endpointURL string
	timeout     time.Duration
	conn        *grpc.ClientConn
	client      marketplaceAPI

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) tokens() (string, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken, s.refreshToken
}

func (s *GRPCClient) setTokens(access, refresh string) {
	s.mu.Lock()
	s.accessToken, s.refreshToken = access, refresh
	s.mu.Unlock()
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	access, refresh := s.tokens()
	err := invoker(withAccessToken(ctx, access), method, req, reply, cc, opts...)

	if err != nil {

		st, ok := status.FromError(err)
		if !ok {
			return err
		}

		if st.Code() != codes.Unauthenticated {
			return err
		}
		if st.Message() != common.ErrTokenExpired.Error() {
			return err
		}

		if refresh == "" {
			return err
		}

		pair, err := s.client.RefreshToken(ctx, &api.RefreshTokenRequest{RefreshToken: refresh})
		if err != nil {
			return err
		}

		s.setTokens(pair.AccessToken, pair.RefreshToken)

		return invoker(withAccessToken(ctx, pair.AccessToken), method, req, reply, cc, opts...)

	}

	return err
}

// NewMarketplaceClient dials endpointURL lazily; timeout bounds each call.
func NewMarketplaceClient(endpointURL string, timeout time.Duration) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, timeout: timeout}
	err := c.InitGRPCClient()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {

	conn, err := grpc.NewClient(s.endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor))
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = api.NewMarketplaceClient(conn)
	return nil
}

func (s *GRPCClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) Ping(ctx context.Context) error {

	resp, err := s.client.Ping(ctx, &api.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}

	if resp.Status != "OK" {
		return ErrUnavailable
	}

	return nil

}

// RequestChallenge returns the message the wallet has to sign.
func (s *GRPCClient) RequestChallenge(ctx context.Context, address string) (string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.RequestChallenge(ctx, &api.RequestChallengeRequest{Address: address})
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.Message, nil
}

func (s *GRPCClient) Login(ctx context.Context, address, signature string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.Login(ctx, &api.LoginRequest{Address: address, Signature: signature})
	if err != nil {
		return s.mapError(err)
	}

	s.setTokens(resp.AccessToken, resp.RefreshToken)
	return nil
}

func (s *GRPCClient) Marketplace(ctx context.Context) (*api.ListMarketplaceResponse, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.ListMarketplace(ctx, &api.ListMarketplaceRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) Order(ctx context.Context, orderID string) (*api.Order, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.GetOrder(ctx, &api.GetOrderRequest{OrderID: orderID})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) Templates(ctx context.Context) ([]*api.InsuranceTemplate, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.ListInsuranceTemplates(ctx, &api.ListInsuranceTemplatesRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Templates, nil
}

func (s *GRPCClient) Contracts(ctx context.Context) ([]*api.Contract, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.ListContracts(ctx, &api.ListContractsRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Contracts, nil
}

func (s *GRPCClient) Portfolio(ctx context.Context) (*api.Portfolio, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.GetPortfolio(ctx, &api.GetPortfolioRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) UpdateOrderStatus(ctx context.Context, orderID, status string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.client.UpdateOrderStatus(ctx, &api.UpdateOrderStatusRequest{OrderID: orderID, Status: status})
	return s.mapError(err)
}

func (s *GRPCClient) ApplyTemplate(ctx context.Context, orderID, templateID string) (*api.InsurancePolicy, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.ApplyInsuranceTemplate(ctx, &api.ApplyInsuranceTemplateRequest{OrderID: orderID, TemplateID: templateID})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) AssessRisk(ctx context.Context, orderID string) (*api.RiskAssessment, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.AssessRisk(ctx, &api.AssessRiskRequest{OrderID: orderID})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.NotFound:
		return ErrNotFound
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
