package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/shipmarket/internal/api"
	"github.com/dmitrijs2005/shipmarket/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// RPCRecorder counts finished calls by method and status code.
type RPCRecorder interface {
	RPC(method, code string)
}

type nopRecorder struct{}

func (nopRecorder) RPC(string, string) {}

// Services bundles the business services the handlers delegate to.
type Services struct {
	Users     UserService
	Orders    OrderService
	Journeys  JourneyService
	Insurance InsuranceService
	Matches   MatchService
	Portfolio PortfolioService
	Wallet    WalletService
	Risk      RiskService
}

type GRPCServer struct {
	address   string
	services  Services
	logger    logging.Logger
	recorder  RPCRecorder
	jwtSecret []byte
	health    *health.Server
}

var _ api.MarketplaceServer = (*GRPCServer)(nil)

func NewGRPCServer(a string, l logging.Logger, svc Services, secretKey string, rec RPCRecorder) (*GRPCServer, error) {
	if rec == nil {
		rec = nopRecorder{}
	}
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		services:  svc,
		recorder:  rec,
		jwtSecret: []byte(secretKey),
		health:    health.NewServer(),
	}, nil
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.metricsInterceptor, s.accessTokenInterceptor))
	api.RegisterMarketplaceServer(srv, s)
	healthpb.RegisterHealthServer(srv, s.health)
	s.health.SetServingStatus(api.ServiceName, healthpb.HealthCheckResponse_SERVING)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on listen until ctx is cancelled.
func (s *GRPCServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
