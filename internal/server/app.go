// Package server wires the marketplace together: database and migrations,
// the chain signer, object storage, event sink and AI client, then runs the
// gRPC endpoint and the metrics endpoint until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/shipmarket/internal/chain"
	"github.com/dmitrijs2005/shipmarket/internal/logging"
	"github.com/dmitrijs2005/shipmarket/internal/server/config"
	"github.com/dmitrijs2005/shipmarket/internal/server/events"
	"github.com/dmitrijs2005/shipmarket/internal/server/metadata"
	"github.com/dmitrijs2005/shipmarket/internal/server/metrics"
	"github.com/dmitrijs2005/shipmarket/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/shipmarket/internal/server/risk"
	"github.com/dmitrijs2005/shipmarket/internal/server/services"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/shipmarket/internal/server/grpc"
)

// refreshPruneInterval is how often expired refresh tokens are deleted.
const refreshPruneInterval = time.Hour

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	metrics *metrics.Metrics
	events  events.Publisher
	users   *services.UserService
	server  *gs.GRPCServer
	closers []func() error
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSON(os.Stdout, logging.ParseLevel(c.LogLevel))
	app := &App{config: c, logger: logger}

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	app.db = db
	app.closers = append(app.closers, db.Close)

	if err := db.PingContext(ctx); err != nil {
		app.close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		app.close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	minter, err := app.newMinter(ctx)
	if err != nil {
		app.close()
		return nil, err
	}

	store, err := metadata.NewS3Store(ctx, metadata.Settings{
		User:     c.S3RootUser,
		Password: c.S3RootPassword,
		Bucket:   c.S3Bucket,
		Region:   c.S3Region,
		Endpoint: c.S3BaseEndpoint,
	})
	if err != nil {
		app.close()
		return nil, fmt.Errorf("metadata store error: %w", err)
	}

	app.metrics = metrics.New()
	app.events = newEventPublisher(c, logger)
	app.closers = append(app.closers, app.events.Close)

	gen, err := newGenerator(ctx, c)
	if err != nil {
		logger.Warn(ctx, "risk narratives disabled", "error", err)
	}

	mint := services.NewMintWorkflow(db, rm, minter, store, app.events, app.metrics, logger, c.MintTimeout)

	app.users = services.NewUserService(db, rm, c)
	orders := services.NewOrderService(db, rm, mint)
	journeys := services.NewJourneyService(db, rm, mint)
	insurance := services.NewInsuranceService(db, rm, mint)
	matches := services.NewMatchService(db, rm, mint)

	app.server, err = gs.NewGRPCServer(c.EndpointAddrGRPC, logger, gs.Services{
		Users:     app.users,
		Orders:    orders,
		Journeys:  journeys,
		Insurance: insurance,
		Matches:   matches,
		Portfolio: services.NewPortfolioService(orders, journeys, insurance, matches),
		Wallet:    services.NewWalletService(db, rm, c),
		Risk:      services.NewRiskService(db, rm, risk.NewAssessor(gen, logger.With("module", "risk"))),
	}, c.SecretKey, app.metrics)
	if err != nil {
		app.close()
		return nil, err
	}

	return app, nil
}

func (app *App) newMinter(ctx context.Context) (chain.Minter, error) {
	key, err := chain.LoadKey(app.config.Signer())
	if err != nil {
		return nil, fmt.Errorf("signer error: %w", err)
	}
	opts, err := chain.NewTransactor(key, app.config.ChainID)
	if err != nil {
		return nil, fmt.Errorf("transactor error: %w", err)
	}
	client, err := chain.Dial(ctx, app.config.RPCURL, app.config.ChainID)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, func() error { client.Close(); return nil })

	app.logger.Info(ctx, "Signer ready", "address", opts.From.Hex(), "chain_id", app.config.ChainID)
	return chain.NewEthMinter(client, opts), nil
}

// newEventPublisher returns a Kafka producer, or a no-op sink when no
// brokers are configured.
func newEventPublisher(c *config.Config, logger logging.Logger) events.Publisher {
	if len(c.KafkaBrokers) == 0 {
		return events.Nop{}
	}
	return events.NewKafkaProducer(c.KafkaBrokers, c.KafkaTopic, logger)
}

// newGenerator returns nil when no API key is configured.
func newGenerator(ctx context.Context, c *config.Config) (risk.Generator, error) {
	if c.GenAIAPIKey == "" {
		return nil, nil
	}
	g, err := risk.NewGeminiGenerator(ctx, c.GenAIAPIKey, c.GenAIModel)
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) serveMetrics(ctx context.Context) error {
	srv := app.metrics.NewHTTPServer(app.config.MetricsAddr)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	app.logger.Info(ctx, "Starting metrics server", "address", app.config.MetricsAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (app *App) pruneRefreshTokens(ctx context.Context) error {
	ticker := time.NewTicker(refreshPruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n, err := app.users.PruneRefreshTokens(ctx)
			if err != nil {
				app.logger.Warn(ctx, "refresh token pruning failed", "error", err)
				continue
			}
			app.logger.Debug(ctx, "pruned refresh tokens", "count", n)
		}
	}
}

func (app *App) close() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i](); err != nil {
			app.logger.Warn(context.Background(), "close failed", "error", err)
		}
	}
}

// Run blocks until a shutdown signal arrives or one of the endpoints fails.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return app.server.Run(ctx) })
	g.Go(func() error { return app.serveMetrics(ctx) })
	g.Go(func() error { return app.pruneRefreshTokens(ctx) })

	err := g.Wait()
	app.close()
	app.logger.Info(context.Background(), "App stopped")
	return err
}
