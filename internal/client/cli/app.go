package cli

import (
	"bufio"
	"context"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/shipmarket/internal/client/client"
	"github.com/dmitrijs2005/shipmarket/internal/client/config"
	"github.com/dmitrijs2005/shipmarket/internal/client/services"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config        *config.Config
	authService   services.AuthService
	marketService services.MarketService
	reader        *bufio.Reader
	out           io.Writer

	mu     sync.RWMutex
	wallet string
	mode   Mode
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	db, err := client.InitDatabase(ctx, c.CachePath)
	if err != nil {
		log.Printf("error initializing cache: %s", err.Error())
		return nil, err
	}

	apiClient, err := client.NewMarketplaceClient(c.ServerEndpointAddr, c.RequestTimeout)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &App{
		config:        c,
		authService:   services.NewAuthService(apiClient),
		marketService: services.NewMarketService(apiClient, db),
		reader:        bufio.NewReader(os.Stdin),
		out:           os.Stdout,
	}, nil
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		log.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) isLoggedIn() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.wallet != ""
}

func (a *App) getStatus() string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	s := ""
	if a.wallet != "" {
		s = shortAddress(a.wallet) + " "
	}
	s += string(a.mode)
	if s != "" {
		s = "(" + s + ")"
	}
	return s
}

// Run starts the connectivity watcher and blocks in the REPL until exit.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.authService.Close(ctx)

	log.Println("Welcome to shipmarket CLI (type 'help' for commands)")

	a.checkOnline(ctx)
	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
}

func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := a.authService.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}
