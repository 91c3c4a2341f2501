package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/shipmarket/internal/server/config"
	"github.com/dmitrijs2005/shipmarket/internal/server/models"
	"github.com/dmitrijs2005/shipmarket/internal/server/repositories/repomanager"
)

// WalletConfig is what a wallet needs to reach the marketplace contracts.
// It never carries secrets.
type WalletConfig struct {
	ChainID   int64
	Network   string
	RPCURL    string
	Contracts map[string]string
}

type WalletService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	chainID     int64
	network     string
	rpcURL      string
}

func NewWalletService(db *sql.DB, rm repomanager.RepositoryManager, cfg *config.Config) *WalletService {
	return &WalletService{
		db:          db,
		repomanager: rm,
		chainID:     cfg.ChainID,
		network:     cfg.Network,
		rpcURL:      cfg.RPCURL,
	}
}

func (s *WalletService) ListContracts(ctx context.Context) ([]*models.SmartContract, error) {
	return s.repomanager.Contracts(s.db).List(ctx)
}

// GetWalletConfig lists the contracts deployed on the configured chain.
func (s *WalletService) GetWalletConfig(ctx context.Context) (*WalletConfig, error) {
	list, err := s.ListContracts(ctx)
	if err != nil {
		return nil, err
	}
	wc := &WalletConfig{
		ChainID:   s.chainID,
		Network:   s.network,
		RPCURL:    s.rpcURL,
		Contracts: make(map[string]string, len(list)),
	}
	for _, c := range list {
		if c.ChainID == s.chainID {
			wc.Contracts[c.Name] = c.Address
		}
	}
	return wc, nil
}
