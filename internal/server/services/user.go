// Package services contains server-side business logic. This file implements
// UserService, which handles wallet challenge login and issuing/refreshing
// JWTs plus server-stored refresh tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/shipmarket/internal/chain"
	"github.com/dmitrijs2005/shipmarket/internal/common"
	"github.com/dmitrijs2005/shipmarket/internal/dbx"
	"github.com/dmitrijs2005/shipmarket/internal/server/auth"
	"github.com/dmitrijs2005/shipmarket/internal/server/config"
	"github.com/dmitrijs2005/shipmarket/internal/server/models"
	"github.com/dmitrijs2005/shipmarket/internal/server/repositories/repomanager"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Challenge is the message a wallet must personal_sign to log in.
type Challenge struct {
	Address string
	Message string
}

// UserService provides authentication-related operations:
// - RequestChallenge: create the profile on first contact and hand out a nonce
// - Login: verify the wallet signature and mint tokens
// - RefreshToken: rotate refresh tokens and mint new access tokens
type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// ChallengeMessage is the exact text signed by the wallet.
func ChallengeMessage(address, nonce string) string {
	return fmt.Sprintf("Sign in to shipmarket\n\nWallet: %s\nNonce: %s", common.NormalizeAddress(address), nonce)
}

// RequestChallenge returns the sign-in message for address. A profile is
// created on first contact with the given display name and role.
func (s *UserService) RequestChallenge(ctx context.Context, address, displayName string, role models.Role) (*Challenge, error) {
	if !ethcommon.IsHexAddress(address) {
		return nil, validationErr("address", "must be a wallet address")
	}
	address = common.NormalizeAddress(address)

	repo := s.repomanager.Profiles(s.db)
	profile, err := repo.GetByWallet(ctx, address)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error searching profile: %w", err)
	}

	nonce, err := s.generateNonce()
	if err != nil {
		return nil, common.ErrorInternal
	}

	if profile == nil {
		if role == "" {
			role = models.RoleShipper
		}
		if !role.Valid() {
			return nil, validationErr("role", "must be shipper, carrier or insurer")
		}
		profile = &models.Profile{
			ID:            uuid.NewString(),
			WalletAddress: address,
			DisplayName:   strings.TrimSpace(displayName),
			Role:          role,
			Nonce:         nonce,
		}
		if err := repo.Create(ctx, profile); err != nil {
			return nil, fmt.Errorf("error creating profile: %w", err)
		}
	} else if err := repo.SetNonce(ctx, profile.ID, nonce); err != nil {
		return nil, fmt.Errorf("error storing nonce: %w", err)
	}

	return &Challenge{Address: address, Message: ChallengeMessage(address, nonce)}, nil
}

// Login verifies signature over the pending challenge. The nonce is rotated
// after every attempt so a signature can be used at most once.
func (s *UserService) Login(ctx context.Context, address, signature string) (*TokenPair, error) {
	repo := s.repomanager.Profiles(s.db)
	profile, err := repo.GetByWallet(ctx, address)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	message := ChallengeMessage(profile.WalletAddress, profile.Nonce)

	next, err := s.generateNonce()
	if err != nil {
		return nil, common.ErrorInternal
	}
	if err := repo.SetNonce(ctx, profile.ID, next); err != nil {
		return nil, common.ErrorInternal
	}

	if err := chain.VerifySignature(profile.WalletAddress, message, signature); err != nil {
		return nil, common.ErrorUnauthorized
	}

	return s.generateTokenPair(ctx, profile, s.db)
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh TokenPair. Expired tokens yield ErrRefreshTokenExpired.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	repo := s.repomanager.RefreshTokens(s.db)

	token, err := repo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expires.Before(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	profile, err := s.repomanager.Profiles(s.db).GetByID(ctx, token.ProfileID)
	if err != nil {
		return nil, fmt.Errorf("error loading profile: %w", err)
	}

	var pair *TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := s.repomanager.RefreshTokens(tx)
		if err := repoTx.Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, profile, tx)
		return genErr
	}); err != nil {
		return nil, err
	}
	return pair, nil
}

// Profile returns the profile behind an access token identity.
func (s *UserService) Profile(ctx context.Context, profileID string) (*models.Profile, error) {
	return s.repomanager.Profiles(s.db).GetByID(ctx, profileID)
}

// PruneRefreshTokens drops expired refresh tokens.
func (s *UserService) PruneRefreshTokens(ctx context.Context) (int64, error) {
	return s.repomanager.RefreshTokens(s.db).DeleteExpired(ctx, time.Now())
}

// --- helpers below ---

func (s *UserService) generateNonce() (string, error) {
	return common.MakeRandHexString(16)
}

func (s *UserService) generateAccessToken(p *models.Profile) (string, error) {
	return auth.GenerateToken(auth.Identity{ProfileID: p.ID, Wallet: p.WalletAddress}, s.jwtSecret, s.accessTokenValidityDuration)
}

func (s *UserService) generateRefreshToken() (string, error) {
	return common.MakeRandHexString(32)
}

func (s *UserService) generateTokenPair(ctx context.Context, p *models.Profile, tx dbx.DBTX) (*TokenPair, error) {
	access, err := s.generateAccessToken(p)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := s.generateRefreshToken()
	if err != nil {
		return nil, common.ErrorInternal
	}
	refreshRepo := s.repomanager.RefreshTokens(tx)
	if err := refreshRepo.Create(ctx, p.ID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
