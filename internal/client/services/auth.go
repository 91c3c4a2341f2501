// Package services contains application services for the shipmarket
// terminal client. This file covers the wallet login handshake and liveness.
package services

import (
	"context"
	"crypto/ecdsa"
	"fmt"

	"github.com/dmitrijs2005/shipmarket/internal/chain"
	"github.com/dmitrijs2005/shipmarket/internal/client/client"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: sign the server challenge with the wallet key and store tokens.
//   - Ping: check server liveness.
//   - Close: release underlying client resources.
type AuthService interface {
	Login(ctx context.Context, key *ecdsa.PrivateKey) (string, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type authService struct {
	client client.Client
}

func NewAuthService(client client.Client) AuthService {
	return &authService{client: client}
}

// Login requests a challenge for the key's wallet, signs it EIP-191 style
// and exchanges the signature for a token pair. It returns the wallet address.
func (a *authService) Login(ctx context.Context, key *ecdsa.PrivateKey) (string, error) {
	wallet := chain.AddressOf(key)

	message, err := a.client.RequestChallenge(ctx, wallet)
	if err != nil {
		return "", fmt.Errorf("challenge error: %w", err)
	}

	sig, err := chain.SignMessage(key, message)
	if err != nil {
		return "", fmt.Errorf("sign error: %w", err)
	}

	if err := a.client.Login(ctx, wallet, sig); err != nil {
		return "", fmt.Errorf("login error: %w", err)
	}
	return wallet, nil
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

// Close releases resources held by the underlying client.
func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}
