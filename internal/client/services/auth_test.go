package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/shipmarket/internal/chain"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

func TestLogin_SignsChallengeForWallet(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	fc := &fakeClient{Challenge: "Sign in to shipmarket: n1"}
	svc := NewAuthService(fc)

	wallet, err := svc.Login(context.Background(), key)
	require.NoError(t, err)
	require.Equal(t, chain.AddressOf(key), wallet)
	require.Equal(t, wallet, fc.LastChallengeAddr)
	require.Equal(t, wallet, fc.LastLoginAddr)
	require.NoError(t, chain.VerifySignature(wallet, fc.Challenge, fc.LastLoginSig))
}

func TestLogin_ChallengeError(t *testing.T) {
	key, _ := crypto.GenerateKey()
	boom := errors.New("down")
	fc := &fakeClient{ChallengeErr: boom}

	_, err := NewAuthService(fc).Login(context.Background(), key)
	require.ErrorIs(t, err, boom)
	require.Empty(t, fc.LastLoginSig)
}

func TestLogin_Rejected(t *testing.T) {
	key, _ := crypto.GenerateKey()
	boom := errors.New("unauthorized")
	fc := &fakeClient{Challenge: "m", LoginErr: boom}

	_, err := NewAuthService(fc).Login(context.Background(), key)
	require.ErrorIs(t, err, boom)
	require.ErrorContains(t, err, "login error")
}

func TestPingAndClose(t *testing.T) {
	fc := &fakeClient{PingErr: errors.New("x")}
	svc := NewAuthService(fc)

	require.Error(t, svc.Ping(context.Background()))
	require.NoError(t, svc.Close(context.Background()))
	require.True(t, fc.closed)
}
