package chain

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	Backend
	sent    *types.Transaction
	sendErr error
	receipt *types.Receipt
}

func (f *fakeBackend) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	f.sent = tx
	return f.sendErr
}

func (f *fakeBackend) TransactionReceipt(ctx context.Context, h ethcommon.Hash) (*types.Receipt, error) {
	return f.receipt, nil
}

func fixedOpts(t *testing.T) *bind.TransactOpts {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	opts, err := bind.NewKeyedTransactorWithChainID(key, big.NewInt(1337))
	require.NoError(t, err)
	// fixed gas and nonce keep Transact from querying the node
	opts.GasPrice = big.NewInt(1)
	opts.GasLimit = 300000
	opts.Nonce = big.NewInt(0)
	return opts
}

func TestEthMinter_Submit(t *testing.T) {
	fb := &fakeBackend{}
	m := NewEthMinter(fb, fixedOpts(t))
	b, _ := BindingFor(FlowCargo)

	tx, err := m.Submit(context.Background(), Call{Contract: cargoAddr, Binding: b, Args: []any{ownerAddr, "ipfs://x"}})
	require.NoError(t, err)
	require.NotNil(t, fb.sent)
	assert.Equal(t, tx.Hash(), fb.sent.Hash())
	assert.Equal(t, cargoAddr, *tx.To())
	assert.True(t, bytes.HasPrefix(tx.Data(), b.ABI.Methods["mintCargo"].ID))
}

func TestEthMinter_SubmitErrors(t *testing.T) {
	fb := &fakeBackend{sendErr: errors.New("insufficient funds")}
	m := NewEthMinter(fb, fixedOpts(t))
	b, _ := BindingFor(FlowCargo)

	_, err := m.Submit(context.Background(), Call{Contract: cargoAddr, Binding: b, Args: []any{ownerAddr, "u"}})
	assert.ErrorContains(t, err, "insufficient funds")

	_, err = m.Submit(context.Background(), Call{Contract: cargoAddr})
	assert.Error(t, err)
}

func TestEthMinter_WaitReceipt(t *testing.T) {
	want := &types.Receipt{Status: types.ReceiptStatusSuccessful}
	fb := &fakeBackend{receipt: want}
	m := NewEthMinter(fb, fixedOpts(t))

	tx := types.NewTransaction(0, cargoAddr, big.NewInt(0), 21000, big.NewInt(1), nil)
	got, err := m.WaitReceipt(context.Background(), tx)
	require.NoError(t, err)
	assert.Same(t, want, got)
}
