package chain

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Backend is the RPC surface needed to transact against a contract and
// poll for its receipt. *ethclient.Client satisfies it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// Call is a single state-changing contract invocation.
type Call struct {
	Contract ethcommon.Address
	Binding  *Binding
	Args     []any
}

// Minter submits mint calls and waits for their inclusion.
type Minter interface {
	// From is the address transactions are signed with.
	From() ethcommon.Address
	Submit(ctx context.Context, call Call) (*types.Transaction, error)
	WaitReceipt(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
}

// EthMinter is a Minter backed by an Ethereum JSON-RPC endpoint.
type EthMinter struct {
	backend Backend
	opts    *bind.TransactOpts
}

func NewEthMinter(backend Backend, opts *bind.TransactOpts) *EthMinter {
	return &EthMinter{backend: backend, opts: opts}
}

func (m *EthMinter) From() ethcommon.Address {
	return m.opts.From
}

func (m *EthMinter) Submit(ctx context.Context, call Call) (*types.Transaction, error) {
	if call.Binding == nil {
		return nil, fmt.Errorf("missing contract binding")
	}
	bc := bind.NewBoundContract(call.Contract, call.Binding.ABI, m.backend, m.backend, m.backend)

	opts := *m.opts
	opts.Context = ctx

	tx, err := bc.Transact(&opts, call.Binding.Method, call.Args...)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// WaitReceipt blocks until tx is mined or ctx is done. A reverted receipt is
// returned as is; callers inspect Status.
func (m *EthMinter) WaitReceipt(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	return bind.WaitMined(ctx, m.backend, tx)
}
