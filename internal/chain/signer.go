package chain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"golang.org/x/term"
)

// SignerConfig selects where the transaction key comes from. PrivateKey
// wins over Keystore when both are set.
type SignerConfig struct {
	PrivateKey string
	Keystore   string
	Passphrase string
}

var errNoSigner = errors.New("no signer configured: set a private key or a keystore file")

// seams for tests
var (
	readFile     = os.ReadFile
	isTerminal   = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
	readPassword = func() ([]byte, error) { return term.ReadPassword(int(os.Stdin.Fd())) }
)

// LoadKey resolves the signer's private key, prompting for the keystore
// passphrase on an interactive terminal when none is configured.
func LoadKey(cfg SignerConfig) (*ecdsa.PrivateKey, error) {
	if cfg.PrivateKey != "" {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
		if err != nil {
			return nil, fmt.Errorf("parse private key: %w", err)
		}
		return key, nil
	}
	if cfg.Keystore == "" {
		return nil, errNoSigner
	}

	data, err := readFile(cfg.Keystore)
	if err != nil {
		return nil, fmt.Errorf("read keystore: %w", err)
	}

	pass := cfg.Passphrase
	if pass == "" && isTerminal() {
		fmt.Fprint(os.Stderr, "Keystore passphrase: ")
		b, err := readPassword()
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return nil, fmt.Errorf("read passphrase: %w", err)
		}
		pass = string(b)
	}

	k, err := keystore.DecryptKey(data, pass)
	if err != nil {
		return nil, fmt.Errorf("decrypt keystore: %w", err)
	}
	return k.PrivateKey, nil
}

// NewTransactor builds signing options bound to chainID.
func NewTransactor(key *ecdsa.PrivateKey, chainID int64) (*bind.TransactOpts, error) {
	return bind.NewKeyedTransactorWithChainID(key, big.NewInt(chainID))
}

// Dial connects to the RPC endpoint and checks that it serves chainID.
func Dial(ctx context.Context, rpcURL string, chainID int64) (*ethclient.Client, error) {
	c, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial rpc: %w", err)
	}
	got, err := c.ChainID(ctx)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("chain id: %w", err)
	}
	if got.Int64() != chainID {
		c.Close()
		return nil, fmt.Errorf("rpc serves chain %s, expected %d", got, chainID)
	}
	return c, nil
}
