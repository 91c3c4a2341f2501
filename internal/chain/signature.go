package chain

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/dmitrijs2005/shipmarket/internal/common"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// RecoverAddress returns the lower-case address that produced an EIP-191
// personal_sign signature over message.
func RecoverAddress(message string, sigHex string) (string, error) {
	sig, err := hexutil.Decode(sigHex)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrInvalidSignature, err)
	}
	if len(sig) != crypto.SignatureLength {
		return "", fmt.Errorf("%w: length %d", common.ErrInvalidSignature, len(sig))
	}
	// wallets emit v as 27/28
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}

	pub, err := crypto.SigToPub(accounts.TextHash([]byte(message)), sig)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrInvalidSignature, err)
	}
	return common.NormalizeAddress(crypto.PubkeyToAddress(*pub).Hex()), nil
}

// VerifySignature checks that address signed message.
func VerifySignature(address, message, sigHex string) error {
	got, err := RecoverAddress(message, sigHex)
	if err != nil {
		return err
	}
	if got != common.NormalizeAddress(address) {
		return common.ErrInvalidSignature
	}
	return nil
}

// SignMessage produces an EIP-191 personal_sign signature with v as 27/28,
// the form wallets return.
func SignMessage(key *ecdsa.PrivateKey, message string) (string, error) {
	sig, err := crypto.Sign(accounts.TextHash([]byte(message)), key)
	if err != nil {
		return "", err
	}
	sig[crypto.RecoveryIDOffset] += 27
	return hexutil.Encode(sig), nil
}

// AddressOf returns the lower-case wallet address of key.
func AddressOf(key *ecdsa.PrivateKey) string {
	return common.NormalizeAddress(crypto.PubkeyToAddress(key.PublicKey).Hex())
}
