package ledger

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"strings"
)

// Account is a key pair able to sign transactions.
type Account struct {
	privateKey ed25519.PrivateKey
}

// NewAccountFromPrivateKey accepts the 64 hex chars private key (the ed25519 seed).
func NewAccountFromPrivateKey(privateKeyHex string) (*Account, error) {
	seed, err := hex.DecodeString(strings.TrimSpace(privateKeyHex))
	if err != nil {
		return nil, fmt.Errorf("decode private key: %w", err)
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("private key must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	return &Account{
		privateKey: ed25519.NewKeyFromSeed(seed),
	}, nil
}

func (a *Account) PublicKey() []byte {
	return a.privateKey.Public().(ed25519.PublicKey)
}

func (a *Account) PublicKeyHex() string {
	return strings.ToUpper(hex.EncodeToString(a.PublicKey()))
}

func (a *Account) Address(network NetworkType) Address {
	return AddressFromPublicKey(network, a.PublicKey())
}
