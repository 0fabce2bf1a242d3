// internal/chains/solana/wallet.go
package solana

import (
	"crypto/ed25519"
	"encoding/hex"
	"time"

	"wallet-service/internal/domain"
	"wallet-service/internal/hdwallet"

	"github.com/gagliardetto/solana-go"
)

// DeriveWallet derives a wallet from a mnemonic along the fully hardened
// m/44'/501'/account'/change' path.
func (c *Chain) DeriveWallet(mnemonic string, path domain.DerivePath) (*domain.Wallet, error) {
	seed, err := hdwallet.SeedFromMnemonic(mnemonic)
	if err != nil {
		return nil, err
	}

	keySeed, err := hdwallet.DeriveEd25519(seed, hdwallet.SolanaPath(path))
	if err != nil {
		return nil, err
	}

	return c.walletFromKey(solana.PrivateKey(ed25519.NewKeyFromSeed(keySeed))), nil
}

// ImportWallet recovers a wallet from a private key through the shared key
// codec: a 64-byte key is used whole, a 32-byte key is treated as a seed.
func (c *Chain) ImportWallet(rawKey string) (*domain.Wallet, error) {
	priv, err := parseKey(rawKey)
	if err != nil {
		return nil, err
	}
	return c.walletFromKey(priv), nil
}

func (c *Chain) walletFromKey(priv solana.PrivateKey) *domain.Wallet {
	return &domain.Wallet{
		Chain:         c.Name(),
		Address:       priv.PublicKey().String(),
		PublicKey:     hex.EncodeToString(priv.PublicKey().Bytes()),
		PrivateKey:    priv.String(),
		PrivateKeyRaw: []byte(priv),
		CreatedAt:     time.Now(),
	}
}

func parseKey(rawKey string) (solana.PrivateKey, error) {
	keyBytes, err := hdwallet.ParsePrivateKey(rawKey)
	if err != nil {
		return nil, err
	}

	switch len(keyBytes) {
	case ed25519.PrivateKeySize:
		return solana.PrivateKey(keyBytes), nil
	case ed25519.SeedSize:
		return solana.PrivateKey(ed25519.NewKeyFromSeed(keyBytes)), nil
	default:
		return nil, domain.Cryptof("%w: solana keys are 32 or 64 bytes, got %d",
			domain.ErrUnsupportedKeyFormat, len(keyBytes))
	}
}
