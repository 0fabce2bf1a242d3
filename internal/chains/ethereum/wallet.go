// internal/chains/ethereum/wallet.go
package ethereum

import (
	"crypto/ecdsa"
	"encoding/hex"
	"strings"
	"time"

	"wallet-service/internal/domain"
	"wallet-service/internal/hdwallet"

	"github.com/ethereum/go-ethereum/crypto"
)

// DeriveWallet derives an account wallet from a mnemonic along the
// standard m/44'/60'/account'/change/index path.
func (c *Chain) DeriveWallet(mnemonic string, path domain.DerivePath) (*domain.Wallet, error) {
	seed, err := hdwallet.SeedFromMnemonic(mnemonic)
	if err != nil {
		return nil, err
	}

	priv, err := hdwallet.DeriveSecp256k1(seed, hdwallet.EthereumPath(path))
	if err != nil {
		return nil, err
	}

	return c.walletFromKey(priv.ToECDSA())
}

// ImportWallet recovers a wallet from a private key. A 0x-prefixed (or
// bare) 64-char hex string is tried first, then the shared key codec.
func (c *Chain) ImportWallet(rawKey string) (*domain.Wallet, error) {
	priv, err := parseKey(rawKey)
	if err != nil {
		return nil, err
	}
	return c.walletFromKey(priv)
}

func (c *Chain) walletFromKey(priv *ecdsa.PrivateKey) (*domain.Wallet, error) {
	keyBytes := crypto.FromECDSA(priv)

	return &domain.Wallet{
		Chain:         c.Name(),
		Address:       addressFromKey(priv),
		PublicKey:     hex.EncodeToString(crypto.FromECDSAPub(&priv.PublicKey)),
		PrivateKey:    "0x" + hex.EncodeToString(keyBytes),
		PrivateKeyRaw: keyBytes,
		CreatedAt:     time.Now(),
	}, nil
}

// addressFromKey returns the checksummed address controlled by priv.
func addressFromKey(priv *ecdsa.PrivateKey) string {
	return crypto.PubkeyToAddress(priv.PublicKey).Hex()
}

// parseKey accepts the same key encodings as ImportWallet.
func parseKey(rawKey string) (*ecdsa.PrivateKey, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(rawKey), "0x")
	if len(trimmed) == 64 {
		if keyBytes, err := hex.DecodeString(trimmed); err == nil {
			priv, err := crypto.ToECDSA(keyBytes)
			if err != nil {
				return nil, domain.Cryptof("invalid secp256k1 key: %v", err)
			}
			return priv, nil
		}
	}

	keyBytes, err := hdwallet.ParsePrivateKey(rawKey)
	if err != nil {
		return nil, err
	}
	if len(keyBytes) != 32 {
		return nil, domain.Cryptof("%w: ethereum keys are 32 bytes, got %d",
			domain.ErrUnsupportedKeyFormat, len(keyBytes))
	}

	priv, err := crypto.ToECDSA(keyBytes)
	if err != nil {
		return nil, domain.Cryptof("invalid secp256k1 key: %v", err)
	}
	return priv, nil
}
