// internal/chains/bitcoin/wallet.go
package bitcoin

import (
	"encoding/hex"
	"time"

	"wallet-service/internal/domain"
	"wallet-service/internal/hdwallet"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
)

// DeriveWallet derives a native-segwit wallet from a mnemonic along
// m/84'/0'/account'/change/index.
func (c *Chain) DeriveWallet(mnemonic string, path domain.DerivePath) (*domain.Wallet, error) {
	seed, err := hdwallet.SeedFromMnemonic(mnemonic)
	if err != nil {
		return nil, err
	}

	priv, err := hdwallet.DeriveSecp256k1(seed, hdwallet.BitcoinPath(path))
	if err != nil {
		return nil, err
	}

	return c.walletFromKey(priv)
}

// ImportWallet accepts a WIF key or any encoding the shared key codec
// understands.
func (c *Chain) ImportWallet(rawKey string) (*domain.Wallet, error) {
	if wif, err := btcutil.DecodeWIF(rawKey); err == nil {
		return c.walletFromKey(wif.PrivKey)
	}

	keyBytes, err := hdwallet.ParsePrivateKey(rawKey)
	if err != nil {
		return nil, err
	}
	if len(keyBytes) != 32 {
		return nil, domain.Cryptof("%w: need a 32-byte secp256k1 key, got %d bytes",
			domain.ErrUnsupportedKeyFormat, len(keyBytes))
	}

	priv, _ := btcec.PrivKeyFromBytes(keyBytes)
	return c.walletFromKey(priv)
}

// ValidateAddress validates a Bitcoin address for the configured network.
func (c *Chain) ValidateAddress(address string) error {
	addr, err := btcutil.DecodeAddress(address, c.params)
	if err != nil {
		return domain.Validationf("invalid bitcoin address %q: %v", address, err)
	}
	if !addr.IsForNet(c.params) {
		return domain.Validationf("address %q is not valid for network %s", address, c.network)
	}
	return nil
}

func (c *Chain) walletFromKey(priv *btcec.PrivateKey) (*domain.Wallet, error) {
	address, err := c.addressFromKey(priv)
	if err != nil {
		return nil, err
	}

	wif, err := btcutil.NewWIF(priv, c.params, true)
	if err != nil {
		return nil, domain.Cryptof("encode WIF: %v", err)
	}

	return &domain.Wallet{
		Chain:         c.Name(),
		Address:       address,
		PublicKey:     hex.EncodeToString(priv.PubKey().SerializeCompressed()),
		PrivateKey:    wif.String(),
		PrivateKeyRaw: priv.Serialize(),
		CreatedAt:     time.Now(),
	}, nil
}

// addressFromKey computes the P2WPKH witness-program address of the key.
func (c *Chain) addressFromKey(priv *btcec.PrivateKey) (string, error) {
	pubKeyHash := btcutil.Hash160(priv.PubKey().SerializeCompressed())
	addr, err := btcutil.NewAddressWitnessPubKeyHash(pubKeyHash, c.params)
	if err != nil {
		return "", domain.Cryptof("encode witness address: %v", err)
	}
	return addr.EncodeAddress(), nil
}

// parseKey decodes the request's key material into a secp256k1 private key.
func (c *Chain) parseKey(rawKey string) (*btcec.PrivateKey, error) {
	if wif, err := btcutil.DecodeWIF(rawKey); err == nil {
		return wif.PrivKey, nil
	}

	keyBytes, err := hdwallet.ParsePrivateKey(rawKey)
	if err != nil {
		return nil, err
	}
	if len(keyBytes) != 32 {
		return nil, domain.Cryptof("%w: need a 32-byte secp256k1 key, got %d bytes",
			domain.ErrUnsupportedKeyFormat, len(keyBytes))
	}

	priv, _ := btcec.PrivKeyFromBytes(keyBytes)
	return priv, nil
}

// networkParams returns chaincfg params for network
func networkParams(network string) (*chaincfg.Params, error) {
	switch network {
	case "mainnet":
		return &chaincfg.MainNetParams, nil
	case "testnet":
		return &chaincfg.TestNet3Params, nil
	case "regtest":
		return &chaincfg.RegressionNetParams, nil
	default:
		return nil, domain.Validationf("unsupported bitcoin network: %s", network)
	}
}
