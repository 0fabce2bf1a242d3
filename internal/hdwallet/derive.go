// internal/hdwallet/derive.go
package hdwallet

import (
	"wallet-service/internal/domain"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
)

// Hardened marks an HD path segment as hardened.
const Hardened = hdkeychain.HardenedKeyStart

// Purpose and coin-type constants for the supported chains.
const (
	PurposeBIP44   = 44
	PurposeBIP84   = 84 // native segwit
	PurposeShelley = 1852

	CoinBitcoin  = 0
	CoinEthereum = 60
	CoinSolana   = 501
	CoinCardano  = 1815
)

// DeriveSecp256k1 walks an HD path from a BIP-39 seed and returns the
// secp256k1 private key at the leaf. Pure: identical (seed, path) inputs
// produce bit-identical keys.
func DeriveSecp256k1(seed []byte, path []uint32) (*btcec.PrivateKey, error) {
	// Network params only select serialization version bytes here; the key
	// material is network-independent.
	key, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, domain.Cryptof("derive master key: %v", err)
	}

	for _, segment := range path {
		key, err = key.Derive(segment)
		if err != nil {
			return nil, domain.Cryptof("derive path segment %d: %v", segment, err)
		}
	}

	priv, err := key.ECPrivKey()
	if err != nil {
		return nil, domain.Cryptof("extract private key: %v", err)
	}
	return priv, nil
}

// BitcoinPath returns the BIP-84 path m/84'/0'/account'/change/index.
func BitcoinPath(p domain.DerivePath) []uint32 {
	return []uint32{
		Hardened + PurposeBIP84,
		Hardened + CoinBitcoin,
		Hardened + p.Account,
		p.Change,
		p.Index,
	}
}

// EthereumPath returns the BIP-44 path m/44'/60'/account'/change/index.
// The same derivation serves every EVM network; network identity lives only
// in the RPC endpoint.
func EthereumPath(p domain.DerivePath) []uint32 {
	return []uint32{
		Hardened + PurposeBIP44,
		Hardened + CoinEthereum,
		Hardened + p.Account,
		p.Change,
		p.Index,
	}
}

// SolanaPath returns the all-hardened path m/44'/501'/account'/change'.
func SolanaPath(p domain.DerivePath) []uint32 {
	return []uint32{
		Hardened + PurposeBIP44,
		Hardened + CoinSolana,
		Hardened + p.Account,
		Hardened + p.Change,
	}
}

// CardanoPaymentPath returns m/1852'/1815'/account'/0'/index'.
func CardanoPaymentPath(p domain.DerivePath) []uint32 {
	return []uint32{
		Hardened + PurposeShelley,
		Hardened + CoinCardano,
		Hardened + p.Account,
		Hardened + 0,
		Hardened + p.Index,
	}
}

// CardanoStakePath returns m/1852'/1815'/account'/2'/0', the stake
// credential companion to the payment path.
func CardanoStakePath(p domain.DerivePath) []uint32 {
	return []uint32{
		Hardened + PurposeShelley,
		Hardened + CoinCardano,
		Hardened + p.Account,
		Hardened + 2,
		Hardened + 0,
	}
}
