// internal/domain/chain.go
package domain

import (
	"context"
	"math/big"
	"time"
)

// Chain represents a blockchain network
type Chain interface {
	// Name returns the chain name (BITCOIN, ETHEREUM, SOLANA, CARDANO)
	Name() string

	// Symbol returns native coin symbol (BTC, ETH, SOL, ADA)
	Symbol() string

	// Decimals returns the base-unit exponent of the native asset
	Decimals() int

	// DeriveWallet derives a wallet from a mnemonic. Deterministic: the
	// same mnemonic and path always produce the same keys and address.
	DeriveWallet(mnemonic string, path DerivePath) (*Wallet, error)

	// ImportWallet imports a wallet from an externally supplied private key
	ImportWallet(rawKey string) (*Wallet, error)

	// ValidateAddress validates address format
	ValidateAddress(address string) error

	// GetBalance gets balance for address
	GetBalance(ctx context.Context, address string) (*Balance, error)

	// Send builds, signs and broadcasts a transaction
	Send(ctx context.Context, req *SendRequest) (*SendResult, error)
}

// DerivePath carries the account/change/index parameters of an HD path.
// The purpose and coin-type segments are fixed per chain.
type DerivePath struct {
	Account uint32
	Change  uint32
	Index   uint32
}

// Wallet holds the key material produced by derivation or import.
// It is request-scoped: never cached, never persisted.
type Wallet struct {
	Chain         string
	Address       string
	StakeAddress  string // CARDANO reward account, empty elsewhere
	PublicKey     string
	PrivateKey    string // human-transcribable encoding (WIF, hex, base58)
	PrivateKeyRaw []byte
	CreatedAt     time.Time
}

// UTXO is an unspent output. Immutable once fetched; a builder consumes
// each outpoint at most once per draft.
type UTXO struct {
	TxID  string
	Vout  uint32
	Value int64 // base units
}

// SendRequest represents a send operation
type SendRequest struct {
	From       string
	To         string
	Amount     *big.Int
	SendMax    bool // send the entire spendable balance minus fee
	PrivateKey string
	FeeRate    int64 // optional explicit fee rate, 0 means "ask the provider"
}

// SendResult represents the outcome of a broadcast send
type SendResult struct {
	TxID      string
	Amount    *big.Int
	Fee       *big.Int
	Timestamp time.Time
}
