// internal/chains/bitcoin/bitcoin.go
package bitcoin

import (
	"context"
	"math/big"
	"time"

	"wallet-service/internal/coinselect"
	"wallet-service/internal/domain"

	"github.com/btcsuite/btcd/chaincfg"
	"go.uber.org/zap"
)

// Config carries the required provider settings. There are no built-in
// endpoint defaults: the endpoint must be configured explicitly.
type Config struct {
	Endpoint string // esplora-style REST base URL
	APIKey   string
	Network  string // mainnet, testnet, regtest
}

// Provider is the external indexer surface the chain depends on.
type Provider interface {
	UTXOs(ctx context.Context, address string) ([]domain.UTXO, error)
	AddressStats(ctx context.Context, address string) (*AddressStats, error)
	FeeRate(ctx context.Context) (float64, error)
	Broadcast(ctx context.Context, rawTx string) (string, error)
}

type Chain struct {
	provider Provider
	params   *chaincfg.Params
	network  string
	logger   *zap.Logger
}

// New creates a Bitcoin chain instance backed by an esplora-style provider.
func New(cfg Config, logger *zap.Logger) (*Chain, error) {
	params, err := networkParams(cfg.Network)
	if err != nil {
		return nil, err
	}
	if cfg.Endpoint == "" {
		return nil, domain.Validationf("bitcoin: provider endpoint is required")
	}

	if cfg.Network == "mainnet" {
		logger.Warn("bitcoin mainnet active, transactions move real funds")
	}

	logger.Info("bitcoin chain initialized",
		zap.String("network", cfg.Network),
		zap.String("endpoint", cfg.Endpoint))

	return &Chain{
		provider: NewClient(cfg.Endpoint, cfg.APIKey, logger),
		params:   params,
		network:  cfg.Network,
		logger:   logger,
	}, nil
}

// Name returns the chain name
func (c *Chain) Name() string {
	return "BITCOIN"
}

// Symbol returns native coin symbol
func (c *Chain) Symbol() string {
	return "BTC"
}

// Decimals returns the satoshi exponent
func (c *Chain) Decimals() int {
	return 8
}

// GetBalance gets balance for address, split into confirmed and pending.
func (c *Chain) GetBalance(ctx context.Context, address string) (*domain.Balance, error) {
	if err := c.ValidateAddress(address); err != nil {
		return nil, err
	}

	stats, err := c.provider.AddressStats(ctx, address)
	if err != nil {
		return nil, err
	}

	confirmed := big.NewInt(stats.Funded - stats.Spent)
	pending := big.NewInt(stats.MempoolFunded - stats.MempoolSpent)
	total := new(big.Int).Add(confirmed, pending)

	return domain.NewBalance(address, total, c.Decimals()).
		WithPending(confirmed, pending), nil
}

// Send builds, signs and broadcasts a Bitcoin transaction.
func (c *Chain) Send(ctx context.Context, req *domain.SendRequest) (*domain.SendResult, error) {
	if req.SendMax {
		return nil, domain.Validationf("bitcoin: maximum-amount sends are not supported")
	}
	if req.Amount == nil || req.Amount.Sign() <= 0 {
		return nil, domain.Validationf("amount must be positive")
	}
	if !req.Amount.IsInt64() {
		return nil, domain.Validationf("amount %s exceeds the representable satoshi range", req.Amount)
	}

	priv, err := c.parseKey(req.PrivateKey)
	if err != nil {
		return nil, err
	}

	// The sender address is always recomputed from the key; a mismatch with
	// the declared sender aborts before any provider call.
	sender, err := c.addressFromKey(priv)
	if err != nil {
		return nil, err
	}
	if sender != req.From {
		return nil, domain.Cryptof("%w: key derives %s, request declares %s",
			domain.ErrSignerMismatch, sender, req.From)
	}

	if err := c.ValidateAddress(req.To); err != nil {
		return nil, err
	}

	amount := req.Amount.Int64()

	utxos, err := c.provider.UTXOs(ctx, sender)
	if err != nil {
		return nil, err
	}
	if len(utxos) == 0 {
		return nil, domain.Fundsf("%w: no spendable outputs", domain.ErrInsufficientFunds)
	}
	// Settle the hopeless case up front; it also keeps amount+fee sums far
	// from the int64 boundary.
	if total := coinselect.Sum(utxos); amount > total {
		return nil, domain.Fundsf("%w: have %d sats, need %d sats",
			domain.ErrInsufficientFunds, total, amount)
	}

	rate := c.feeRate(ctx, req.FeeRate)

	// Fund with a one-input fee as safety buffer, then recompute the fee for
	// the actual input count and widen the selection once if needed.
	sel := coinselect.Select(utxos, amount+EstimateFee(1, 2, rate))
	fee := EstimateFee(len(sel.Inputs), 2, rate)
	if !sel.Covers(amount + fee) {
		sel = coinselect.Select(utxos, amount+fee)
		fee = EstimateFee(len(sel.Inputs), 2, rate)
	}
	if !sel.Covers(amount + fee) {
		return nil, domain.Fundsf("%w: have %d sats, need %d sats",
			domain.ErrInsufficientFunds, sel.Sum, amount+fee)
	}

	builder, err := NewBuilder(c.params, priv)
	if err != nil {
		return nil, err
	}
	for _, utxo := range sel.Inputs {
		if err := builder.AddInput(utxo); err != nil {
			return nil, err
		}
	}
	if err := builder.AddOutput(req.To, amount); err != nil {
		return nil, err
	}

	change := sel.Sum - amount - fee
	switch {
	case change >= DustLimit:
		if err := builder.AddOutput(sender, change); err != nil {
			return nil, err
		}
	case change > 0:
		// Sub-dust change is folded into the fee.
		fee += change
	}

	if err := builder.Sign(); err != nil {
		return nil, err
	}
	rawTx, err := builder.Serialize()
	if err != nil {
		return nil, err
	}

	c.logger.Info("bitcoin transaction built",
		zap.String("tx_hash", builder.TxHash()),
		zap.Int("inputs", len(sel.Inputs)),
		zap.Int64("amount", amount),
		zap.Int64("fee", fee))

	// One attempt only: an ambiguous broadcast outcome must not lead to a
	// rebuilt and resubmitted draft.
	txID, err := c.provider.Broadcast(ctx, rawTx)
	if err != nil {
		return nil, err
	}

	return &domain.SendResult{
		TxID:      txID,
		Amount:    big.NewInt(amount),
		Fee:       big.NewInt(fee),
		Timestamp: time.Now(),
	}, nil
}

// feeRate resolves the sat/vB rate: explicit request rate first, then the
// provider, then the fixed fallback.
func (c *Chain) feeRate(ctx context.Context, explicit int64) float64 {
	if explicit > 0 {
		return float64(explicit)
	}

	rate, err := c.provider.FeeRate(ctx)
	if err != nil {
		c.logger.Warn("fee rate lookup failed, using fallback",
			zap.Float64("fallback", DefaultFeeRate), zap.Error(err))
		return DefaultFeeRate
	}
	return rate
}
