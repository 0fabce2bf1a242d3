// internal/chains/cardano/cardano.go
package cardano

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"math/big"
	"time"

	"wallet-service/internal/domain"

	"go.uber.org/zap"
)

const (
	// minOutputLovelace is the smallest value an output may carry.
	minOutputLovelace = 1_000_000

	// selectionBuffer is added to the target when picking inputs so the
	// final fee and a change output can be paid without reselecting.
	selectionBuffer = 1_000_000

	// ttlWindowSlots is how far past the current slot a transaction
	// remains valid. Slots are one second, so this is two hours.
	ttlWindowSlots = 7200
)

// Config carries the required provider settings.
type Config struct {
	Endpoint string // REST endpoint, required
	APIKey   string // project key, sent as project_id
	Network  string // mainnet or testnet, defaults to mainnet
}

// Provider is the indexer surface the chain depends on. *Client satisfies it.
type Provider interface {
	UTXOs(ctx context.Context, address string) ([]domain.UTXO, error)
	Balance(ctx context.Context, address string) (int64, error)
	ProtocolParams(ctx context.Context) (*FeeParams, error)
	LatestSlot(ctx context.Context) (uint64, error)
	Submit(ctx context.Context, signedTx []byte) (string, error)
}

type Chain struct {
	provider Provider
	network  string
	logger   *zap.Logger
}

func New(cfg Config, logger *zap.Logger) (*Chain, error) {
	if cfg.Endpoint == "" {
		return nil, domain.Validationf("cardano: provider endpoint is required")
	}

	network := cfg.Network
	if network == "" {
		network = "mainnet"
	}
	if network != "mainnet" && network != "testnet" {
		return nil, domain.Validationf("cardano: unknown network %q", cfg.Network)
	}

	logger.Info("cardano chain initialized",
		zap.String("endpoint", cfg.Endpoint),
		zap.String("network", network))

	return &Chain{
		provider: NewClient(cfg.Endpoint, cfg.APIKey, logger),
		network:  network,
		logger:   logger,
	}, nil
}

// Name returns chain name
func (c *Chain) Name() string {
	return "CARDANO"
}

// Symbol returns native coin symbol
func (c *Chain) Symbol() string {
	return "ADA"
}

// Decimals returns the lovelace exponent
func (c *Chain) Decimals() int {
	return 6
}

// GetBalance returns the lovelace balance of address.
func (c *Chain) GetBalance(ctx context.Context, address string) (*domain.Balance, error) {
	if err := c.ValidateAddress(address); err != nil {
		return nil, err
	}

	lovelace, err := c.provider.Balance(ctx, address)
	if err != nil {
		return nil, err
	}

	return domain.NewBalance(address, big.NewInt(lovelace), c.Decimals()), nil
}

// Send builds, signs and submits a payment. The change, when any survives
// the minimum-output rule, returns to the sender.
func (c *Chain) Send(ctx context.Context, req *domain.SendRequest) (*domain.SendResult, error) {
	if !req.SendMax {
		if req.Amount == nil || req.Amount.Sign() <= 0 {
			return nil, domain.Validationf("amount must be positive")
		}
		if !req.Amount.IsInt64() {
			return nil, domain.Validationf("amount %s exceeds the representable lovelace range", req.Amount)
		}
		if req.Amount.Int64() < minOutputLovelace {
			return nil, domain.Validationf("amount %s below the %d lovelace output minimum",
				req.Amount, int64(minOutputLovelace))
		}
	}

	priv, err := parseKey(req.PrivateKey)
	if err != nil {
		return nil, err
	}

	// The payment credential is all the key determines; the declared
	// sender must carry that credential whatever its stake part is.
	fromBytes, err := c.decodeOwnAddress(req.From)
	if err != nil {
		return nil, err
	}
	payHash := credentialHash(priv.Public().(ed25519.PublicKey))
	if !bytes.Equal(fromBytes[1:1+credentialSize], payHash) {
		return nil, domain.Cryptof("%w: key does not control the payment credential of %s",
			domain.ErrSignerMismatch, req.From)
	}

	toBytes, err := c.decodeOwnAddress(req.To)
	if err != nil {
		return nil, err
	}

	params, err := c.provider.ProtocolParams(ctx)
	if err != nil {
		return nil, err
	}
	slot, err := c.provider.LatestSlot(ctx)
	if err != nil {
		return nil, err
	}
	utxos, err := c.provider.UTXOs(ctx, req.From)
	if err != nil {
		return nil, err
	}

	draft, err := buildPayment(paymentPlan{
		priv:      priv,
		from:      fromBytes,
		to:        toBytes,
		amount:    amountOrZero(req),
		sendMax:   req.SendMax,
		utxos:     utxos,
		feeParams: params,
		ttl:       slot + ttlWindowSlots,
	})
	if err != nil {
		return nil, err
	}

	txID, err := c.provider.Submit(ctx, draft.raw)
	if err != nil {
		return nil, err
	}

	c.logger.Info("cardano transaction submitted",
		zap.String("tx_id", txID),
		zap.Int64("lovelace", draft.amount),
		zap.Int64("fee", draft.fee))

	return &domain.SendResult{
		TxID:      txID,
		Amount:    big.NewInt(draft.amount),
		Fee:       big.NewInt(draft.fee),
		Timestamp: time.Now(),
	}, nil
}

func amountOrZero(req *domain.SendRequest) int64 {
	if req.Amount == nil {
		return 0
	}
	return req.Amount.Int64()
}
