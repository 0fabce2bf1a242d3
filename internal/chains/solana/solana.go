// internal/chains/solana/solana.go
package solana

import (
	"context"
	"math/big"
	"time"

	"wallet-service/internal/domain"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
)

// transferFee is the flat network fee for a single-signature transfer,
// in lamports.
const transferFee = 5000

// confirmPollInterval is how often a submitted signature is re-checked.
var confirmPollInterval = 2 * time.Second

// Config carries the required provider settings.
type Config struct {
	Endpoint string // JSON-RPC endpoint, required
}

// Client is the RPC surface the chain depends on; *rpc.Client satisfies it.
type Client interface {
	GetBalance(ctx context.Context, account solana.PublicKey, commitment rpc.CommitmentType) (*rpc.GetBalanceResult, error)
	GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error)
	SendTransactionWithOpts(ctx context.Context, tx *solana.Transaction, opts rpc.TransactionOpts) (solana.Signature, error)
	GetSignatureStatuses(ctx context.Context, searchTransactionHistory bool, sigs ...solana.Signature) (*rpc.GetSignatureStatusesResult, error)
}

type Chain struct {
	client Client
	logger *zap.Logger
}

func New(cfg Config, logger *zap.Logger) (*Chain, error) {
	if cfg.Endpoint == "" {
		return nil, domain.Validationf("solana: provider endpoint is required")
	}

	logger.Info("solana chain initialized", zap.String("endpoint", cfg.Endpoint))

	return &Chain{
		client: rpc.New(cfg.Endpoint),
		logger: logger,
	}, nil
}

// Name returns chain name
func (c *Chain) Name() string {
	return "SOLANA"
}

// Symbol returns native coin symbol
func (c *Chain) Symbol() string {
	return "SOL"
}

// Decimals returns the lamport exponent
func (c *Chain) Decimals() int {
	return 9
}

// ValidateAddress checks that address is a base58 32-byte public key.
func (c *Chain) ValidateAddress(address string) error {
	if _, err := solana.PublicKeyFromBase58(address); err != nil {
		return domain.Validationf("invalid solana address %q: %v", address, err)
	}
	return nil
}

// GetBalance returns the finalized lamport balance of address.
func (c *Chain) GetBalance(ctx context.Context, address string) (*domain.Balance, error) {
	pubkey, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return nil, domain.Validationf("invalid solana address %q: %v", address, err)
	}

	res, err := c.client.GetBalance(ctx, pubkey, rpc.CommitmentFinalized)
	if err != nil {
		return nil, domain.Providerf("fetch balance: %v", err)
	}

	return domain.NewBalance(address, new(big.Int).SetUint64(res.Value), c.Decimals()), nil
}

// Send transfers lamports and blocks until the signature reaches confirmed
// commitment or ctx expires.
func (c *Chain) Send(ctx context.Context, req *domain.SendRequest) (*domain.SendResult, error) {
	if !req.SendMax {
		if req.Amount == nil || req.Amount.Sign() <= 0 {
			return nil, domain.Validationf("amount must be positive")
		}
		if !req.Amount.IsUint64() {
			return nil, domain.Validationf("amount %s exceeds the representable lamport range", req.Amount)
		}
	}

	priv, err := parseKey(req.PrivateKey)
	if err != nil {
		return nil, err
	}

	sender := priv.PublicKey()
	if sender.String() != req.From {
		return nil, domain.Cryptof("%w: key derives %s, request declares %s",
			domain.ErrSignerMismatch, sender, req.From)
	}

	dest, err := solana.PublicKeyFromBase58(req.To)
	if err != nil {
		return nil, domain.Validationf("invalid solana address %q: %v", req.To, err)
	}

	balRes, err := c.client.GetBalance(ctx, sender, rpc.CommitmentFinalized)
	if err != nil {
		return nil, domain.Providerf("fetch balance: %v", err)
	}
	balance := balRes.Value

	var lamports uint64
	if req.SendMax {
		if balance <= transferFee {
			return nil, domain.Fundsf("%w: balance %d cannot cover fee %d",
				domain.ErrInsufficientFunds, balance, transferFee)
		}
		lamports = balance - transferFee
	} else {
		lamports = req.Amount.Uint64()
		// Phrased as subtractions so the comparison cannot wrap.
		if balance < lamports || balance-lamports < transferFee {
			return nil, domain.Fundsf("%w: balance %d cannot cover amount %d plus fee %d",
				domain.ErrInsufficientFunds, balance, lamports, int64(transferFee))
		}
	}

	blockhash, err := c.client.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return nil, domain.Providerf("fetch blockhash: %v", err)
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{
			system.NewTransferInstruction(lamports, sender, dest).Build(),
		},
		blockhash.Value.Blockhash,
		solana.TransactionPayer(sender),
	)
	if err != nil {
		return nil, domain.Cryptof("build transaction: %v", err)
	}

	if _, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(sender) {
			return &priv
		}
		return nil
	}); err != nil {
		return nil, domain.Cryptof("sign transaction: %v", err)
	}

	sig, err := c.client.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		PreflightCommitment: rpc.CommitmentProcessed,
	})
	if err != nil {
		return nil, domain.Broadcastf("transaction rejected: %v", err)
	}

	if err := c.awaitConfirmation(ctx, sig); err != nil {
		return nil, err
	}

	c.logger.Info("solana transaction confirmed",
		zap.String("signature", sig.String()),
		zap.Uint64("lamports", lamports))

	return &domain.SendResult{
		TxID:      sig.String(),
		Amount:    new(big.Int).SetUint64(lamports),
		Fee:       big.NewInt(transferFee),
		Timestamp: time.Now(),
	}, nil
}

// awaitConfirmation polls the signature status until it reaches confirmed
// or finalized commitment. An on-chain execution error is terminal.
func (c *Chain) awaitConfirmation(ctx context.Context, sig solana.Signature) error {
	ticker := time.NewTicker(confirmPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return domain.Providerf("confirmation wait aborted: %v", ctx.Err())
		case <-ticker.C:
		}

		res, err := c.client.GetSignatureStatuses(ctx, true, sig)
		if err != nil {
			c.logger.Warn("signature status check failed", zap.Error(err))
			continue
		}
		if len(res.Value) == 0 || res.Value[0] == nil {
			continue
		}

		status := res.Value[0]
		if status.Err != nil {
			return domain.Broadcastf("transaction %s failed on chain: %v", sig, status.Err)
		}
		switch status.ConfirmationStatus {
		case rpc.ConfirmationStatusConfirmed, rpc.ConfirmationStatusFinalized:
			return nil
		}
	}
}
