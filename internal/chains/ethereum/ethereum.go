// internal/chains/ethereum/ethereum.go
package ethereum

import (
	"context"
	"math/big"
	"strings"
	"time"

	"wallet-service/internal/domain"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
)

// gasLimitTransfer is the gas cost of a native value transfer.
const gasLimitTransfer = 21000

// Config carries the required provider settings.
type Config struct {
	Endpoint string // JSON-RPC endpoint, required
	ChainID  int64  // 0 means "ask the node"
}

// Client is the node surface the chain depends on; *ethclient.Client
// satisfies it.
type Client interface {
	ChainID(ctx context.Context) (*big.Int, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
}

type Chain struct {
	client  Client
	chainID *big.Int
	logger  *zap.Logger
}

// New connects to the configured node. The chain id is taken from config
// when set, otherwise queried from the node once at startup.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (*Chain, error) {
	if cfg.Endpoint == "" {
		return nil, domain.Validationf("ethereum: provider endpoint is required")
	}

	client, err := ethclient.DialContext(ctx, cfg.Endpoint)
	if err != nil {
		return nil, domain.Providerf("connect to ethereum node: %v", err)
	}

	chainID := big.NewInt(cfg.ChainID)
	if cfg.ChainID == 0 {
		chainID, err = client.ChainID(ctx)
		if err != nil {
			return nil, domain.Providerf("query chain id: %v", err)
		}
	}

	logger.Info("ethereum chain initialized",
		zap.String("endpoint", cfg.Endpoint),
		zap.String("chain_id", chainID.String()))

	return &Chain{
		client:  client,
		chainID: chainID,
		logger:  logger,
	}, nil
}

// Name returns chain name
func (c *Chain) Name() string {
	return "ETHEREUM"
}

// Symbol returns native coin symbol
func (c *Chain) Symbol() string {
	return "ETH"
}

// Decimals returns the wei exponent
func (c *Chain) Decimals() int {
	return 18
}

// ValidateAddress validates an EIP-55 address.
func (c *Chain) ValidateAddress(address string) error {
	if !common.IsHexAddress(address) {
		return domain.Validationf("invalid ethereum address %q", address)
	}
	return nil
}

// GetBalance gets the settled native balance for address.
func (c *Chain) GetBalance(ctx context.Context, address string) (*domain.Balance, error) {
	if err := c.ValidateAddress(address); err != nil {
		return nil, err
	}

	balance, err := c.client.BalanceAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return nil, domain.Providerf("fetch balance: %v", err)
	}

	return domain.NewBalance(address, balance, c.Decimals()), nil
}

// feeQuote is the resolved gas pricing for one send.
type feeQuote struct {
	gasPrice  *big.Int // legacy price, nil when the dynamic quote is used
	gasFeeCap *big.Int // max fee per gas
	gasTipCap *big.Int
}

// effective returns the per-gas price used for cost accounting: the max-fee
// quote when available, the legacy quote otherwise.
func (q *feeQuote) effective() *big.Int {
	if q.gasFeeCap != nil {
		return q.gasFeeCap
	}
	return q.gasPrice
}

// quoteFees resolves the gas pricing for one send: an explicit request
// rate (wei per gas) wins outright, then a dynamic (max-fee) quote, then
// the legacy gas price when the chain predates dynamic fees.
func (c *Chain) quoteFees(ctx context.Context, explicit int64) (*feeQuote, error) {
	if explicit > 0 {
		return &feeQuote{gasPrice: big.NewInt(explicit)}, nil
	}

	header, err := c.client.HeaderByNumber(ctx, nil)
	if err == nil && header.BaseFee != nil {
		tip, err := c.client.SuggestGasTipCap(ctx)
		if err != nil {
			return nil, domain.Providerf("suggest gas tip: %v", err)
		}
		// Cap at twice the current base fee plus tip so the quote survives
		// base-fee drift between quoting and inclusion.
		feeCap := new(big.Int).Add(new(big.Int).Mul(header.BaseFee, big.NewInt(2)), tip)
		return &feeQuote{gasFeeCap: feeCap, gasTipCap: tip}, nil
	}

	gasPrice, err := c.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, domain.Providerf("suggest gas price: %v", err)
	}
	return &feeQuote{gasPrice: gasPrice}, nil
}

// resolveAmount applies the maximum-amount sentinel: the entire balance
// minus the gas cost. A balance at or below the gas cost is a funds error,
// raised before anything is signed.
func resolveAmount(req *domain.SendRequest, balance, gasCost *big.Int) (*big.Int, error) {
	if req.SendMax {
		if balance.Cmp(gasCost) <= 0 {
			return nil, domain.Fundsf("%w: balance %s cannot cover gas %s",
				domain.ErrInsufficientFunds, balance, gasCost)
		}
		return new(big.Int).Sub(balance, gasCost), nil
	}

	total := new(big.Int).Add(req.Amount, gasCost)
	if balance.Cmp(total) < 0 {
		return nil, domain.Fundsf("%w: balance %s below amount+gas %s",
			domain.ErrInsufficientFunds, balance, total)
	}
	return req.Amount, nil
}

// Send signs and submits a native transfer.
func (c *Chain) Send(ctx context.Context, req *domain.SendRequest) (*domain.SendResult, error) {
	if !req.SendMax && (req.Amount == nil || req.Amount.Sign() <= 0) {
		return nil, domain.Validationf("amount must be positive")
	}

	priv, err := parseKey(req.PrivateKey)
	if err != nil {
		return nil, err
	}

	sender := addressFromKey(priv)
	if !strings.EqualFold(sender, req.From) {
		return nil, domain.Cryptof("%w: key derives %s, request declares %s",
			domain.ErrSignerMismatch, sender, req.From)
	}

	if err := c.ValidateAddress(req.To); err != nil {
		return nil, err
	}

	quote, err := c.quoteFees(ctx, req.FeeRate)
	if err != nil {
		return nil, err
	}
	gasCost := new(big.Int).Mul(quote.effective(), big.NewInt(gasLimitTransfer))

	balance, err := c.client.BalanceAt(ctx, common.HexToAddress(sender), nil)
	if err != nil {
		return nil, domain.Providerf("fetch balance: %v", err)
	}

	amount, err := resolveAmount(req, balance, gasCost)
	if err != nil {
		return nil, err
	}

	nonce, err := c.client.PendingNonceAt(ctx, common.HexToAddress(sender))
	if err != nil {
		return nil, domain.Providerf("fetch nonce: %v", err)
	}

	to := common.HexToAddress(req.To)
	var txData types.TxData
	if quote.gasFeeCap != nil {
		txData = &types.DynamicFeeTx{
			ChainID:   c.chainID,
			Nonce:     nonce,
			GasTipCap: quote.gasTipCap,
			GasFeeCap: quote.gasFeeCap,
			Gas:       gasLimitTransfer,
			To:        &to,
			Value:     amount,
		}
	} else {
		txData = &types.LegacyTx{
			Nonce:    nonce,
			GasPrice: quote.gasPrice,
			Gas:      gasLimitTransfer,
			To:       &to,
			Value:    amount,
		}
	}

	signedTx, err := signTransaction(types.NewTx(txData), priv, c.chainID)
	if err != nil {
		return nil, err
	}

	if err := c.client.SendTransaction(ctx, signedTx); err != nil {
		return nil, domain.Broadcastf("transaction rejected: %v", err)
	}

	c.logger.Info("ethereum transaction sent",
		zap.String("tx_hash", signedTx.Hash().Hex()),
		zap.String("amount_wei", amount.String()))

	return &domain.SendResult{
		TxID:      signedTx.Hash().Hex(),
		Amount:    amount,
		Fee:       gasCost,
		Timestamp: time.Now(),
	}, nil
}
