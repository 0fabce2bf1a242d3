// internal/usecase/wallet_usecase.go
package usecase

import (
	"context"
	"strings"

	"wallet-service/internal/chains"
	"wallet-service/internal/domain"
	"wallet-service/internal/hdwallet"

	"go.uber.org/zap"
)

// WalletService is the chain-agnostic entry point. It normalizes input,
// validates requests and dispatches to the registered chain. Everything
// here is stateless: key material lives only for the duration of a call.
type WalletService struct {
	registry *chains.Registry
	logger   *zap.Logger
}

func NewWalletService(registry *chains.Registry, logger *zap.Logger) *WalletService {
	return &WalletService{
		registry: registry,
		logger:   logger,
	}
}

// Chains lists the supported chain names.
func (s *WalletService) Chains() []string {
	return s.registry.List()
}

// CreateWallet generates a fresh mnemonic and derives an address from it
// at the given path (the zero path is the chain's first address). The
// mnemonic is returned exactly once, to the caller; it is never logged or
// retained.
func (s *WalletService) CreateWallet(chainName string, wordCount int, path domain.DerivePath) (*domain.Wallet, string, error) {
	chain, err := s.chain(chainName)
	if err != nil {
		return nil, "", err
	}

	if wordCount == 0 {
		wordCount = hdwallet.Words12
	}
	mnemonic, err := hdwallet.GenerateMnemonic(wordCount)
	if err != nil {
		return nil, "", err
	}

	wallet, err := chain.DeriveWallet(mnemonic, path)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("wallet created",
		zap.String("chain", chain.Name()),
		zap.String("address", wallet.Address))

	return wallet, mnemonic, nil
}

// ImportWallet recovers a wallet from either a mnemonic or a private key.
// A valid mnemonic is derived along the chain's default path; anything
// else is handed to the chain's key importer.
func (s *WalletService) ImportWallet(chainName, secret string) (*domain.Wallet, error) {
	chain, err := s.chain(chainName)
	if err != nil {
		return nil, err
	}

	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, domain.Validationf("mnemonic or private key is required")
	}

	var wallet *domain.Wallet
	if hdwallet.IsMnemonic(secret) {
		wallet, err = chain.DeriveWallet(secret, domain.DerivePath{})
	} else {
		wallet, err = chain.ImportWallet(secret)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("wallet imported",
		zap.String("chain", chain.Name()),
		zap.String("address", wallet.Address))

	return wallet, nil
}

// GetBalance fetches the native balance of address on the named chain.
func (s *WalletService) GetBalance(ctx context.Context, chainName, address string) (*domain.Balance, error) {
	chain, err := s.chain(chainName)
	if err != nil {
		return nil, err
	}
	if address == "" {
		return nil, domain.Validationf("address is required")
	}

	return chain.GetBalance(ctx, address)
}

// Send validates the request shape and dispatches the transfer. Field
// validation fails before the chain, and therefore any provider, is
// touched.
func (s *WalletService) Send(ctx context.Context, chainName string, req *domain.SendRequest) (*domain.SendResult, error) {
	if req == nil {
		return nil, domain.Validationf("send request is required")
	}
	if req.From == "" {
		return nil, domain.Validationf("sender address is required")
	}
	if req.To == "" {
		return nil, domain.Validationf("recipient address is required")
	}
	if req.PrivateKey == "" {
		return nil, domain.Validationf("private key is required")
	}
	if !req.SendMax && (req.Amount == nil || req.Amount.Sign() <= 0) {
		return nil, domain.Validationf("amount must be positive")
	}
	if req.FeeRate < 0 {
		return nil, domain.Validationf("fee rate cannot be negative")
	}

	chain, err := s.chain(chainName)
	if err != nil {
		return nil, err
	}

	result, err := chain.Send(ctx, req)
	if err != nil {
		s.logger.Warn("send failed",
			zap.String("chain", chain.Name()),
			zap.String("kind", domain.KindOf(err).String()),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("send completed",
		zap.String("chain", chain.Name()),
		zap.String("tx_id", result.TxID))

	return result, nil
}

func (s *WalletService) chain(name string) (domain.Chain, error) {
	return s.registry.Get(strings.ToUpper(strings.TrimSpace(name)))
}
