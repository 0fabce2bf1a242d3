// cmd/walletd/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"wallet-service/internal/chains"
	"wallet-service/internal/chains/bitcoin"
	"wallet-service/internal/chains/cardano"
	"wallet-service/internal/chains/ethereum"
	"wallet-service/internal/chains/solana"
	"wallet-service/internal/config"
	"wallet-service/internal/domain"
	"wallet-service/internal/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	logger, err := newLogger(os.Getenv("LOG_LEVEL"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(logger); err != nil {
		logger.Fatal("startup failed", zap.Error(err))
	}
}

func run(logger *zap.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	btc, err := bitcoin.New(bitcoin.Config{
		Endpoint: cfg.Bitcoin.RPCEndpoint,
		APIKey:   cfg.Bitcoin.APIKey,
		Network:  cfg.Bitcoin.Network,
	}, logger)
	if err != nil {
		return err
	}

	eth, err := ethereum.New(ctx, ethereum.Config{
		Endpoint: cfg.Ethereum.RPCEndpoint,
		ChainID:  cfg.EthereumChainID,
	}, logger)
	if err != nil {
		return err
	}

	sol, err := solana.New(solana.Config{
		Endpoint: cfg.Solana.RPCEndpoint,
	}, logger)
	if err != nil {
		return err
	}

	ada, err := cardano.New(cardano.Config{
		Endpoint: cfg.Cardano.RPCEndpoint,
		APIKey:   cfg.Cardano.APIKey,
		Network:  cfg.Cardano.Network,
	}, logger)
	if err != nil {
		return err
	}

	registry := chains.NewRegistry()
	registry.Register(btc)
	registry.Register(eth)
	registry.Register(sol)
	registry.Register(ada)

	service := usecase.NewWalletService(registry, logger)
	logger.Info("wallet service ready", zap.Strings("chains", service.Chains()))

	// Smoke check: derive a throwaway wallet on every chain. Addresses are
	// logged, key material is discarded with the Wallet value.
	for _, name := range service.Chains() {
		wallet, _, err := service.CreateWallet(name, 0, domain.DerivePath{})
		if err != nil {
			return err
		}
		logger.Info("derivation check passed",
			zap.String("chain", name),
			zap.String("address", wallet.Address))
	}

	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
