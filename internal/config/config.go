// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
)

// ChainConfig holds one chain's provider settings. Endpoints are required;
// there are no baked-in defaults for anything credential-bearing.
type ChainConfig struct {
	RPCEndpoint string
	APIKey      string
	Network     string
}

// Config is the process configuration, read once at startup.
type Config struct {
	Bitcoin  ChainConfig
	Ethereum ChainConfig
	Solana   ChainConfig
	Cardano  ChainConfig

	EthereumChainID int64
	LogLevel        string
}

// Load reads configuration from the environment. Every chain needs its
// endpoint set; a missing one fails startup rather than failing the first
// request.
func Load() (*Config, error) {
	cfg := &Config{
		Bitcoin: ChainConfig{
			RPCEndpoint: os.Getenv("BTC_RPC_URL"),
			APIKey:      os.Getenv("BTC_API_KEY"),
			Network:     getEnv("BTC_NETWORK", "mainnet"),
		},
		Ethereum: ChainConfig{
			RPCEndpoint: os.Getenv("ETH_RPC_URL"),
			APIKey:      os.Getenv("ETH_API_KEY"),
		},
		Solana: ChainConfig{
			RPCEndpoint: os.Getenv("SOL_RPC_URL"),
			APIKey:      os.Getenv("SOL_API_KEY"),
		},
		Cardano: ChainConfig{
			RPCEndpoint: os.Getenv("ADA_RPC_URL"),
			APIKey:      os.Getenv("ADA_API_KEY"),
			Network:     getEnv("ADA_NETWORK", "mainnet"),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// 0 leaves chain-id discovery to the node.
	if raw := os.Getenv("ETH_CHAIN_ID"); raw != "" {
		chainID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("config: ETH_CHAIN_ID must be numeric: %w", err)
		}
		cfg.EthereumChainID = chainID
	}

	for _, required := range []struct {
		name  string
		value string
	}{
		{"BTC_RPC_URL", cfg.Bitcoin.RPCEndpoint},
		{"ETH_RPC_URL", cfg.Ethereum.RPCEndpoint},
		{"SOL_RPC_URL", cfg.Solana.RPCEndpoint},
		{"ADA_RPC_URL", cfg.Cardano.RPCEndpoint},
	} {
		if required.value == "" {
			return nil, fmt.Errorf("config: %s is required", required.name)
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
