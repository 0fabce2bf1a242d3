package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setAll(t *testing.T) {
	t.Helper()
	t.Setenv("BTC_RPC_URL", "https://btc.example")
	t.Setenv("ETH_RPC_URL", "https://eth.example")
	t.Setenv("SOL_RPC_URL", "https://sol.example")
	t.Setenv("ADA_RPC_URL", "https://ada.example")
}

func TestLoadRequiresEveryEndpoint(t *testing.T) {
	setAll(t)
	t.Setenv("SOL_RPC_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SOL_RPC_URL")
}

func TestLoadDefaults(t *testing.T) {
	setAll(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "mainnet", cfg.Bitcoin.Network)
	assert.Equal(t, "mainnet", cfg.Cardano.Network)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Zero(t, cfg.EthereumChainID)
	assert.Empty(t, cfg.Bitcoin.APIKey, "API keys must have no default")
}

func TestLoadOverrides(t *testing.T) {
	setAll(t)
	t.Setenv("BTC_NETWORK", "testnet")
	t.Setenv("ETH_CHAIN_ID", "11155111")
	t.Setenv("ADA_API_KEY", "project123")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "testnet", cfg.Bitcoin.Network)
	assert.Equal(t, int64(11155111), cfg.EthereumChainID)
	assert.Equal(t, "project123", cfg.Cardano.APIKey)
}

func TestLoadRejectsBadChainID(t *testing.T) {
	setAll(t)
	t.Setenv("ETH_CHAIN_ID", "sepolia")

	_, err := Load()
	require.Error(t, err)
}
