// internal/chains/bitcoin/client.go
package bitcoin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"wallet-service/internal/domain"

	"go.uber.org/zap"
)

// Client talks to an esplora-style REST indexer.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *zap.Logger
}

func NewClient(baseURL, apiKey string, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		logger:  logger,
	}
}

// AddressStats aggregates the indexer's funded/spent totals for an address,
// for the confirmed chain and the mempool separately. All values are sats.
type AddressStats struct {
	Funded        int64
	Spent         int64
	MempoolFunded int64
	MempoolSpent  int64
}

type esploraAddress struct {
	ChainStats   esploraTxoStats `json:"chain_stats"`
	MempoolStats esploraTxoStats `json:"mempool_stats"`
}

type esploraTxoStats struct {
	FundedTxoSum int64 `json:"funded_txo_sum"`
	SpentTxoSum  int64 `json:"spent_txo_sum"`
}

type esploraUTXO struct {
	TxID   string `json:"txid"`
	Vout   uint32 `json:"vout"`
	Value  int64  `json:"value"`
	Status struct {
		Confirmed bool `json:"confirmed"`
	} `json:"status"`
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return domain.Providerf("build request: %v", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Providerf("bitcoin indexer request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Providerf("read indexer response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		return domain.Providerf("bitcoin indexer status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return domain.Providerf("decode indexer response: %v", err)
	}
	return nil
}

// UTXOs returns the confirmed unspent outputs of an address.
func (c *Client) UTXOs(ctx context.Context, address string) ([]domain.UTXO, error) {
	var raw []esploraUTXO
	if err := c.get(ctx, "/address/"+address+"/utxo", &raw); err != nil {
		return nil, err
	}

	utxos := make([]domain.UTXO, 0, len(raw))
	for _, u := range raw {
		if !u.Status.Confirmed {
			continue
		}
		utxos = append(utxos, domain.UTXO{TxID: u.TxID, Vout: u.Vout, Value: u.Value})
	}
	return utxos, nil
}

// AddressStats returns the funded/spent sums of an address.
func (c *Client) AddressStats(ctx context.Context, address string) (*AddressStats, error) {
	var raw esploraAddress
	if err := c.get(ctx, "/address/"+address, &raw); err != nil {
		return nil, err
	}

	return &AddressStats{
		Funded:        raw.ChainStats.FundedTxoSum,
		Spent:         raw.ChainStats.SpentTxoSum,
		MempoolFunded: raw.MempoolStats.FundedTxoSum,
		MempoolSpent:  raw.MempoolStats.SpentTxoSum,
	}, nil
}

// FeeRate returns a sat/vB estimate targeting ~3 blocks.
func (c *Client) FeeRate(ctx context.Context) (float64, error) {
	var estimates map[string]float64
	if err := c.get(ctx, "/fee-estimates", &estimates); err != nil {
		return 0, err
	}

	for _, target := range []int{3, 6, 1, 2, 12} {
		if rate, ok := estimates[fmt.Sprintf("%d", target)]; ok && rate > 0 {
			return rate, nil
		}
	}

	return 0, domain.Providerf("no fee estimates available")
}

// Broadcast submits a raw transaction and returns its id. A rejection by
// the network is terminal and surfaced verbatim.
func (c *Client) Broadcast(ctx context.Context, rawTx string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/tx", strings.NewReader(rawTx))
	if err != nil {
		return "", domain.Providerf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "text/plain")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", domain.Providerf("broadcast request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", domain.Providerf("read broadcast response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", domain.Broadcastf("transaction rejected (status %d): %s",
			resp.StatusCode, strings.TrimSpace(string(body)))
	}

	txID := strings.TrimSpace(string(body))
	c.logger.Info("bitcoin transaction broadcast", zap.String("tx_id", txID))
	return txID, nil
}
