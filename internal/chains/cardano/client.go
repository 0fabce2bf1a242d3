// internal/chains/cardano/client.go
package cardano

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"wallet-service/internal/domain"

	"go.uber.org/zap"
)

// Client talks to a Blockfrost-style REST indexer.
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

type bfAmount struct {
	Unit     string `json:"unit"`
	Quantity string `json:"quantity"`
}

type bfAddress struct {
	Amount []bfAmount `json:"amount"`
}

type bfUTXO struct {
	TxHash      string     `json:"tx_hash"`
	OutputIndex uint32     `json:"output_index"`
	Amount      []bfAmount `json:"amount"`
}

type bfProtocolParams struct {
	MinFeeA int64 `json:"min_fee_a"`
	MinFeeB int64 `json:"min_fee_b"`
}

type bfBlock struct {
	Slot uint64 `json:"slot"`
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return domain.Providerf("build request: %v", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.apiKey != "" {
		req.Header.Set("project_id", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Providerf("cardano indexer request failed: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Providerf("read indexer response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		if method == http.MethodPost {
			return domain.Broadcastf("transaction rejected (status %d): %s",
				resp.StatusCode, strings.TrimSpace(string(respBody)))
		}
		return domain.Providerf("cardano indexer status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return domain.Providerf("decode indexer response: %v", err)
		}
	}
	return nil
}

// lovelaceOf extracts the native-coin quantity from a mixed asset list.
func lovelaceOf(amounts []bfAmount) (int64, error) {
	for _, a := range amounts {
		if a.Unit != "lovelace" {
			continue
		}
		value, err := strconv.ParseInt(a.Quantity, 10, 64)
		if err != nil {
			return 0, domain.Providerf("bad lovelace quantity %q: %v", a.Quantity, err)
		}
		return value, nil
	}
	return 0, nil
}

// UTXOs returns the unspent outputs of an address, native coin only.
func (c *Client) UTXOs(ctx context.Context, address string) ([]domain.UTXO, error) {
	var raw []bfUTXO
	if err := c.do(ctx, http.MethodGet, "/addresses/"+address+"/utxos", nil, "", &raw); err != nil {
		return nil, err
	}

	utxos := make([]domain.UTXO, 0, len(raw))
	for _, u := range raw {
		value, err := lovelaceOf(u.Amount)
		if err != nil {
			return nil, err
		}
		if value == 0 {
			continue
		}
		utxos = append(utxos, domain.UTXO{TxID: u.TxHash, Vout: u.OutputIndex, Value: value})
	}
	return utxos, nil
}

// Balance returns the lovelace held by an address. A 404 from the indexer
// means the address was never used, which is a zero balance.
func (c *Client) Balance(ctx context.Context, address string) (int64, error) {
	var raw bfAddress
	err := c.do(ctx, http.MethodGet, "/addresses/"+address, nil, "", &raw)
	if err != nil {
		if strings.Contains(err.Error(), "status 404") {
			return 0, nil
		}
		return 0, err
	}
	return lovelaceOf(raw.Amount)
}

// ProtocolParams fetches the current linear fee coefficients, falling back
// to the protocol defaults when the indexer omits them.
func (c *Client) ProtocolParams(ctx context.Context) (*FeeParams, error) {
	var raw bfProtocolParams
	if err := c.do(ctx, http.MethodGet, "/epochs/latest/parameters", nil, "", &raw); err != nil {
		return nil, err
	}

	if raw.MinFeeA <= 0 || raw.MinFeeB <= 0 {
		return DefaultFeeParams(), nil
	}
	return &FeeParams{PerByte: raw.MinFeeA, Fixed: raw.MinFeeB}, nil
}

// LatestSlot returns the tip slot, used to anchor transaction TTLs.
func (c *Client) LatestSlot(ctx context.Context) (uint64, error) {
	var raw bfBlock
	if err := c.do(ctx, http.MethodGet, "/blocks/latest", nil, "", &raw); err != nil {
		return 0, err
	}
	return raw.Slot, nil
}

// Submit broadcasts a signed transaction and returns its id.
func (c *Client) Submit(ctx context.Context, signedTx []byte) (string, error) {
	var txID string
	if err := c.do(ctx, http.MethodPost, "/tx/submit", bytes.NewReader(signedTx), "application/cbor", &txID); err != nil {
		return "", err
	}

	c.logger.Info("cardano transaction broadcast", zap.String("tx_id", txID))
	return txID, nil
}
