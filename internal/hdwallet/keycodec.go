// internal/hdwallet/keycodec.go
package hdwallet

import (
	"encoding/base64"
	"encoding/json"
	"strconv"
	"strings"

	"wallet-service/internal/domain"

	"github.com/mr-tron/base58"
)

// ParsePrivateKey decodes an externally supplied raw private key. Decoders
// run in a fixed priority order and the first successful one wins:
//
//  1. comma or space separated decimal byte values
//  2. JSON-encoded array of byte values
//  3. base58, decoding to a 32-byte seed or 64-byte expanded key
//  4. base64, decoding to 32 or 64 bytes
//
// The order is a contract: inputs valid under more than one encoding always
// resolve to the earliest decoder. Anything else fails with
// domain.ErrUnsupportedKeyFormat.
func ParsePrivateKey(raw string) ([]byte, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, domain.Cryptof("%w: empty input", domain.ErrUnsupportedKeyFormat)
	}

	if b, ok := decodeByteList(raw); ok {
		return b, nil
	}
	if b, ok := decodeJSONArray(raw); ok {
		return b, nil
	}
	if b, ok := decodeBase58Key(raw); ok {
		return b, nil
	}
	if b, ok := decodeBase64Key(raw); ok {
		return b, nil
	}

	return nil, domain.Cryptof("%w", domain.ErrUnsupportedKeyFormat)
}

// decodeByteList parses "12,34,56,..." or "12 34 56 ...". A separator must
// be present: a bare number is left for the base58/base64 decoders.
func decodeByteList(raw string) ([]byte, bool) {
	var parts []string
	switch {
	case strings.Contains(raw, ","):
		parts = strings.Split(raw, ",")
	case strings.ContainsAny(raw, " \t"):
		parts = strings.Fields(raw)
	default:
		return nil, false
	}

	out := make([]byte, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(part), 10, 8)
		if err != nil {
			return nil, false
		}
		out = append(out, byte(v))
	}
	return out, true
}

func decodeJSONArray(raw string) ([]byte, bool) {
	if !strings.HasPrefix(raw, "[") {
		return nil, false
	}

	var values []int
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, false
	}

	out := make([]byte, 0, len(values))
	for _, v := range values {
		if v < 0 || v > 255 {
			return nil, false
		}
		out = append(out, byte(v))
	}
	return out, true
}

func decodeBase58Key(raw string) ([]byte, bool) {
	b, err := base58.Decode(raw)
	if err != nil {
		return nil, false
	}
	if len(b) != 32 && len(b) != 64 {
		return nil, false
	}
	return b, true
}

func decodeBase64Key(raw string) ([]byte, bool) {
	b, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, false
	}
	if len(b) != 32 && len(b) != 64 {
		return nil, false
	}
	return b, true
}
