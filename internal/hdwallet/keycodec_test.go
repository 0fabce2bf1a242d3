package hdwallet

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"strconv"
	"strings"
	"testing"

	"wallet-service/internal/domain"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleKey(n int) []byte {
	key := make([]byte, n)
	for i := range key {
		key[i] = byte(i + 1)
	}
	return key
}

func TestParsePrivateKeyByteList(t *testing.T) {
	key := sampleKey(32)

	parts := make([]string, len(key))
	for i, b := range key {
		parts[i] = strconv.Itoa(int(b))
	}

	got, err := ParsePrivateKey(strings.Join(parts, ","))
	require.NoError(t, err)
	assert.True(t, bytes.Equal(key, got))

	// Spaces around values are tolerated.
	got, err = ParsePrivateKey(strings.Join(parts, ", "))
	require.NoError(t, err)
	assert.True(t, bytes.Equal(key, got))

	// Space-separated with no commas is the same list.
	got, err = ParsePrivateKey(strings.Join(parts, " "))
	require.NoError(t, err)
	assert.True(t, bytes.Equal(key, got))
}

func TestParsePrivateKeyJSONArray(t *testing.T) {
	key := sampleKey(64)

	// json.Marshal encodes []byte as base64, build the array form explicitly.
	values := make([]int, len(key))
	for i, b := range key {
		values[i] = int(b)
	}
	encoded, err := json.Marshal(values)
	require.NoError(t, err)

	got, err := ParsePrivateKey(string(encoded))
	require.NoError(t, err)
	assert.True(t, bytes.Equal(key, got))
}

func TestParsePrivateKeyBase58(t *testing.T) {
	for _, n := range []int{32, 64} {
		key := sampleKey(n)
		got, err := ParsePrivateKey(base58.Encode(key))
		require.NoError(t, err)
		assert.True(t, bytes.Equal(key, got))
	}
}

func TestParsePrivateKeyBase64(t *testing.T) {
	// A base64 payload whose text form is not valid base58 (base58 has no
	// '0', 'I', 'l' or '+'): craft bytes until the encoding contains '+'.
	key := sampleKey(32)
	key[0] = 0xfb
	encoded := base64.StdEncoding.EncodeToString(key)
	require.True(t, strings.ContainsAny(encoded, "+/0OIl"), "encoding %q unexpectedly base58-clean", encoded)

	got, err := ParsePrivateKey(encoded)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(key, got))
}

func TestParsePrivateKeyPriorityOrder(t *testing.T) {
	// All-'1' strings decode under base58 (leading zeros) and are also valid
	// base64 padding-free text; base58 must win.
	raw := strings.Repeat("1", 32)
	got, err := ParsePrivateKey(raw)
	require.NoError(t, err)
	assert.Equal(t, make([]byte, 32), got)

	// A JSON array is claimed by the JSON decoder before base64 ever runs.
	got, err = ParsePrivateKey("[1,2,3]")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, got)

	// A comma list is claimed before JSON: "1,2,3" is not JSON but is a list.
	got, err = ParsePrivateKey("1,2,3")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, got)

	// So is a space list.
	got, err = ParsePrivateKey("1 2 3")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, got)

	// A bare number has no separator and stays with the base decoders.
	_, err = ParsePrivateKey("123")
	require.Error(t, err)
}

func TestParsePrivateKeyUnsupported(t *testing.T) {
	for _, raw := range []string{
		"",
		"   ",
		"not a key at all!!",
		"[1,2,\"x\"]",
		"0OIl", // neither base58 nor sized base64
	} {
		_, err := ParsePrivateKey(raw)
		require.Error(t, err, "input %q", raw)
		assert.ErrorIs(t, err, domain.ErrUnsupportedKeyFormat)
		assert.Equal(t, domain.KindCrypto, domain.KindOf(err))
	}
}
