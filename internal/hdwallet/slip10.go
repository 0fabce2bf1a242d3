// internal/hdwallet/slip10.go
package hdwallet

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"

	"wallet-service/internal/domain"
)

// SLIP-0010 curve key for ed25519.
const slip10SeedKey = "ed25519 seed"

// DeriveEd25519 walks a SLIP-0010 ed25519 path from a BIP-39 seed and
// returns the 32-byte key seed at the leaf. Ed25519 has no normal-child
// derivation, so every path segment must be hardened.
func DeriveEd25519(seed []byte, path []uint32) ([]byte, error) {
	mac := hmac.New(sha512.New, []byte(slip10SeedKey))
	mac.Write(seed)
	sum := mac.Sum(nil)
	key, chainCode := sum[:32], sum[32:]

	for _, segment := range path {
		if segment < Hardened {
			return nil, domain.Cryptof("ed25519 derivation requires hardened segments, got %d", segment)
		}

		var data [37]byte
		copy(data[1:33], key)
		binary.BigEndian.PutUint32(data[33:], segment)

		mac = hmac.New(sha512.New, chainCode)
		mac.Write(data[:])
		sum = mac.Sum(nil)
		key, chainCode = sum[:32], sum[32:]
	}

	out := make([]byte, 32)
	copy(out, key)
	return out, nil
}
