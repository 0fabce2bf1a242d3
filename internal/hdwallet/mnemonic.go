// internal/hdwallet/mnemonic.go

// Package hdwallet implements deterministic key derivation: BIP-39 mnemonic
// handling, BIP-32 secp256k1 and SLIP-0010 ed25519 path walks, and parsing
// of externally supplied raw private keys.
package hdwallet

import (
	"wallet-service/internal/domain"

	"github.com/tyler-smith/go-bip39"
)

// Supported mnemonic word counts.
const (
	Words12 = 12
	Words24 = 24
)

// GenerateMnemonic creates a new BIP-39 mnemonic of 12 or 24 words.
func GenerateMnemonic(wordCount int) (string, error) {
	var bits int
	switch wordCount {
	case Words12:
		bits = 128
	case Words24:
		bits = 256
	default:
		return "", domain.Validationf("word count must be 12 or 24, got %d", wordCount)
	}

	entropy, err := bip39.NewEntropy(bits)
	if err != nil {
		return "", domain.Cryptof("generate entropy: %v", err)
	}

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", domain.Cryptof("generate mnemonic: %v", err)
	}

	return mnemonic, nil
}

// IsMnemonic reports whether s is a valid BIP-39 mnemonic
// (correct word count, known words, valid checksum).
func IsMnemonic(s string) bool {
	return bip39.IsMnemonicValid(s)
}

// SeedFromMnemonic validates the mnemonic checksum and returns the 64-byte
// BIP-39 seed. No passphrase is supported. Deterministic: the same mnemonic
// always yields the same seed.
func SeedFromMnemonic(mnemonic string) ([]byte, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, domain.Cryptof("%w: checksum verification failed", domain.ErrInvalidMnemonic)
	}
	return bip39.NewSeed(mnemonic, ""), nil
}
