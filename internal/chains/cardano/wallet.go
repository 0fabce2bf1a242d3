// internal/chains/cardano/wallet.go
package cardano

import (
	"crypto/ed25519"
	"encoding/hex"
	"time"

	"wallet-service/internal/domain"
	"wallet-service/internal/hdwallet"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"golang.org/x/crypto/blake2b"
)

// credentialSize is the byte length of a key credential hash.
const credentialSize = 28

// Address header nibbles for the address types this wallet produces.
const (
	headerBase       = 0x00 // payment key + stake key
	headerEnterprise = 0x60 // payment key only
	headerStake      = 0xe0 // stake key only
)

// DeriveWallet derives a base (payment + stake) wallet from a mnemonic.
// The payment key sits at m/1852'/1815'/account'/0'/index' and the stake
// key at m/1852'/1815'/account'/2'/0', so every index of an account shares
// one staking identity.
func (c *Chain) DeriveWallet(mnemonic string, path domain.DerivePath) (*domain.Wallet, error) {
	seed, err := hdwallet.SeedFromMnemonic(mnemonic)
	if err != nil {
		return nil, err
	}

	paySeed, err := hdwallet.DeriveEd25519(seed, hdwallet.CardanoPaymentPath(path))
	if err != nil {
		return nil, err
	}
	stakeSeed, err := hdwallet.DeriveEd25519(seed, hdwallet.CardanoStakePath(path))
	if err != nil {
		return nil, err
	}

	payPriv := ed25519.NewKeyFromSeed(paySeed)
	stakePub := ed25519.NewKeyFromSeed(stakeSeed).Public().(ed25519.PublicKey)

	payHash := credentialHash(payPriv.Public().(ed25519.PublicKey))
	stakeHash := credentialHash(stakePub)

	address, err := c.encodeAddress(append([]byte{headerBase | c.networkID()}, append(payHash, stakeHash...)...))
	if err != nil {
		return nil, err
	}
	stakeAddress, err := c.encodeStakeAddress(append([]byte{headerStake | c.networkID()}, stakeHash...))
	if err != nil {
		return nil, err
	}

	return &domain.Wallet{
		Chain:         c.Name(),
		Address:       address,
		StakeAddress:  stakeAddress,
		PublicKey:     hex.EncodeToString(payPriv.Public().(ed25519.PublicKey)),
		PrivateKey:    hex.EncodeToString(payPriv.Seed()),
		PrivateKeyRaw: payPriv.Seed(),
		CreatedAt:     time.Now(),
	}, nil
}

// ImportWallet recovers a wallet from a payment key. A lone payment key
// cannot reconstruct the stake part, so the wallet gets an enterprise
// address over the same credential.
func (c *Chain) ImportWallet(rawKey string) (*domain.Wallet, error) {
	priv, err := parseKey(rawKey)
	if err != nil {
		return nil, err
	}

	payHash := credentialHash(priv.Public().(ed25519.PublicKey))
	address, err := c.encodeAddress(append([]byte{headerEnterprise | c.networkID()}, payHash...))
	if err != nil {
		return nil, err
	}

	return &domain.Wallet{
		Chain:         c.Name(),
		Address:       address,
		PublicKey:     hex.EncodeToString(priv.Public().(ed25519.PublicKey)),
		PrivateKey:    hex.EncodeToString(priv.Seed()),
		PrivateKeyRaw: priv.Seed(),
		CreatedAt:     time.Now(),
	}, nil
}

// ValidateAddress checks bech32 form, network prefix and payload shape.
func (c *Chain) ValidateAddress(address string) error {
	_, err := c.decodeOwnAddress(address)
	return err
}

// decodeOwnAddress decodes a payment address and verifies it belongs to
// the chain's network. It returns the raw header+credential bytes.
func (c *Chain) decodeOwnAddress(address string) ([]byte, error) {
	hrp, data5, err := bech32.DecodeNoLimit(address)
	if err != nil {
		return nil, domain.Validationf("invalid cardano address %q: %v", address, err)
	}
	if hrp != c.addressHRP() {
		return nil, domain.Validationf("address %q is not a %s payment address", address, c.network)
	}

	raw, err := bech32.ConvertBits(data5, 5, 8, false)
	if err != nil {
		return nil, domain.Validationf("invalid cardano address %q: %v", address, err)
	}

	switch len(raw) {
	case 1 + credentialSize, 1 + 2*credentialSize:
	default:
		return nil, domain.Validationf("address %q has unexpected payload length %d", address, len(raw))
	}
	if raw[0]&0x0f != c.networkID() {
		return nil, domain.Validationf("address %q belongs to another network", address)
	}

	return raw, nil
}

func (c *Chain) encodeAddress(raw []byte) (string, error) {
	return encodeBech32(c.addressHRP(), raw)
}

func (c *Chain) encodeStakeAddress(raw []byte) (string, error) {
	hrp := "stake"
	if c.network != "mainnet" {
		hrp = "stake_test"
	}
	return encodeBech32(hrp, raw)
}

func encodeBech32(hrp string, raw []byte) (string, error) {
	data5, err := bech32.ConvertBits(raw, 8, 5, true)
	if err != nil {
		return "", domain.Cryptof("encode address: %v", err)
	}
	address, err := bech32.Encode(hrp, data5)
	if err != nil {
		return "", domain.Cryptof("encode address: %v", err)
	}
	return address, nil
}

func (c *Chain) addressHRP() string {
	if c.network == "mainnet" {
		return "addr"
	}
	return "addr_test"
}

func (c *Chain) networkID() byte {
	if c.network == "mainnet" {
		return 1
	}
	return 0
}

// credentialHash is the 28-byte digest of a verification key.
func credentialHash(pub ed25519.PublicKey) []byte {
	digest, _ := blake2b.New(credentialSize, nil)
	digest.Write(pub)
	return digest.Sum(nil)
}

// parseKey accepts a hex seed or any of the shared codec's encodings,
// holding either a 32-byte seed or a full 64-byte expanded key.
func parseKey(rawKey string) (ed25519.PrivateKey, error) {
	if seed, err := hex.DecodeString(rawKey); err == nil && len(seed) == ed25519.SeedSize {
		return ed25519.NewKeyFromSeed(seed), nil
	}

	keyBytes, err := hdwallet.ParsePrivateKey(rawKey)
	if err != nil {
		return nil, err
	}

	switch len(keyBytes) {
	case ed25519.SeedSize:
		return ed25519.NewKeyFromSeed(keyBytes), nil
	case ed25519.PrivateKeySize:
		return ed25519.PrivateKey(keyBytes), nil
	default:
		return nil, domain.Cryptof("%w: cardano keys are 32 or 64 bytes, got %d",
			domain.ErrUnsupportedKeyFormat, len(keyBytes))
	}
}
