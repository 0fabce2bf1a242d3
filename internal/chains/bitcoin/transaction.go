// internal/chains/bitcoin/transaction.go
package bitcoin

import (
	"bytes"
	"encoding/hex"

	"wallet-service/internal/domain"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

// Builder assembles and signs a single-sender P2WPKH transaction. Every
// input spends an output of the sender's own address, so one key and one
// previous-output script cover all inputs.
type Builder struct {
	params    *chaincfg.Params
	tx        *wire.MsgTx
	inputs    []domain.UTXO
	seen      map[wire.OutPoint]struct{}
	priv      *btcec.PrivateKey
	payScript []byte
}

// NewBuilder creates a builder signing with priv.
func NewBuilder(params *chaincfg.Params, priv *btcec.PrivateKey) (*Builder, error) {
	pubKeyHash := btcutil.Hash160(priv.PubKey().SerializeCompressed())
	addr, err := btcutil.NewAddressWitnessPubKeyHash(pubKeyHash, params)
	if err != nil {
		return nil, domain.Cryptof("sender address: %v", err)
	}
	payScript, err := txscript.PayToAddrScript(addr)
	if err != nil {
		return nil, domain.Cryptof("sender script: %v", err)
	}

	return &Builder{
		params:    params,
		tx:        wire.NewMsgTx(wire.TxVersion),
		seen:      make(map[wire.OutPoint]struct{}),
		priv:      priv,
		payScript: payScript,
	}, nil
}

// AddInput attaches a UTXO. Each outpoint may be consumed at most once.
func (b *Builder) AddInput(utxo domain.UTXO) error {
	prevHash, err := chainhash.NewHashFromStr(utxo.TxID)
	if err != nil {
		return domain.Validationf("invalid txid %q: %v", utxo.TxID, err)
	}

	outpoint := wire.OutPoint{Hash: *prevHash, Index: utxo.Vout}
	if _, dup := b.seen[outpoint]; dup {
		return domain.Validationf("outpoint %s already consumed by this draft", outpoint.String())
	}
	b.seen[outpoint] = struct{}{}

	txIn := wire.NewTxIn(&outpoint, nil, nil)
	b.tx.AddTxIn(txIn)
	b.inputs = append(b.inputs, utxo)

	return nil
}

// AddOutput appends a payment to address.
func (b *Builder) AddOutput(address string, amountSats int64) error {
	addr, err := btcutil.DecodeAddress(address, b.params)
	if err != nil {
		return domain.Validationf("invalid address %q: %v", address, err)
	}

	pkScript, err := txscript.PayToAddrScript(addr)
	if err != nil {
		return domain.Cryptof("output script: %v", err)
	}

	b.tx.AddTxOut(wire.NewTxOut(amountSats, pkScript))
	return nil
}

// Sign produces a witness for every input independently.
func (b *Builder) Sign() error {
	fetcher := txscript.NewMultiPrevOutFetcher(nil)
	for i, txIn := range b.tx.TxIn {
		fetcher.AddPrevOut(txIn.PreviousOutPoint, wire.NewTxOut(b.inputs[i].Value, b.payScript))
	}
	sigHashes := txscript.NewTxSigHashes(b.tx, fetcher)

	for i := range b.tx.TxIn {
		witness, err := txscript.WitnessSignature(
			b.tx, sigHashes, i, b.inputs[i].Value, b.payScript,
			txscript.SigHashAll, b.priv, true,
		)
		if err != nil {
			return domain.Cryptof("sign input %d: %v", i, err)
		}
		b.tx.TxIn[i].Witness = witness
	}

	return nil
}

// Serialize returns the raw transaction hex, ready for broadcast.
func (b *Builder) Serialize() (string, error) {
	var buf bytes.Buffer
	if err := b.tx.Serialize(&buf); err != nil {
		return "", domain.Cryptof("serialize transaction: %v", err)
	}
	return hex.EncodeToString(buf.Bytes()), nil
}

// TxHash returns the transaction hash.
func (b *Builder) TxHash() string {
	return b.tx.TxHash().String()
}

// OutputTotal sums the attached outputs, in satoshis.
func (b *Builder) OutputTotal() int64 {
	var total int64
	for _, out := range b.tx.TxOut {
		total += out.Value
	}
	return total
}
