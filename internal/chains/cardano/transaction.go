// internal/chains/cardano/transaction.go
package cardano

import (
	"crypto/ed25519"
	"encoding/hex"

	"wallet-service/internal/coinselect"
	"wallet-service/internal/domain"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"
)

// FeeParams is the network's linear fee model: PerByte x size + Fixed.
type FeeParams struct {
	PerByte int64
	Fixed   int64
}

// DefaultFeeParams returns the long-standing protocol values, used when
// the provider cannot supply current ones.
func DefaultFeeParams() *FeeParams {
	return &FeeParams{PerByte: 44, Fixed: 155381}
}

// Estimate computes the fee for a transaction of the given serialized size.
func (p *FeeParams) Estimate(size int) int64 {
	return p.PerByte*int64(size) + p.Fixed
}

type txInput struct {
	_     struct{} `cbor:",toarray"`
	TxID  []byte
	Index uint32
}

type txOutput struct {
	_       struct{} `cbor:",toarray"`
	Address []byte
	Amount  uint64
}

type txBody struct {
	Inputs  []txInput  `cbor:"0,keyasint"`
	Outputs []txOutput `cbor:"1,keyasint"`
	Fee     uint64     `cbor:"2,keyasint"`
	TTL     uint64     `cbor:"3,keyasint"`
}

type vkeyWitness struct {
	_         struct{} `cbor:",toarray"`
	VKey      []byte
	Signature []byte
}

type witnessSet struct {
	VKeys []vkeyWitness `cbor:"0,keyasint"`
}

type signedTx struct {
	_         struct{} `cbor:",toarray"`
	Body      txBody
	Witnesses witnessSet
	IsValid   bool
	Auxiliary *struct{} // always nil, no metadata
}

// paymentPlan is everything buildPayment needs to assemble a transfer.
type paymentPlan struct {
	priv      ed25519.PrivateKey
	from      []byte
	to        []byte
	amount    int64
	sendMax   bool
	utxos     []domain.UTXO
	feeParams *FeeParams
	ttl       uint64
}

// builtTx is a signed, serialized transaction with its final accounting.
type builtTx struct {
	raw    []byte
	hash   string
	amount int64
	fee    int64
}

// maxFeeRounds bounds the fee fixpoint iteration. The fee only grows
// between rounds and the size barely moves, so two rounds usually settle it.
const maxFeeRounds = 8

// buildPayment selects inputs, settles the fee against the serialized size
// and returns the signed transaction. Change below the output minimum is
// folded into the fee.
func buildPayment(plan paymentPlan) (*builtTx, error) {
	if len(plan.utxos) == 0 {
		return nil, domain.Fundsf("%w: address has no unspent outputs", domain.ErrInsufficientFunds)
	}

	if plan.sendMax {
		return buildSweep(plan)
	}

	// Settle the hopeless case up front; it also keeps amount+buffer sums
	// far from the int64 boundary.
	if total := coinselect.Sum(plan.utxos); plan.amount > total {
		return nil, domain.Fundsf("%w: %d lovelace available, %d requested",
			domain.ErrInsufficientFunds, total, plan.amount)
	}

	sel := coinselect.Select(plan.utxos, plan.amount+selectionBuffer)
	inputs, sum := sel.Inputs, sel.Sum

	fee := plan.feeParams.Estimate(300)
	for round := 0; round < maxFeeRounds; round++ {
		change := sum - plan.amount - fee
		if change < 0 {
			if len(inputs) < len(plan.utxos) {
				inputs, sum = plan.utxos, coinselect.Sum(plan.utxos)
				continue
			}
			return nil, domain.Fundsf("%w: %d lovelace available, %d needed",
				domain.ErrInsufficientFunds, sum, plan.amount+fee)
		}

		outputs := []txOutput{{Address: plan.to, Amount: uint64(plan.amount)}}
		actualFee := fee
		if change >= minOutputLovelace {
			outputs = append(outputs, txOutput{Address: plan.from, Amount: uint64(change)})
		} else {
			// Residual too small to be an output; the network keeps it.
			actualFee = fee + change
		}

		built, err := signAndSerialize(plan.priv, inputs, outputs, actualFee, plan.ttl)
		if err != nil {
			return nil, err
		}

		need := plan.feeParams.Estimate(len(built.raw))
		if actualFee >= need {
			built.amount = plan.amount
			built.fee = actualFee
			return built, nil
		}
		fee = need
	}

	return nil, domain.Fundsf("fee estimation did not converge")
}

// buildSweep drains every input into a single output.
func buildSweep(plan paymentPlan) (*builtTx, error) {
	total := coinselect.Sum(plan.utxos)

	fee := plan.feeParams.Estimate(300)
	for round := 0; round < maxFeeRounds; round++ {
		amount := total - fee
		if amount < minOutputLovelace {
			return nil, domain.Fundsf("%w: %d lovelace cannot cover the fee and output minimum",
				domain.ErrInsufficientFunds, total)
		}

		built, err := signAndSerialize(plan.priv,
			plan.utxos, []txOutput{{Address: plan.to, Amount: uint64(amount)}}, fee, plan.ttl)
		if err != nil {
			return nil, err
		}

		need := plan.feeParams.Estimate(len(built.raw))
		if fee >= need {
			built.amount = amount
			built.fee = fee
			return built, nil
		}
		fee = need
	}

	return nil, domain.Fundsf("fee estimation did not converge")
}

// signAndSerialize assembles the body, witnesses it with the payment key
// and returns the wire bytes plus the body hash used as the transaction id.
func signAndSerialize(priv ed25519.PrivateKey, inputs []domain.UTXO, outputs []txOutput, fee int64, ttl uint64) (*builtTx, error) {
	body := txBody{
		Outputs: outputs,
		Fee:     uint64(fee),
		TTL:     ttl,
	}
	for _, u := range inputs {
		txID, err := hex.DecodeString(u.TxID)
		if err != nil {
			return nil, domain.Validationf("invalid txid %q: %v", u.TxID, err)
		}
		body.Inputs = append(body.Inputs, txInput{TxID: txID, Index: u.Vout})
	}

	bodyBytes, err := cbor.Marshal(body)
	if err != nil {
		return nil, domain.Cryptof("encode transaction body: %v", err)
	}

	bodyHash := blake2b.Sum256(bodyBytes)
	signature := ed25519.Sign(priv, bodyHash[:])

	tx := signedTx{
		Body: body,
		Witnesses: witnessSet{
			VKeys: []vkeyWitness{{
				VKey:      priv.Public().(ed25519.PublicKey),
				Signature: signature,
			}},
		},
		IsValid: true,
	}

	raw, err := cbor.Marshal(tx)
	if err != nil {
		return nil, domain.Cryptof("encode transaction: %v", err)
	}

	return &builtTx{
		raw:  raw,
		hash: hex.EncodeToString(bodyHash[:]),
	}, nil
}
