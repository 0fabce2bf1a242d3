// internal/coinselect/coinselect.go

// Package coinselect chooses unspent outputs to fund a transaction. The
// policy is first-fit ascending: outputs are visited smallest first and
// accumulated until the target is covered. It exhausts small outputs early
// and is deliberately not fee-optimal.
package coinselect

import (
	"sort"

	"wallet-service/internal/domain"
)

// Selection holds the chosen inputs and their value sum.
type Selection struct {
	Inputs []domain.UTXO
	Sum    int64
}

// Covers reports whether the selection funds the given target.
func (s *Selection) Covers(target int64) bool {
	return s.Sum >= target
}

// Sum totals the value of a UTXO set.
func Sum(utxos []domain.UTXO) int64 {
	var total int64
	for _, u := range utxos {
		total += u.Value
	}
	return total
}

// Select accumulates UTXOs, smallest value first, until the running sum
// reaches target. When the full set cannot cover the target, every UTXO is
// returned together with the short sum; the caller decides whether that is
// an insufficient-funds condition. Select itself never fails.
func Select(utxos []domain.UTXO, target int64) *Selection {
	candidates := make([]domain.UTXO, len(utxos))
	copy(candidates, utxos)

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Value < candidates[j].Value
	})

	sel := &Selection{}
	for _, utxo := range candidates {
		sel.Inputs = append(sel.Inputs, utxo)
		sel.Sum += utxo.Value
		if sel.Sum >= target {
			break
		}
	}

	return sel
}
