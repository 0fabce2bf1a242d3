// internal/chains/bitcoin/fee.go
package bitcoin

import "math"

const (
	// P2WPKH virtual-size model: per-input, per-output and fixed overhead.
	inputVBytes    = 68
	outputVBytes   = 31
	overheadVBytes = 10

	// DefaultFeeRate is the sat/vB fallback when no explicit rate is given
	// and the provider is unavailable.
	DefaultFeeRate = 10

	// DustLimit is the smallest change output worth creating, in satoshis.
	DustLimit = 546
)

// VSize estimates the virtual size of a transaction with the given input
// and output counts.
func VSize(inputs, outputs int) int64 {
	return int64(inputVBytes*inputs + outputVBytes*outputs + overheadVBytes)
}

// EstimateFee computes ceil(vsize x rate) in satoshis.
func EstimateFee(inputs, outputs int, satPerVByte float64) int64 {
	return int64(math.Ceil(float64(VSize(inputs, outputs)) * satPerVByte))
}
