package coinselect

import (
	"testing"

	"wallet-service/internal/domain"

	"github.com/stretchr/testify/assert"
)

func utxos(values ...int64) []domain.UTXO {
	out := make([]domain.UTXO, len(values))
	for i, v := range values {
		out[i] = domain.UTXO{TxID: "tx", Vout: uint32(i), Value: v}
	}
	return out
}

func TestSelectAscendingAccumulation(t *testing.T) {
	// 1000 (sum=1000) -> 2000 (sum=3000) -> 5000 (sum=8000, stop).
	sel := Select(utxos(5000, 1000, 2000), 3500)

	assert.Len(t, sel.Inputs, 3)
	assert.Equal(t, int64(8000), sel.Sum)
	assert.True(t, sel.Covers(3500))

	values := []int64{sel.Inputs[0].Value, sel.Inputs[1].Value, sel.Inputs[2].Value}
	assert.Equal(t, []int64{1000, 2000, 5000}, values)
}

func TestSelectStopsAtTarget(t *testing.T) {
	sel := Select(utxos(1000, 2000, 5000), 2500)

	assert.Len(t, sel.Inputs, 2)
	assert.Equal(t, int64(3000), sel.Sum)
}

func TestSelectInsufficientReturnsEverything(t *testing.T) {
	sel := Select(utxos(100, 200), 1000)

	assert.Len(t, sel.Inputs, 2)
	assert.Equal(t, int64(300), sel.Sum)
	assert.False(t, sel.Covers(1000))
}

func TestSelectEmptySet(t *testing.T) {
	sel := Select(nil, 1)

	assert.Empty(t, sel.Inputs)
	assert.Equal(t, int64(0), sel.Sum)
	assert.False(t, sel.Covers(1))
}

func TestSum(t *testing.T) {
	assert.Equal(t, int64(0), Sum(nil))
	assert.Equal(t, int64(8000), Sum(utxos(5000, 1000, 2000)))
}

func TestSelectDoesNotMutateInput(t *testing.T) {
	input := utxos(5000, 1000)
	Select(input, 1)

	assert.Equal(t, int64(5000), input[0].Value)
}
