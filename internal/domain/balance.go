// internal/domain/balance.go
package domain

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Balance represents account balance in base units plus a decimal display
// value. Confirmed/Pending are set only when the provider distinguishes
// settled and mempool amounts.
type Balance struct {
	Address   string
	Amount    *big.Int
	Decimals  int
	Decimal   decimal.Decimal
	Confirmed *big.Int
	Pending   *big.Int
}

// NewBalance normalizes a raw base-unit amount into a Balance using the
// chain's base-unit exponent (8, 18, 9 or 6).
func NewBalance(address string, amount *big.Int, decimals int) *Balance {
	return &Balance{
		Address:  address,
		Amount:   amount,
		Decimals: decimals,
		Decimal:  decimal.NewFromBigInt(amount, -int32(decimals)),
	}
}

// WithPending records a confirmed/pending split on top of the settled total.
func (b *Balance) WithPending(confirmed, pending *big.Int) *Balance {
	b.Confirmed = confirmed
	b.Pending = pending
	return b
}
