package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// EqualShares divides total evenly among n participants, to the cent.
//
// Each participant gets floor(cents / n); the leftover cents are handed out
// one each to the first participants, so the shares always sum to total.
func EqualShares(total decimal.Decimal, n int) ([]decimal.Decimal, error) {
	if n <= 0 {
		return nil, fmt.Errorf("must have at least one participant")
	}
	if total.IsNegative() {
		return nil, fmt.Errorf("total cannot be negative: %s", total.StringFixed(2))
	}

	cents := total.Mul(hundred).Round(0).IntPart()
	base := cents / int64(n)
	remainder := cents % int64(n)

	shares := make([]decimal.Decimal, n)
	for i := range shares {
		c := base
		if int64(i) < remainder {
			c++
		}
		shares[i] = decimal.New(c, -2)
	}
	return shares, nil
}
