package odds

import (
	"fmt"

	crerr "github.com/cockroachdb/errors"
)

var ErrInvalidPrice = crerr.New("invalid decimal odds")

// ImpliedProbabilities removes the bookmaker margin from a complete set of
// prices: each inverse price is divided by the overround. At least two
// prices are required and every price must be a finite number above 1.
func ImpliedProbabilities(prices []float64) ([]float64, error) {
	if len(prices) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 prices, got %d", ErrInvalidPrice, len(prices))
	}

	out := make([]float64, len(prices))
	overround := 0.0
	for i, price := range prices {
		if !ValidPrice(price) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPrice, price)
		}
		out[i] = 1 / price
		overround += out[i]
	}
	for i := range out {
		out[i] /= overround
	}
	return out, nil
}

// Overround is Σ 1/price; above 1 for a bookmaker's priced market.
func Overround(prices []float64) float64 {
	sum := 0.0
	for _, price := range prices {
		sum += 1 / price
	}
	return sum
}
