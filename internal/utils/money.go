package utils

import "github.com/shopspring/decimal"

// Round2 rounds a currency amount to 2 decimal places using half-up rounding.
// All amounts stored in the snapshot go through this helper.
func Round2(amount float64) float64 {
	rounded, _ := decimal.NewFromFloat(amount).Round(2).Float64()
	return rounded
}
