// Package numeric centralizes the rounding rules applied whenever money or
// quantity values cross an API or storage boundary: money to 2 decimal
// places, quantities and thresholds to 3.
package numeric

import "github.com/shopspring/decimal"

const (
	moneyScale    = 2
	quantityScale = 3
)

// ScaleMoney rounds a monetary value to 2 decimal places.
// A nil input passes through as nil.
func ScaleMoney(v *decimal.Decimal) *decimal.Decimal {
	if v == nil {
		return nil
	}
	r := v.Round(moneyScale)
	return &r
}

// ScaleQuantity rounds a stock quantity to 3 decimal places.
func ScaleQuantity(v decimal.Decimal) decimal.Decimal {
	return v.Round(quantityScale)
}

// ScaleThreshold rounds a low-stock threshold to 3 decimal places.
// A nil input passes through as nil.
func ScaleThreshold(v *decimal.Decimal) *decimal.Decimal {
	if v == nil {
		return nil
	}
	r := v.Round(quantityScale)
	return &r
}

// Money rounds a required monetary value to 2 decimal places.
func Money(v decimal.Decimal) decimal.Decimal {
	return v.Round(moneyScale)
}
