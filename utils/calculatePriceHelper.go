package utils

import (
	"github.com/shopspring/decimal"
)

// CalculateDiscountAmount returns the amount to subtract from subTotal for a
// percentage discount. Out-of-range percentages are the caller's problem;
// write-time validation keeps them between 0 and 100.
func CalculateDiscountAmount(subTotal decimal.Decimal, percentage decimal.Decimal) decimal.Decimal {

	decimalOneHundred := decimal.NewFromFloat(100)

	if percentage.GreaterThan(decimal.NewFromFloat(0.0)) {
		return subTotal.Mul(percentage).DivRound(decimalOneHundred, 4)
	}

	return decimal.NewFromFloat(0.0)
}

// CalculateDiscountedPrice applies a percentage discount to a unit price,
// rounded to 2 decimal places to match the persisted currency columns.
func CalculateDiscountedPrice(unitPrice decimal.Decimal, percentage decimal.Decimal) decimal.Decimal {
	return unitPrice.Sub(CalculateDiscountAmount(unitPrice, percentage)).Round(2)
}
