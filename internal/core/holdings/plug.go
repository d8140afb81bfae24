package holdings

import "github.com/shopspring/decimal"

// ComputePlug returns the balancing delta that brings a ledger balance in
// line with an independently computed total value. The previous balance is
// read *including* any prior plug entry, so repeated reconciliations converge
// instead of compounding drift.
func ComputePlug(previousLedgerBalance, newTotalValue int64) int64 {
	return newTotalValue - previousLedgerBalance
}

// MarketValue converts a quantity at a unit price (minor units per unit) to
// a currency amount, rounding half away from zero per symbol so repeated
// valuations of the same inputs round identically.
func MarketValue(quantity, unitPrice decimal.Decimal) int64 {
	return quantity.Mul(unitPrice).Round(0).IntPart()
}

// PercentChange returns (new-old)/old as a percentage rounded to two places.
// Zero when there is no prior value to compare against.
func PercentChange(oldValue, newValue int64) decimal.Decimal {
	if oldValue == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(newValue - oldValue).
		Div(decimal.NewFromInt(oldValue)).
		Mul(decimal.NewFromInt(100)).
		Round(2)
}
