package money

import "github.com/shopspring/decimal"

// All balances and amounts in the system are exact fixed-point decimals
// (decimal(18,2) at rest). Policy rates live here so every component applies
// the same constants.
var (
	// PotFeeRate is the platform cut taken off every payout pot (1.5%).
	PotFeeRate = decimal.RequireFromString("0.015")

	// DefaultPenaltyMultiplier marks up a missed contribution before it
	// lands on the defaulter's wallet as debt (5% penalty).
	DefaultPenaltyMultiplier = decimal.RequireFromString("1.05")

	// BlacklistDebtThreshold: debt above this (minor units) auto-blacklists
	// the account.
	BlacklistDebtThreshold = decimal.NewFromInt(500000)
)

// Fee computes the platform fee on a gross pot, rounded to 2 decimal places
// (half away from zero; never binary float).
func Fee(gross decimal.Decimal) decimal.Decimal {
	return gross.Mul(PotFeeRate).Round(2)
}

// Penalty computes the debt booked against a defaulter for a missed
// contribution.
func Penalty(base decimal.Decimal) decimal.Decimal {
	return base.Mul(DefaultPenaltyMultiplier).Round(2)
}

// Split divides a net payout into a withheld (vault) portion and an
// immediately available portion. The two always sum to net exactly.
func Split(net, withholdRate decimal.Decimal) (available, vault decimal.Decimal) {
	vault = net.Mul(withholdRate).Round(2)
	return net.Sub(vault), vault
}
