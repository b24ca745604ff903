package valueobject

import "github.com/shopspring/decimal"

// MoneyPlaces is the number of decimal places carried by all monetary values.
// The back office operates in a single currency with cent precision; inputs
// are rounded here before any arithmetic so float drift never reaches the
// ledger.
const MoneyPlaces = 2

// Round2 rounds a raw decimal to cent precision, half away from zero. Every
// amount the ledger stores or compares passes through this first.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}
