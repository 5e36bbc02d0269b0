package service

import "github.com/shopspring/decimal"

// fiatScale is the number of fractional digits of the destination currency's
// minor unit. All conversions round half-even to this scale; this is the only
// place a conversion result is ever rounded.
const fiatScale = 2

// RateConverter converts source-currency amounts into destination-currency
// amounts using a fixed, process-wide exchange rate.
type RateConverter struct {
	rate decimal.Decimal
}

// NewRateConverter creates a converter for the given rate
func NewRateConverter(rate decimal.Decimal) *RateConverter {
	return &RateConverter{rate: rate}
}

// Convert returns amount * rate, rounded half-even to the fiat minor unit.
// Callers guarantee amount is strictly positive.
func (rc *RateConverter) Convert(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(rc.rate).RoundBank(fiatScale)
}

// Rate returns the configured exchange rate
func (rc *RateConverter) Rate() decimal.Decimal {
	return rc.rate
}
