package service

import "github.com/shopspring/decimal"

// RoundingPrecision is the number of decimals used for presentation values.
const RoundingPrecision int32 = 2

// round rounds a float64 value to two decimal places for presentation.
// Stored values keep full precision; only view-models are rounded.
//
// Example:
//
//	round(123.456789)  // returns 123.46
//	round(1.994)       // returns 1.99
func round(value float64) float64 {
	return decimal.NewFromFloat(value).Round(RoundingPrecision).InexactFloat64()
}
