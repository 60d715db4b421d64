package omise

import (
	"github.com/shopspring/decimal"
)

const DefaultMinimumAmount int64 = 2000

var hundred = decimal.NewFromInt(100)

// ToMinorUnits converts a major-unit amount into minor units, rounded half-up and raised to minimum
func ToMinorUnits(amount float64, minimum int64) int64 {
	minor := decimal.NewFromFloat(amount).Mul(hundred).Round(0).IntPart()
	if minor < minimum {
		return minimum
	}
	return minor
}

func FromMinorUnits(minor int64) float64 {
	return decimal.NewFromInt(minor).Div(hundred).InexactFloat64()
}
