// Package format renders amounts and factors for display.
package format

import (
	"strings"

	"github.com/iwvelando/savings-plan/pkg/constants"
	"github.com/shopspring/decimal"
)

// Round returns value rounded half away from zero to places decimals.
// Rounding the shortest decimal representation avoids binary artifacts
// such as 1234.565 rounding down.
func Round(value float64, places int32) decimal.Decimal {
	return decimal.NewFromFloat(value).Round(places)
}

// Amount returns a monetary amount with thousands separators and cents (e.g., "-1,234.56").
func Amount(amount float64) string {
	rounded := Round(amount, constants.CurrencyPlaces)
	formatted := group(rounded.Abs().StringFixed(constants.CurrencyPlaces))
	if rounded.Sign() < 0 {
		return "-" + formatted
	}
	return formatted
}

// PlainAmount returns a monetary amount with cents and no separators (e.g., "-1234.56").
func PlainAmount(amount float64) string {
	return Round(amount, constants.CurrencyPlaces).StringFixed(constants.CurrencyPlaces)
}

// Factor returns a growth factor to four places (e.g., "1.6289").
func Factor(factor float64) string {
	return Round(factor, constants.FactorPlaces).StringFixed(constants.FactorPlaces)
}

// Percent returns a percentage without trailing zeros (e.g., "7.5%").
func Percent(percent float64) string {
	return decimal.NewFromFloat(percent).String() + "%"
}

func group(value string) string {
	parts := strings.SplitN(value, ".", 2)
	intPart := parts[0]

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	if len(parts) == 2 {
		return intPart + "." + parts[1]
	}
	return intPart
}
