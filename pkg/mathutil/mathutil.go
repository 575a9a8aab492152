// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/savings-plan/pkg/constants"
)

// ClampNonNegative returns val, or 0 when val is negative.
func ClampNonNegative(val float64) float64 {
	if val < 0 {
		return 0
	}
	return val
}

// PercentToDecimal converts a percentage (5 for 5%) to its decimal form.
func PercentToDecimal(percent float64) float64 {
	return percent / constants.PercentageMultiplier
}

// IsIntegral reports whether val has no fractional part.
func IsIntegral(val float64) bool {
	return !math.IsInf(val, 0) && val == math.Trunc(val)
}
