// Package savings provides the inflation and amortized-contribution formulas
// behind a savings plan.
package savings

import (
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/savings-plan/pkg/constants"
	"github.com/iwvelando/savings-plan/pkg/mathutil"
)

var (
	// ErrInvalidHorizon is returned when a savings horizon is shorter than one year.
	ErrInvalidHorizon = errors.New("years must be positive")

	// ErrDivisionByZero is returned when a zero-rate plan has no periods to spread the shortfall over.
	ErrDivisionByZero = errors.New("cannot calculate savings with zero rate and zero months")
)

// CompoundFactor calculates the compound growth factor of an annual rate
// (a percentage, 5 for 5%) over the given number of years.
func CompoundFactor(ratePercent float64, years int) float64 {
	return math.Pow(1+mathutil.PercentToDecimal(ratePercent), float64(years))
}

// SolveMonthlyContribution calculates the level monthly contribution that,
// together with presentValue compounding monthly at annualRatePercent,
// reaches targetFutureValue after the given number of years. The result is
// never negative: savings that already cover the target need no contribution.
func SolveMonthlyContribution(targetFutureValue, presentValue, annualRatePercent float64, years int) (float64, error) {
	if years < constants.MinHorizonYears {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidHorizon, years)
	}

	monthlyRate := annualRatePercent / (constants.PercentageMultiplier * constants.MonthsPerYear)
	totalMonths := years * constants.MonthsPerYear

	presentFutureValue := presentValue * math.Pow(1+monthlyRate, float64(totalMonths))
	shortfall := targetFutureValue - presentFutureValue

	if monthlyRate == 0 {
		if totalMonths == 0 {
			return 0, ErrDivisionByZero
		}
		return mathutil.ClampNonNegative(shortfall / float64(totalMonths)), nil
	}

	growth := math.Pow(1+monthlyRate, float64(totalMonths)) - 1
	return mathutil.ClampNonNegative(shortfall * monthlyRate / growth), nil
}

// FutureValueOfContributions is the balance reached by depositing payment at
// the end of every month for the given number of years, starting from
// presentValue. It inverts SolveMonthlyContribution.
func FutureValueOfContributions(payment, presentValue, annualRatePercent float64, years int) float64 {
	monthlyRate := annualRatePercent / (constants.PercentageMultiplier * constants.MonthsPerYear)
	totalMonths := float64(years * constants.MonthsPerYear)

	if monthlyRate == 0 {
		return presentValue + payment*totalMonths
	}

	power := math.Pow(1+monthlyRate, totalMonths)
	return presentValue*power + payment*(power-1)/monthlyRate
}
