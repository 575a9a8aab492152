package plan

import (
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/savings-plan/pkg/savings"
	"github.com/iwvelando/savings-plan/pkg/validation"
)

// ErrComputation wraps any failure while assembling a plan that is not
// caused by invalid input.
var ErrComputation = errors.New("failed to compute savings plan")

// Scenario is one of the three planning outlooks.
type Scenario int

const (
	Optimist Scenario = iota
	Base
	Pessimist
)

// Scenarios lists every scenario in output order.
var Scenarios = []Scenario{Optimist, Base, Pessimist}

func (s Scenario) String() string {
	switch s {
	case Optimist:
		return "optimist"
	case Base:
		return "base"
	case Pessimist:
		return "pessimist"
	}
	return fmt.Sprintf("scenario(%d)", int(s))
}

// Years returns the horizon the request sets for s.
func (s Scenario) Years(req Request) int {
	switch s {
	case Optimist:
		return req.OptimistYears
	case Base:
		return req.BaseYear
	}
	return req.PessimistYears
}

// RatePercent returns the annual return rate the request sets for s.
func (s Scenario) RatePercent(req Request) float64 {
	switch s {
	case Optimist:
		return req.OptimistProcent
	case Base:
		return req.BaseProcent
	}
	return req.PessimistProcent
}

// yearsField is the request field holding the horizon of s.
func (s Scenario) yearsField() string {
	switch s {
	case Optimist:
		return "optimist_years"
	case Base:
		return "base_year"
	}
	return "pessimist_years"
}

// BuildPlan computes the savings plan for req. The request is expected to be
// valid; an out-of-range horizon is still reported as a *ValidationError.
func BuildPlan(req Request) (Result, error) {
	result := Result{
		RemainMoney: float64(req.RequiredCapital) - req.CurrentSavings,
		Balance:     req.MonthlyIncome - req.MonthlyExpenses,
	}

	for _, scenario := range Scenarios {
		projection, err := Project(req, scenario)
		if err != nil {
			return Result{}, err
		}
		result.setScenario(projection)
	}

	for _, value := range result.values() {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return Result{}, fmt.Errorf("%w: result is not a finite number", ErrComputation)
		}
	}
	return result, nil
}

// Project computes the figures of a single scenario.
func Project(req Request, scenario Scenario) (ScenarioPlan, error) {
	years := scenario.Years(req)
	rate := scenario.RatePercent(req)

	factor := savings.CompoundFactor(req.Inflow, years)
	target := float64(req.RequiredCapital) * factor

	monthSave, err := savings.SolveMonthlyContribution(target, req.CurrentSavings, rate, years)
	if err != nil {
		if errors.Is(err, savings.ErrInvalidHorizon) {
			return ScenarioPlan{}, &ValidationError{Fields: []validation.FieldError{
				{Field: scenario.yearsField(), Constraint: err.Error()},
			}}
		}
		return ScenarioPlan{}, fmt.Errorf("%w: %s scenario: %v", ErrComputation, scenario, err)
	}

	return ScenarioPlan{
		Scenario:                 scenario,
		Years:                    years,
		RatePercent:              rate,
		InflationFactor:          factor,
		NeedCapitalWithInflation: target,
		MonthSave:                monthSave,
	}, nil
}
