package plan

// Result is the savings plan computed for a Request.
type Result struct {
	// RemainMoney is RequiredCapital minus CurrentSavings. It is negative
	// when current savings already exceed the goal.
	RemainMoney float64 `json:"remain_money"`
	// Balance is monthly income minus monthly expenses and may be negative.
	Balance float64 `json:"balance"`

	MonthSaveOptimist  float64 `json:"month_save_optimist"`
	MonthSaveBase      float64 `json:"month_save_base"`
	MonthSavePessimist float64 `json:"month_save_pessimist"`

	NeedCapitalWithInflationOptimist  float64 `json:"need_capital_with_inflation_optimist"`
	NeedCapitalWithInflationBase      float64 `json:"need_capital_with_inflation_base"`
	NeedCapitalWithInflationPessimist float64 `json:"need_capital_with_inflation_pessimist"`

	InflationFullPeriodOptimist  float64 `json:"inflation_full_period_optimist"`
	InflationFullPeriodBase      float64 `json:"inflation_full_period_base"`
	InflationFullPeriodPessimist float64 `json:"inflation_full_period_pessimist"`
}

// ScenarioPlan holds the figures of a single scenario.
type ScenarioPlan struct {
	Scenario                 Scenario
	Years                    int
	RatePercent              float64
	InflationFactor          float64
	NeedCapitalWithInflation float64
	MonthSave                float64
}

// Scenario returns the figures recorded for s. Years and RatePercent are
// not part of Result and are left zero.
func (r Result) Scenario(s Scenario) ScenarioPlan {
	out := ScenarioPlan{Scenario: s}
	switch s {
	case Optimist:
		out.InflationFactor = r.InflationFullPeriodOptimist
		out.NeedCapitalWithInflation = r.NeedCapitalWithInflationOptimist
		out.MonthSave = r.MonthSaveOptimist
	case Base:
		out.InflationFactor = r.InflationFullPeriodBase
		out.NeedCapitalWithInflation = r.NeedCapitalWithInflationBase
		out.MonthSave = r.MonthSaveBase
	case Pessimist:
		out.InflationFactor = r.InflationFullPeriodPessimist
		out.NeedCapitalWithInflation = r.NeedCapitalWithInflationPessimist
		out.MonthSave = r.MonthSavePessimist
	}
	return out
}

func (r *Result) setScenario(p ScenarioPlan) {
	switch p.Scenario {
	case Optimist:
		r.InflationFullPeriodOptimist = p.InflationFactor
		r.NeedCapitalWithInflationOptimist = p.NeedCapitalWithInflation
		r.MonthSaveOptimist = p.MonthSave
	case Base:
		r.InflationFullPeriodBase = p.InflationFactor
		r.NeedCapitalWithInflationBase = p.NeedCapitalWithInflation
		r.MonthSaveBase = p.MonthSave
	case Pessimist:
		r.InflationFullPeriodPessimist = p.InflationFactor
		r.NeedCapitalWithInflationPessimist = p.NeedCapitalWithInflation
		r.MonthSavePessimist = p.MonthSave
	}
}

func (r Result) values() []float64 {
	return []float64{
		r.RemainMoney, r.Balance,
		r.MonthSaveOptimist, r.MonthSaveBase, r.MonthSavePessimist,
		r.NeedCapitalWithInflationOptimist, r.NeedCapitalWithInflationBase, r.NeedCapitalWithInflationPessimist,
		r.InflationFullPeriodOptimist, r.InflationFullPeriodBase, r.InflationFullPeriodPessimist,
	}
}
