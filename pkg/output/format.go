// Package output provides utilities for formatting and displaying savings plans.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iwvelando/savings-plan/internal/plan"
	"github.com/iwvelando/savings-plan/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Pretty writes a human-readable rather than machine-readable summary.
func Pretty(w io.Writer, req plan.Request, result plan.Result) error {
	p := message.NewPrinter(language.English)

	lines := []string{
		"--- Savings plan ---",
		p.Sprintf("Goal:            %d", req.RequiredCapital),
		fmt.Sprintf("Current savings: %s", format.Amount(req.CurrentSavings)),
		fmt.Sprintf("Remaining:       %s", format.Amount(result.RemainMoney)),
		fmt.Sprintf("Monthly balance: %s", format.Amount(result.Balance)),
		fmt.Sprintf("Inflation:       %s per year", format.Percent(req.Inflow)),
		"",
		"Scenario  | Years | Rate    | Inflation | Goal with inflation | Monthly saving",
		"________  | _____ | _______ | _________ | ___________________ | ______________",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	for _, scenario := range plan.Scenarios {
		figures := result.Scenario(scenario)
		_, err := fmt.Fprintf(w, "%-9s | %5s | %7s | %9s | %19s | %14s\n",
			scenario,
			p.Sprintf("%d", scenario.Years(req)),
			format.Percent(scenario.RatePercent(req)),
			format.Factor(figures.InflationFactor),
			format.Amount(figures.NeedCapitalWithInflation),
			format.Amount(figures.MonthSave),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// CSV writes one comma-separated row per scenario.
func CSV(w io.Writer, req plan.Request, result plan.Result) error {
	if _, err := fmt.Fprintln(w, `"scenario","years","rate_percent","inflation_factor","need_capital_with_inflation","month_save","remain_money","balance"`); err != nil {
		return err
	}
	for _, scenario := range plan.Scenarios {
		figures := result.Scenario(scenario)
		_, err := fmt.Fprintf(w, `"%s","%d","%v","%s","%s","%s","%s","%s"`+"\n",
			scenario,
			scenario.Years(req),
			scenario.RatePercent(req),
			format.Factor(figures.InflationFactor),
			format.PlainAmount(figures.NeedCapitalWithInflation),
			format.PlainAmount(figures.MonthSave),
			format.PlainAmount(result.RemainMoney),
			format.PlainAmount(result.Balance),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// JSON writes the result document exactly as the HTTP API returns it.
func JSON(w io.Writer, result plan.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}
