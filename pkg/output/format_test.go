package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/iwvelando/savings-plan/internal/plan"
)

func exampleRequest() plan.Request {
	return plan.Request{
		RequiredCapital:  1000000,
		CurrentSavings:   250000,
		OptimistYears:    5,
		BaseYear:         10,
		PessimistYears:   15,
		Inflow:           2.5,
		MonthlyIncome:    5000,
		MonthlyExpenses:  3200,
		OptimistProcent:  10,
		BaseProcent:      7,
		PessimistProcent: 4,
	}
}

func examplePlan(t *testing.T) (plan.Request, plan.Result) {
	t.Helper()

	req := exampleRequest()
	result, err := plan.BuildPlan(req)
	if err != nil {
		t.Fatalf("BuildPlan() error = %v", err)
	}
	return req, result
}

func TestPretty(t *testing.T) {
	req, result := examplePlan(t)

	var buf bytes.Buffer
	if err := Pretty(&buf, req, result); err != nil {
		t.Fatalf("Pretty() error = %v", err)
	}
	output := buf.String()

	expected := []string{
		"--- Savings plan ---",
		"Goal:            1,000,000",
		"Current savings: 250,000.00",
		"Remaining:       750,000.00",
		"Monthly balance: 1,800.00",
		"Inflation:       2.5% per year",
		"Scenario  | Years | Rate    | Inflation | Goal with inflation | Monthly saving",
		"optimist ",
		"pessimist",
		"7%",
	}
	for _, element := range expected {
		if !strings.Contains(output, element) {
			t.Errorf("Pretty output missing %q:\n%s", element, output)
		}
	}

	if lines := strings.Split(strings.TrimSpace(output), "\n"); len(lines) != 12 {
		t.Errorf("expected 12 lines, got %d:\n%s", len(lines), output)
	}
}

func TestPrettyNegativeRemainder(t *testing.T) {
	req := exampleRequest()
	req.CurrentSavings = 1500000
	result, err := plan.BuildPlan(req)
	if err != nil {
		t.Fatalf("BuildPlan() error = %v", err)
	}

	var buf bytes.Buffer
	if err := Pretty(&buf, req, result); err != nil {
		t.Fatalf("Pretty() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Remaining:       -500,000.00") {
		t.Errorf("expected signed remainder, got:\n%s", buf.String())
	}
}

func TestCSV(t *testing.T) {
	req := plan.Request{
		RequiredCapital: 1000000,
		OptimistYears:   5,
		BaseYear:        10,
		PessimistYears:  15,
	}
	result, err := plan.BuildPlan(req)
	if err != nil {
		t.Fatalf("BuildPlan() error = %v", err)
	}

	var buf bytes.Buffer
	if err := CSV(&buf, req, result); err != nil {
		t.Fatalf("CSV() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], `"scenario","years"`) {
		t.Errorf("unexpected header %s", lines[0])
	}

	expected := []string{
		`"optimist","5","0","1.0000","1000000.00","16666.67","1000000.00","0.00"`,
		`"base","10","0","1.0000","1000000.00","8333.33","1000000.00","0.00"`,
		`"pessimist","15","0","1.0000","1000000.00","5555.56","1000000.00","0.00"`,
	}
	for i, row := range expected {
		if lines[i+1] != row {
			t.Errorf("row %d = %s, expected %s", i+1, lines[i+1], row)
		}
	}
}

func TestJSONMatchesAPIDocument(t *testing.T) {
	_, result := examplePlan(t)

	var buf bytes.Buffer
	if err := JSON(&buf, result); err != nil {
		t.Fatalf("JSON() error = %v", err)
	}

	var decoded plan.Result
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode output: %v", err)
	}
	if decoded != result {
		t.Errorf("decoded %+v, expected %+v", decoded, result)
	}
}
