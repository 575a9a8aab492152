// Package plan defines the savings plan request and result contracts and
// assembles a plan across the optimist, base and pessimist scenarios.
package plan

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/savings-plan/pkg/constants"
	"github.com/iwvelando/savings-plan/pkg/validation"
)

// Request describes a savings goal and the three scenarios to plan it under.
type Request struct {
	RequiredCapital     int64   `json:"required_capital"`
	CurrentSavings      float64 `json:"current_savings"`
	OptimistYears       int     `json:"optimist_years"`
	BaseYear            int     `json:"base_year"`
	PessimistYears      int     `json:"pessimist_years"`
	Inflow              float64 `json:"inflow"`                // annual inflation, percent
	IncomeFromInvesting float64 `json:"income_from_investing"` // legacy, validated but unused
	MonthlyIncome       float64 `json:"monthly_income"`
	MonthlyExpenses     float64 `json:"monthly_expenses"`
	OptimistProcent     float64 `json:"optimist_procent"`
	BaseProcent         float64 `json:"base_procent"`
	PessimistProcent    float64 `json:"pessimist_procent"`
}

// Canonical returns r with negative zeros replaced by zero. Both compare
// equal but encode differently.
func (r Request) Canonical() Request {
	for _, field := range []*float64{
		&r.CurrentSavings, &r.Inflow, &r.IncomeFromInvesting, &r.MonthlyIncome,
		&r.MonthlyExpenses, &r.OptimistProcent, &r.BaseProcent, &r.PessimistProcent,
	} {
		if *field == 0 {
			*field = 0
		}
	}
	return r
}

// ValidationError lists every request field that failed validation.
type ValidationError struct {
	Fields []validation.FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, field := range e.Fields {
		parts = append(parts, field.Error())
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// Validate checks every field against its declared domain.
func (r Request) Validate() error {
	failures := validation.Collect(r.rangeChecks()...)
	if len(failures) > 0 {
		return &ValidationError{Fields: failures}
	}
	return nil
}

func (r Request) rangeChecks() []*validation.FieldError {
	return []*validation.FieldError{
		validation.NonNegative("required_capital", float64(r.RequiredCapital)),
		validation.NonNegative("current_savings", r.CurrentSavings),
		validation.AtLeast("optimist_years", r.OptimistYears, constants.MinHorizonYears),
		validation.AtLeast("base_year", r.BaseYear, constants.MinHorizonYears),
		validation.AtLeast("pessimist_years", r.PessimistYears, constants.MinHorizonYears),
		validation.NonNegative("inflow", r.Inflow),
		validation.NonNegative("income_from_investing", r.IncomeFromInvesting),
		validation.NonNegative("monthly_income", r.MonthlyIncome),
		validation.NonNegative("monthly_expenses", r.MonthlyExpenses),
		validation.Between("optimist_procent", r.OptimistProcent, 0, constants.MaxPercentage),
		validation.Between("base_procent", r.BaseProcent, 0, constants.MaxPercentage),
		validation.Between("pessimist_procent", r.PessimistProcent, 0, constants.MaxPercentage),
	}
}

// wireRequest mirrors Request with every field optional so that missing
// and mistyped fields can be reported by name.
type wireRequest struct {
	RequiredCapital     *json.Number `json:"required_capital"`
	CurrentSavings      *json.Number `json:"current_savings"`
	OptimistYears       *json.Number `json:"optimist_years"`
	BaseYear            *json.Number `json:"base_year"`
	PessimistYears      *json.Number `json:"pessimist_years"`
	Inflow              *json.Number `json:"inflow"`
	IncomeFromInvesting *json.Number `json:"income_from_investing"`
	MonthlyIncome       *json.Number `json:"monthly_income"`
	MonthlyExpenses     *json.Number `json:"monthly_expenses"`
	OptimistProcent     *json.Number `json:"optimist_procent"`
	BaseProcent         *json.Number `json:"base_procent"`
	PessimistProcent    *json.Number `json:"pessimist_procent"`
}

// DecodeRequest reads a JSON request document and validates it. Problems
// with the document itself are reported as a *ValidationError; failures to
// read the body are returned unchanged.
func DecodeRequest(r io.Reader) (Request, error) {
	d := decoder{}

	var wire wireRequest
	dec := json.NewDecoder(r)
	if err := dec.Decode(&wire); err != nil {
		var typeErr *json.UnmarshalTypeError
		var syntaxErr *json.SyntaxError
		switch {
		case errors.As(err, &typeErr) && typeErr.Field != "":
			// The decoder still fills the remaining fields.
			d.fail(&validation.FieldError{Field: typeErr.Field, Constraint: "must be a number"})
		case errors.Is(err, io.EOF):
			return Request{}, &ValidationError{Fields: []validation.FieldError{
				{Field: "body", Constraint: "request body is empty"},
			}}
		case errors.As(err, &syntaxErr), errors.As(err, &typeErr),
			errors.Is(err, io.ErrUnexpectedEOF), strings.HasPrefix(err.Error(), "json: "):
			return Request{}, &ValidationError{Fields: []validation.FieldError{
				{Field: "body", Constraint: fmt.Sprintf("malformed JSON: %v", err)},
			}}
		default:
			return Request{}, fmt.Errorf("failed to read request: %w", err)
		}
	}

	if err := expectEnd(dec); err != nil {
		return Request{}, err
	}

	req := Request{
		RequiredCapital:     int64(d.integer("required_capital", wire.RequiredCapital)),
		CurrentSavings:      d.number("current_savings", wire.CurrentSavings),
		OptimistYears:       int(d.integer("optimist_years", wire.OptimistYears)),
		BaseYear:            int(d.integer("base_year", wire.BaseYear)),
		PessimistYears:      int(d.integer("pessimist_years", wire.PessimistYears)),
		Inflow:              d.number("inflow", wire.Inflow),
		IncomeFromInvesting: d.number("income_from_investing", wire.IncomeFromInvesting),
		MonthlyIncome:       d.number("monthly_income", wire.MonthlyIncome),
		MonthlyExpenses:     d.number("monthly_expenses", wire.MonthlyExpenses),
		OptimistProcent:     d.number("optimist_procent", wire.OptimistProcent),
		BaseProcent:         d.number("base_procent", wire.BaseProcent),
		PessimistProcent:    d.number("pessimist_procent", wire.PessimistProcent),
	}

	// Range checks only apply to fields that decoded cleanly.
	for _, check := range req.rangeChecks() {
		if check != nil && !d.failed[check.Field] {
			d.failures = append(d.failures, *check)
		}
	}

	if len(d.failures) > 0 {
		d.sort()
		return Request{}, &ValidationError{Fields: d.failures}
	}
	return req, nil
}

// expectEnd fails when anything but whitespace follows the request object.
func expectEnd(dec *json.Decoder) error {
	_, err := dec.Token()
	var syntaxErr *json.SyntaxError
	switch {
	case errors.Is(err, io.EOF):
		return nil
	case err == nil, errors.As(err, &syntaxErr):
		return &ValidationError{Fields: []validation.FieldError{
			{Field: "body", Constraint: "malformed JSON: unexpected data after the request object"},
		}}
	}
	return fmt.Errorf("failed to read request: %w", err)
}

// decoder accumulates per-field decoding failures.
type decoder struct {
	failures []validation.FieldError
	failed   map[string]bool
}

func (d *decoder) fail(err *validation.FieldError) {
	if d.failed == nil {
		d.failed = make(map[string]bool)
	}
	d.failures = append(d.failures, *err)
	d.failed[err.Field] = true
}

func (d *decoder) number(field string, raw *json.Number) float64 {
	if d.failed[field] {
		return 0
	}
	if err := validation.Required(field, raw != nil); err != nil {
		d.fail(err)
		return 0
	}
	value, err := raw.Float64()
	if err != nil {
		d.fail(&validation.FieldError{Field: field, Constraint: "must be a number"})
		return 0
	}
	return value
}

func (d *decoder) integer(field string, raw *json.Number) float64 {
	value := d.number(field, raw)
	if d.failed[field] {
		return 0
	}
	if err := validation.Integer(field, value); err != nil {
		d.fail(err)
		return 0
	}
	return value
}

// sort orders failures the way fields are declared on Request.
func (d *decoder) sort() {
	sorted := make([]validation.FieldError, 0, len(d.failures))
	for _, name := range fieldOrder {
		for _, failure := range d.failures {
			if failure.Field == name {
				sorted = append(sorted, failure)
			}
		}
	}
	d.failures = sorted
}

var fieldOrder = []string{
	"required_capital",
	"current_savings",
	"optimist_years",
	"base_year",
	"pessimist_years",
	"inflow",
	"income_from_investing",
	"monthly_income",
	"monthly_expenses",
	"optimist_procent",
	"base_procent",
	"pessimist_procent",
}
