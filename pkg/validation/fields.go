package validation

import (
	"fmt"
	"math"
	"regexp"

	"github.com/iwvelando/savings-plan/pkg/mathutil"
)

// FieldError names a field and the constraint its value violates.
type FieldError struct {
	Field      string `json:"field"`
	Constraint string `json:"constraint"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Constraint)
}

// Each check below returns nil when the value satisfies the constraint.

// Required fails when a field is absent.
func Required(field string, present bool) *FieldError {
	if present {
		return nil
	}
	return &FieldError{Field: field, Constraint: "field required"}
}

// NonNegative fails for values below zero (and NaN).
func NonNegative(field string, value float64) *FieldError {
	if value >= 0 {
		return nil
	}
	return &FieldError{Field: field, Constraint: "must be greater than or equal to 0"}
}

// Between fails for values outside [min, max] (and NaN).
func Between(field string, value, min, max float64) *FieldError {
	if value >= min && value <= max {
		return nil
	}
	return &FieldError{Field: field, Constraint: fmt.Sprintf("must be between %g and %g", min, max)}
}

// AtLeast fails for integers below min.
func AtLeast(field string, value, min int) *FieldError {
	if value >= min {
		return nil
	}
	return &FieldError{Field: field, Constraint: fmt.Sprintf("must be greater than or equal to %d", min)}
}

// IntBetween fails for integers outside [min, max].
func IntBetween(field string, value, min, max int) *FieldError {
	if value >= min && value <= max {
		return nil
	}
	return &FieldError{Field: field, Constraint: fmt.Sprintf("must be between %d and %d", min, max)}
}

// maxExactInteger is the largest integer a float64 represents exactly.
const maxExactInteger = 1 << 53

// Integer fails for values with a fractional part or beyond exact float64 integers.
func Integer(field string, value float64) *FieldError {
	if mathutil.IsIntegral(value) && math.Abs(value) <= maxExactInteger {
		return nil
	}
	return &FieldError{Field: field, Constraint: "must be an integer"}
}

// Matches fails when value does not match pattern; hint describes the expected form.
func Matches(field, value string, pattern *regexp.Regexp, hint string) *FieldError {
	if pattern.MatchString(value) {
		return nil
	}
	return &FieldError{Field: field, Constraint: fmt.Sprintf("must be in the format %s, got %q", hint, value)}
}

// Collect drops passing checks and returns the failures in order.
func Collect(checks ...*FieldError) []FieldError {
	var failures []FieldError
	for _, check := range checks {
		if check != nil {
			failures = append(failures, *check)
		}
	}
	return failures
}
