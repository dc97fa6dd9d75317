package frame

import (
	"errors"
	"fmt"
)

// ErrNoColumn indicates a lookup of a column the table does not hold.
var ErrNoColumn = errors.New("no such column")

// ConversionError indicates a raw value that cannot be coerced to the
// target type of its recode.
type ConversionError struct {
	Value  Cell
	Target Type
	Row    int // -1 when converting a lone scalar
	Err    error
}

func (e *ConversionError) Error() string {
	if e.Row >= 0 {
		return fmt.Sprintf("cannot convert %s to %s at row %d: %v", e.Value, e.Target, e.Row, e.Err)
	}
	return fmt.Sprintf("cannot convert %s to %s: %v", e.Value, e.Target, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// ValidationViolation indicates a recoded value outside its admissible set
// or failing its predicate.
type ValidationViolation struct {
	Column string
	Value  Value
	Rule   string
}

func (e *ValidationViolation) Error() string {
	return fmt.Sprintf("column %s: value %v violates rule %s", e.Column, e.Value, e.Rule)
}

// MissingDataError indicates a column or weighted computation with zero
// usable rows.
type MissingDataError struct {
	Column string
	Reason string
}

func (e *MissingDataError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("column %s: no non-missing values", e.Column)
	}
	return fmt.Sprintf("column %s: %s", e.Column, e.Reason)
}

// DegenerateColumnError indicates a numeric column with zero range where a
// range is required.
type DegenerateColumnError struct {
	Column string
	Value  float64
}

func (e *DegenerateColumnError) Error() string {
	return fmt.Sprintf("column %s has zero range (every value is %s)", e.Column, FormatNumber(e.Value))
}

// ConvergenceError indicates an iterative fit that did not converge.
type ConvergenceError struct {
	Iterations int
	Change     float64
	Reason     string
}

func (e *ConvergenceError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("fit did not converge after %d iterations: %s", e.Iterations, e.Reason)
	}
	return fmt.Sprintf("fit did not converge after %d iterations (last change %.3g)", e.Iterations, e.Change)
}
