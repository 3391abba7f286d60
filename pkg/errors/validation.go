package errors

import (
	"math"
	"regexp"
	"unicode"

	"gonum.org/v1/gonum/floats"
)

// BalanceTolerance is the largest difference between total supply and total
// demand that ValidateBalance accepts.
const BalanceTolerance = 1e-9

// ValidateTaskName validates a human-readable task name.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - Maximum length of 200 characters
func ValidateTaskName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "task name cannot be empty")
	}

	if len(name) > 200 {
		return New(ErrCodeInvalidInput, "task name too long (max 200 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "task name contains invalid control characters")
		}
	}

	return nil
}

// taskIDRegex matches identifiers that are safe to use as file names.
var taskIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9-]{0,63}$`)

// ValidateTaskID validates a task identifier. IDs double as file names in
// the file store, so only letters, digits and dashes are allowed.
func ValidateTaskID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "task id cannot be empty")
	}
	if !taskIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid task id: %q", id)
	}
	return nil
}

// ValidateQuantities checks a supply or demand vector: it must be non-empty
// and every entry must be a finite, non-negative number.
func ValidateQuantities(label string, values []float64) error {
	if len(values) == 0 {
		return New(ErrCodeInvalidInput, "%s cannot be empty", label)
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return New(ErrCodeInvalidInput, "%s[%d] is not a finite number", label, i)
		}
		if v < 0 {
			return New(ErrCodeInvalidInput, "%s[%d] is negative (%g)", label, i, v)
		}
	}
	return nil
}

// ValidateCosts checks that costs is a rows×cols matrix of finite,
// non-negative numbers.
func ValidateCosts(costs [][]float64, rows, cols int) error {
	if len(costs) != rows {
		return New(ErrCodeDimensionMismatch, "cost matrix has %d rows, want %d (one per supply)", len(costs), rows)
	}
	for i, row := range costs {
		if len(row) != cols {
			return New(ErrCodeDimensionMismatch, "cost row %d has %d columns, want %d (one per demand)", i, len(row), cols)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
				return New(ErrCodeInvalidInput, "cost (%d,%d) must be a finite non-negative number", i, j)
			}
		}
	}
	return nil
}

// ValidateBalance checks that total supply equals total demand within
// BalanceTolerance.
func ValidateBalance(supply, demand []float64) error {
	s, d := floats.Sum(supply), floats.Sum(demand)
	if math.Abs(s-d) > BalanceTolerance {
		return New(ErrCodeUnbalanced, "total supply (%g) must equal total demand (%g)", s, d)
	}
	return nil
}

// ValidateProblem runs every check a transportation problem must pass before
// it reaches the solver.
func ValidateProblem(supply, demand []float64, costs [][]float64) error {
	if err := ValidateQuantities("supply", supply); err != nil {
		return err
	}
	if err := ValidateQuantities("demand", demand); err != nil {
		return err
	}
	if err := ValidateCosts(costs, len(supply), len(demand)); err != nil {
		return err
	}
	return ValidateBalance(supply, demand)
}
