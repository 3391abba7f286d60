package errors

import (
	"math"
	"strings"
	"testing"
)

func TestValidateTaskName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "Warehouses Q3", false},
		{"valid unicode", "Entrepôts Antananarivo", false},

		{"empty", "", true},
		{"too long", strings.Repeat("x", 201), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTaskName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTaskName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateTaskID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"uuid", "3f2b8c1e-7a9d-4e2f-9c6b-0d1e2f3a4b5c", false},
		{"short", "t1", false},

		{"empty", "", true},
		{"path traversal", "../etc/passwd", true},
		{"slash", "a/b", true},
		{"leading dash", "-abc", true},
		{"too long", strings.Repeat("a", 65), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTaskID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTaskID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateProblem(t *testing.T) {
	tests := []struct {
		name     string
		supply   []float64
		demand   []float64
		costs    [][]float64
		wantCode Code
	}{
		{
			name:   "valid",
			supply: []float64{50, 60, 40},
			demand: []float64{30, 70, 50},
			costs:  [][]float64{{2, 3, 4}, {3, 2, 5}, {4, 3, 2}},
		},
		{
			name:     "empty supply",
			demand:   []float64{1},
			costs:    [][]float64{},
			wantCode: ErrCodeInvalidInput,
		},
		{
			name:     "negative demand",
			supply:   []float64{1},
			demand:   []float64{-1},
			costs:    [][]float64{{1}},
			wantCode: ErrCodeInvalidInput,
		},
		{
			name:     "nan supply",
			supply:   []float64{math.NaN()},
			demand:   []float64{1},
			costs:    [][]float64{{1}},
			wantCode: ErrCodeInvalidInput,
		},
		{
			name:     "too few rows",
			supply:   []float64{1, 1},
			demand:   []float64{2},
			costs:    [][]float64{{1}},
			wantCode: ErrCodeDimensionMismatch,
		},
		{
			name:     "ragged row",
			supply:   []float64{1, 1},
			demand:   []float64{1, 1},
			costs:    [][]float64{{1, 2}, {3}},
			wantCode: ErrCodeDimensionMismatch,
		},
		{
			name:     "negative cost",
			supply:   []float64{1},
			demand:   []float64{1},
			costs:    [][]float64{{-4}},
			wantCode: ErrCodeInvalidInput,
		},
		{
			name:     "unbalanced",
			supply:   []float64{10, 20},
			demand:   []float64{15},
			costs:    [][]float64{{1}, {2}},
			wantCode: ErrCodeUnbalanced,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProblem(tt.supply, tt.demand, tt.costs)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("ValidateProblem() error = %v, want nil", err)
				}
				return
			}
			if got := GetCode(err); got != tt.wantCode {
				t.Errorf("GetCode() = %v, want %v (err: %v)", got, tt.wantCode, err)
			}
		})
	}
}

func TestValidateBalanceTolerance(t *testing.T) {
	if err := ValidateBalance([]float64{0.1, 0.2}, []float64{0.3}); err != nil {
		t.Errorf("ValidateBalance() = %v, want nil for float rounding", err)
	}
	if err := ValidateBalance([]float64{1}, []float64{1.001}); !Is(err, ErrCodeUnbalanced) {
		t.Errorf("ValidateBalance() = %v, want UNBALANCED", err)
	}
}
