package transport

import (
	"fmt"
	"math"
)

// Matrix is an immutable dense cost matrix stored in row-major order.
//
// The zero value is an empty 0×0 matrix. Use [NewMatrix] to build one from
// nested slices; the input is copied, so later changes to it do not affect
// the Matrix.
type Matrix struct {
	rows, cols int
	data       []float64 // offset = i*cols + j
}

// NewMatrix copies rows into a Matrix.
//
// It returns an error wrapping [ErrRaggedMatrix] if the rows differ in
// length, [ErrNonFinite] for NaN or ±Inf entries, and [ErrNegativeValue] for
// negative costs. An empty input, or rows of length zero, wraps
// [ErrEmptyProblem].
func NewMatrix(rows [][]float64) (Matrix, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return Matrix{}, fmt.Errorf("cost matrix: %w", ErrEmptyProblem)
	}
	cols := len(rows[0])
	m := Matrix{rows: len(rows), cols: cols, data: make([]float64, len(rows)*cols)}
	for i, row := range rows {
		if len(row) != cols {
			return Matrix{}, fmt.Errorf("cost row %d has %d columns, want %d: %w", i, len(row), cols, ErrRaggedMatrix)
		}
		for j, v := range row {
			if err := checkValue(v); err != nil {
				return Matrix{}, fmt.Errorf("cost (%d,%d): %w", i, j, err)
			}
			m.data[i*cols+j] = v
		}
	}
	return m, nil
}

// MustMatrix is like [NewMatrix] but panics on error. It is intended for
// tests and examples with literal data.
func MustMatrix(rows [][]float64) Matrix {
	m, err := NewMatrix(rows)
	if err != nil {
		panic(err)
	}
	return m
}

// Rows returns the number of sources.
func (m Matrix) Rows() int { return m.rows }

// Cols returns the number of destinations.
func (m Matrix) Cols() int { return m.cols }

// At returns the unit cost of shipping from source i to destination j.
// It panics if (i, j) is out of range, like a slice index.
func (m Matrix) At(i, j int) float64 {
	return m.data[i*m.cols+j]
}

// ToRows returns a nested-slice copy of the matrix.
func (m Matrix) ToRows() [][]float64 {
	out := make([][]float64, m.rows)
	for i := range out {
		out[i] = append([]float64(nil), m.data[i*m.cols:(i+1)*m.cols]...)
	}
	return out
}

func checkValue(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ErrNonFinite
	}
	if v < 0 {
		return ErrNegativeValue
	}
	return nil
}
