// Package exact computes the true optimum of a transportation problem with
// a general-purpose linear-programming solver.
//
// The stepping-stone method in package transport stops at the first basis
// with no improving loop, and an iteration cap or a degenerate starting basis
// can leave it short of the global optimum. Solve gives an independent
// reference value and Check reports how far a plan is from it.
//
// The problem is written in standard form for gonum's simplex solver: one
// variable per cell, one equality row per source and one per destination.
// The last destination row is implied by the others when the problem is
// balanced, so it is dropped to keep the constraint matrix at full row rank.
package exact

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/Tafitantsu/Transport-cost/pkg/transport"
)

// ErrUnbalanced is returned when total supply differs from total demand.
var ErrUnbalanced = errors.New("exact: problem is not balanced")

// balanceTol is the accepted difference between total supply and demand.
const balanceTol = 1e-9

// Result is an optimal plan.
type Result struct {
	Cost  float64
	Flows [][]float64 // Flows[i][j] is the quantity shipped from i to j
}

// Solve returns an optimal plan for p.
func Solve(p transport.Problem) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if !p.Balanced(balanceTol) {
		return nil, fmt.Errorf("supply %g, demand %g: %w", floats.Sum(p.Supply), floats.Sum(p.Demand), ErrUnbalanced)
	}

	n, m := len(p.Supply), len(p.Demand)
	vars := n * m
	rows := n + m - 1

	c := make([]float64, vars)
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			c[i*m+j] = p.Costs.At(i, j)
		}
	}

	A := mat.NewDense(rows, vars, nil)
	b := make([]float64, rows)
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			A.Set(i, i*m+j, 1)
		}
		b[i] = p.Supply[i]
	}
	for j := 0; j < m-1; j++ {
		for i := 0; i < n; i++ {
			A.Set(n+j, i*m+j, 1)
		}
		b[n+j] = p.Demand[j]
	}

	opt, x, err := lp.Simplex(c, A, b, 0, nil)
	if err != nil {
		return nil, fmt.Errorf("simplex: %w", err)
	}

	flows := make([][]float64, n)
	for i := range flows {
		flows[i] = x[i*m : (i+1)*m : (i+1)*m]
	}
	return &Result{Cost: opt, Flows: flows}, nil
}

// Report compares a plan with the exact optimum.
type Report struct {
	Optimum float64 `json:"optimum"`
	Cost    float64 `json:"cout_total"`
	Gap     float64 `json:"gap"`
	Optimal bool    `json:"is_optimal"`
}

// Check solves p exactly and compares s against the optimum.
func Check(p transport.Problem, s *transport.Solution) (Report, error) {
	res, err := Solve(p)
	if err != nil {
		return Report{}, err
	}
	return Compare(res.Cost, s), nil
}

// Compare reports how far s is from a known optimum. The plan counts as
// optimal when its cost is within one cent of the optimum, the precision to
// which optimized costs are reported.
func Compare(optimum float64, s *transport.Solution) Report {
	return Report{
		Optimum: optimum,
		Cost:    s.TotalCost,
		Gap:     s.TotalCost - optimum,
		Optimal: scalar.EqualWithinAbsOrRel(s.TotalCost, optimum, 0.01, 1e-9),
	}
}
