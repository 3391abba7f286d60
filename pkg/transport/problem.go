package transport

import (
	"fmt"
	"math"
	"strings"
)

// Method selects the initial-solution generator used by [Generate].
type Method string

const (
	// MethodCorner is the northwest-corner rule ([NorthwestCorner]).
	MethodCorner Method = "corner"
	// MethodPenalty is the penalty (Vogel approximation) method ([Penalty]).
	MethodPenalty Method = "penalty"
)

// methodAliases maps accepted spellings to canonical methods. "cno" and
// "hammer" are the names used by the original task records.
var methodAliases = map[string]Method{
	"corner":    MethodCorner,
	"northwest": MethodCorner,
	"nw":        MethodCorner,
	"cno":       MethodCorner,
	"penalty":   MethodPenalty,
	"vogel":     MethodPenalty,
	"vam":       MethodPenalty,
	"hammer":    MethodPenalty,
}

// ParseMethod resolves a method name or alias, case-insensitively.
func ParseMethod(s string) (Method, error) {
	if m, ok := methodAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return m, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownMethod)
}

// Status describes how a [Solution] was reached.
type Status string

const (
	// StatusInitial marks a plan produced by an initial-solution generator.
	StatusInitial Status = "initial"
	// StatusOptimal marks a plan where no closed loop has a negative cost
	// delta.
	StatusOptimal Status = "optimal"
	// StatusIterationCap marks a plan returned because the optimizer ran out
	// of rounds. It is the best plan found, but optimality was not proven.
	StatusIterationCap Status = "iteration-cap"
)

// Problem is a transportation problem: supplies, demands and unit costs.
type Problem struct {
	Supply []float64
	Demand []float64
	Costs  Matrix
}

// NewProblem validates the shapes and values of supply, demand and costs and
// returns a Problem holding private copies of them. It does not check that
// the problem is balanced.
func NewProblem(supply, demand []float64, costs [][]float64) (Problem, error) {
	if len(supply) == 0 || len(demand) == 0 {
		return Problem{}, ErrEmptyProblem
	}
	for i, v := range supply {
		if err := checkValue(v); err != nil {
			return Problem{}, fmt.Errorf("supply %d: %w", i, err)
		}
	}
	for j, v := range demand {
		if err := checkValue(v); err != nil {
			return Problem{}, fmt.Errorf("demand %d: %w", j, err)
		}
	}
	m, err := NewMatrix(costs)
	if err != nil {
		return Problem{}, err
	}
	p := Problem{
		Supply: append([]float64(nil), supply...),
		Demand: append([]float64(nil), demand...),
		Costs:  m,
	}
	if err := p.Validate(); err != nil {
		return Problem{}, err
	}
	return p, nil
}

// Validate checks that the cost matrix has len(Supply) rows and len(Demand)
// columns. It does not check balance.
func (p Problem) Validate() error {
	if len(p.Supply) == 0 || len(p.Demand) == 0 {
		return ErrEmptyProblem
	}
	if p.Costs.Rows() != len(p.Supply) || p.Costs.Cols() != len(p.Demand) {
		return fmt.Errorf("costs are %dx%d, want %dx%d: %w",
			p.Costs.Rows(), p.Costs.Cols(), len(p.Supply), len(p.Demand), ErrDimensionMismatch)
	}
	return nil
}

// Balanced reports whether total supply equals total demand within tol.
func (p Problem) Balanced(tol float64) bool {
	return math.Abs(sum(p.Supply)-sum(p.Demand)) <= tol
}

// Solution is a transportation plan and its cost.
type Solution struct {
	Allocation *Tableau
	TotalCost  float64
	Status     Status
	Rounds     int // optimizer rounds that performed a pivot
}

// Clone returns a deep copy of s.
func (s *Solution) Clone() *Solution {
	c := *s
	if s.Allocation != nil {
		c.Allocation = s.Allocation.Clone()
	}
	return &c
}

// Generate builds an initial feasible solution with the given method.
func Generate(p Problem, method Method, opts ...Option) (*Solution, error) {
	switch method {
	case MethodCorner:
		return NorthwestCorner(p, opts...)
	case MethodPenalty:
		return Penalty(p, opts...)
	}
	return nil, fmt.Errorf("%q: %w", method, ErrUnknownMethod)
}

// Option configures a single solver call.
type Option func(*config)

type config struct {
	observer  Observer
	maxRounds int
}

// WithObserver sends solver events for this call to o.
func WithObserver(o Observer) Option {
	return func(c *config) {
		if o != nil {
			c.observer = o
		}
	}
}

// WithMaxRounds overrides the optimizer's round limit. Zero or a negative
// value keeps the default of 2·n·m.
func WithMaxRounds(n int) Option {
	return func(c *config) { c.maxRounds = n }
}

func newConfig(opts []Option) config {
	c := config{observer: NopObserver{}}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func sum(xs []float64) float64 {
	s := 0.0
	for _, x := range xs {
		s += x
	}
	return s
}
