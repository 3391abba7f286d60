package transport

import (
	"fmt"
	"math"
)

// Optimize improves a basic feasible plan with the stepping-stone method.
//
// The input allocation is used as the starting basis and must hold exactly
// n+m-1 basic cells (epsilon cells included) on a grid shaped like costs. It
// is not modified; Optimize works on a copy.
//
// Each round evaluates the closed loop of every non-basic cell (see
// [FindLoop] and [LoopDelta]) and pivots on the cell with the most negative
// delta, taking the first one in row-major order on ties. The pivot ships
// theta units around the loop, where theta is the smallest flow among the
// cells the loop decreases. Of the decreasing cells that reach zero, the
// first in row-major order leaves the basis; any others stay in as epsilon
// cells. When theta is zero the entering cell joins as an epsilon cell, so
// degenerate pivots change the basis but not the plan.
//
// Optimize stops with [StatusOptimal] when no loop has a negative delta, or
// with [StatusIterationCap] after 2·n·m pivots (see [WithMaxRounds]). Neither
// is an error. The returned cost is rounded to two decimal places.
func Optimize(initial *Solution, costs Matrix, opts ...Option) (*Solution, error) {
	if initial == nil || initial.Allocation == nil {
		return nil, fmt.Errorf("optimize: no allocation: %w", ErrEmptyProblem)
	}
	if costs.Rows() == 0 || costs.Cols() == 0 {
		return nil, fmt.Errorf("optimize: %w", ErrEmptyProblem)
	}
	if err := initial.Allocation.checkShape(costs.Rows(), costs.Cols()); err != nil {
		return nil, err
	}
	t := initial.Allocation.Clone()
	n, m := t.rows, t.cols
	if got, want := t.BasicCount(), n+m-1; got != want {
		return nil, fmt.Errorf("allocation has %d basic cells, want %d: %w", got, want, ErrBasisSize)
	}

	cfg := newConfig(opts)
	limit := cfg.maxRounds
	if limit <= 0 {
		limit = 2 * n * m
	}

	status := StatusIterationCap
	rounds := 0
	for rounds < limit {
		enter, path, delta, ok := bestCandidate(t, costs, rounds+1, cfg.observer)
		if !ok {
			status = StatusOptimal
			break
		}
		rounds++
		ev := pivot(t, enter, path)
		ev.Round = rounds
		ev.Delta = delta
		ev.Cost = roundCost(t.TotalCost(costs))
		ev.After = t
		cfg.observer.Pivoted(ev)
	}

	s := &Solution{
		Allocation: t,
		TotalCost:  roundCost(t.TotalCost(costs)),
		Status:     status,
		Rounds:     rounds,
	}
	cfg.observer.Finished(s)
	return s, nil
}

// bestCandidate scans the non-basic cells row-major and returns the one whose
// loop has the most negative delta. Only strictly negative deltas qualify.
func bestCandidate(t *Tableau, costs Matrix, round int, obs Observer) (Pos, Path, float64, bool) {
	var (
		best      Pos
		bestPath  Path
		bestDelta float64
		found     bool
	)
	for i := 0; i < t.rows; i++ {
		for j := 0; j < t.cols; j++ {
			if t.IsBasic(i, j) {
				continue
			}
			path, ok := FindLoop(t, i, j)
			if !ok {
				continue
			}
			pos := Pos{i, j}
			delta := LoopDelta(costs, pos, path)
			obs.Candidate(round, pos, path, delta)
			if delta < bestDelta {
				best, bestPath, bestDelta, found = pos, path, delta, true
			}
		}
	}
	return best, bestPath, bestDelta, found
}

// pivot moves theta units around the loop of enter and updates the basis.
func pivot(t *Tableau, enter Pos, path Path) PivotEvent {
	theta := math.Inf(1)
	for k := 0; k < len(path); k += 2 {
		theta = min(theta, t.Flow(path[k].Row, path[k].Col))
	}

	var leaving Pos
	hasLeaving := false
	for k := 0; k < len(path); k += 2 {
		p := path[k]
		if math.Abs(t.Flow(p.Row, p.Col)-theta) > tieTol {
			continue
		}
		if !hasLeaving || p.less(leaving) {
			leaving, hasLeaving = p, true
		}
	}

	if theta > zeroTol {
		t.Set(enter.Row, enter.Col, theta)
	} else {
		theta = 0
		t.SetEpsilon(enter.Row, enter.Col)
	}

	for k, p := range path {
		q := t.Flow(p.Row, p.Col)
		if k%2 == 1 {
			if q+theta > zeroTol {
				t.Set(p.Row, p.Col, q+theta)
			}
			continue
		}
		if q-theta > zeroTol {
			t.Set(p.Row, p.Col, q-theta)
		} else {
			t.SetEpsilon(p.Row, p.Col)
		}
	}

	left := false
	if hasLeaving && t.Flow(leaving.Row, leaving.Col) <= zeroTol {
		t.Clear(leaving.Row, leaving.Col)
		left = true
	}
	return PivotEvent{Entering: enter, Path: path, Theta: theta, Leaving: leaving, Left: left}
}

func roundCost(c float64) float64 {
	return math.Round(c*100) / 100
}
