package transport

import "math"

// Penalty builds an initial feasible plan with the penalty method (Vogel's
// approximation).
//
// Each step computes, for every active row and column, the gap between its
// two cheapest costs among active lines of the other kind (the single cost
// when only one remains). The line with the largest penalty wins; ties go to
// rows before columns and then to the lower index. Within that line the
// cheapest active cell receives as much as its source and destination allow,
// and exhausted rows and columns become inactive. The loop ends when no
// active row or column is left, then [RepairDegeneracy] completes the basis.
//
// The problem must be balanced; this is not checked. The returned solution
// has [StatusInitial].
func Penalty(p Problem, opts ...Option) (*Solution, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	cfg := newConfig(opts)

	n, m := len(p.Supply), len(p.Demand)
	supply := append([]float64(nil), p.Supply...)
	demand := append([]float64(nil), p.Demand...)
	rows, cols := span(n), span(m)
	t := NewTableau(n, m)

	for len(rows) > 0 && len(cols) > 0 {
		line := selectLine(p.Costs, rows, cols)
		var i, j int
		if line.isRow {
			i, j = line.index, cheapest(cols, func(c int) float64 { return p.Costs.At(line.index, c) })
		} else {
			i, j = cheapest(rows, func(r int) float64 { return p.Costs.At(r, line.index) }), line.index
		}

		qty := min(supply[i], demand[j])
		if qty > zeroTol {
			t.Set(i, j, qty)
			cfg.observer.Allocated(MethodPenalty, Pos{i, j}, qty)
		}
		supply[i] -= qty
		demand[j] -= qty

		if supply[i] <= zeroTol {
			rows = remove(rows, i)
		}
		if demand[j] <= zeroTol {
			cols = remove(cols, j)
		}
	}

	repairDegeneracy(t, p.Costs, cfg.observer)
	return finish(t, p.Costs, cfg), nil
}

// penaltyLine is a row or column chosen by selectLine.
type penaltyLine struct {
	isRow bool
	index int
}

// selectLine returns the active row or column with the largest penalty.
// Rows are scanned before columns and only a strictly larger penalty replaces
// the current choice, so ties keep the earliest line scanned.
func selectLine(costs Matrix, rows, cols []int) penaltyLine {
	best, bestPenalty := penaltyLine{}, math.Inf(-1)
	for _, i := range rows {
		if pen := linePenalty(cols, func(j int) float64 { return costs.At(i, j) }); pen > bestPenalty {
			best, bestPenalty = penaltyLine{isRow: true, index: i}, pen
		}
	}
	for _, j := range cols {
		if pen := linePenalty(rows, func(i int) float64 { return costs.At(i, j) }); pen > bestPenalty {
			best, bestPenalty = penaltyLine{isRow: false, index: j}, pen
		}
	}
	return best
}

// linePenalty returns second-smallest minus smallest cost over the active
// indices, or the only cost when a single index is active.
func linePenalty(active []int, cost func(int) float64) float64 {
	lo, hi := math.Inf(1), math.Inf(1)
	for _, k := range active {
		c := cost(k)
		switch {
		case c < lo:
			lo, hi = c, lo
		case c < hi:
			hi = c
		}
	}
	if len(active) == 1 {
		return lo
	}
	return hi - lo
}

// cheapest returns the active index with the smallest cost, first one on ties.
func cheapest(active []int, cost func(int) float64) int {
	best, bestCost := active[0], cost(active[0])
	for _, k := range active[1:] {
		if c := cost(k); c < bestCost {
			best, bestCost = k, c
		}
	}
	return best
}

func span(n int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = i
	}
	return s
}

// remove deletes v from the sorted slice s, keeping order.
func remove(s []int, v int) []int {
	for k, x := range s {
		if x == v {
			return append(s[:k], s[k+1:]...)
		}
	}
	return s
}
