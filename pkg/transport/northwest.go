package transport

// NorthwestCorner builds an initial feasible plan with the northwest-corner
// rule.
//
// A cursor starts at the top-left cell. Each step ships as much as the
// current source and destination allow, then moves down when the source is
// exhausted and right when the destination is. When both run out together
// (and neither is the last row or column) the cursor moves diagonally, which
// is what makes the plan degenerate; [RepairDegeneracy] then tops the basis
// up with epsilon cells. Zero shipments are never recorded.
//
// The problem must be balanced; this is not checked. The returned solution
// has [StatusInitial] and its cost counts real shipments only.
func NorthwestCorner(p Problem, opts ...Option) (*Solution, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	cfg := newConfig(opts)

	n, m := len(p.Supply), len(p.Demand)
	supply := append([]float64(nil), p.Supply...)
	demand := append([]float64(nil), p.Demand...)
	t := NewTableau(n, m)

	for i, j := 0, 0; i < n && j < m; {
		qty := min(supply[i], demand[j])
		if qty > zeroTol {
			t.Set(i, j, qty)
			cfg.observer.Allocated(MethodCorner, Pos{i, j}, qty)
		}
		supply[i] -= qty
		demand[j] -= qty

		rowDone, colDone := supply[i] <= zeroTol, demand[j] <= zeroTol
		switch {
		case rowDone && colDone && i < n-1 && j < m-1:
			i++
			j++
		case rowDone:
			i++
		case colDone:
			j++
		default:
			// Unreachable for balanced input; step anyway so the sweep ends.
			i++
			j++
		}
	}

	repairDegeneracy(t, p.Costs, cfg.observer)
	return finish(t, p.Costs, cfg), nil
}

// finish wraps a generated tableau into a Solution and reports it.
func finish(t *Tableau, costs Matrix, cfg config) *Solution {
	s := &Solution{Allocation: t, TotalCost: t.TotalCost(costs), Status: StatusInitial}
	cfg.observer.Finished(s)
	return s
}
