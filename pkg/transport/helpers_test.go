package transport

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	empty = "-"
	eps   = "ε"
)

func mustProblem(t *testing.T, supply, demand []float64, costs [][]float64) Problem {
	t.Helper()
	p, err := NewProblem(supply, demand, costs)
	require.NoError(t, err)
	return p
}

// grid renders every cell the way Tableau.String does, for compact
// comparisons.
func grid(tab *Tableau) [][]string {
	out := make([][]string, tab.Rows())
	for i := range out {
		out[i] = make([]string, tab.Cols())
		for j := range out[i] {
			out[i][j] = FormatCell(tab.At(i, j))
		}
	}
	return out
}

// tableauOf builds a tableau from a grid of "-", "ε" and numbers.
func tableauOf(t *testing.T, rows [][]any) *Tableau {
	t.Helper()
	tab := NewTableau(len(rows), len(rows[0]))
	for i, row := range rows {
		for j, v := range row {
			switch v := v.(type) {
			case string:
				if v == eps {
					tab.SetEpsilon(i, j)
				}
			case int:
				tab.Set(i, j, float64(v))
			case float64:
				tab.Set(i, j, v)
			default:
				t.Fatalf("unsupported cell %T", v)
			}
		}
	}
	return tab
}

func requireFeasible(t *testing.T, p Problem, tab *Tableau) {
	t.Helper()
	rows, cols := tab.RowSums(), tab.ColSums()
	for i, s := range p.Supply {
		require.InDeltaf(t, s, rows[i], 1e-6, "row %d", i)
	}
	for j, d := range p.Demand {
		require.InDeltaf(t, d, cols[j], 1e-6, "col %d", j)
	}
	require.Equal(t, len(p.Supply)+len(p.Demand)-1, tab.BasicCount(), "basis size")
}

type fixture struct {
	supply, demand []float64
	costs          [][]float64
}

func (f fixture) problem(t *testing.T) Problem {
	t.Helper()
	return mustProblem(t, f.supply, f.demand, f.costs)
}

// Fixtures shared by generator and optimizer tests.
var (
	balanced3x3 = fixture{
		[]float64{50, 60, 40},
		[]float64{30, 70, 50},
		[][]float64{{2, 3, 4}, {3, 2, 5}, {4, 3, 2}},
	}
	degenerate2x2 = fixture{
		[]float64{20, 30},
		[]float64{20, 30},
		[][]float64{{1, 2}, {3, 4}},
	}
	wide3x4 = fixture{
		[]float64{20, 30, 25},
		[]float64{10, 10, 35, 20},
		[][]float64{{8, 6, 10, 9}, {9, 12, 13, 7}, {14, 9, 16, 5}},
	}
	classic3x4 = fixture{
		[]float64{7, 9, 18},
		[]float64{5, 8, 7, 14},
		[][]float64{{19, 30, 50, 10}, {70, 30, 40, 60}, {40, 8, 70, 20}},
	}
	tall4x2 = fixture{
		[]float64{10, 15, 5, 20},
		[]float64{25, 25},
		[][]float64{{4, 6}, {5, 3}, {2, 9}, {7, 1}},
	}
)
