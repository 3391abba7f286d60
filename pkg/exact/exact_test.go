package exact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tafitantsu/Transport-cost/pkg/transport"
)

func problem(t *testing.T, supply, demand []float64, costs [][]float64) transport.Problem {
	t.Helper()
	p, err := transport.NewProblem(supply, demand, costs)
	require.NoError(t, err)
	return p
}

func TestSolve(t *testing.T) {
	tests := []struct {
		name string
		p    func(t *testing.T) transport.Problem
		want float64
	}{
		{
			name: "Balanced3x3",
			p: func(t *testing.T) transport.Problem {
				return problem(t, []float64{50, 60, 40}, []float64{30, 70, 50},
					[][]float64{{2, 3, 4}, {3, 2, 5}, {4, 3, 2}})
			},
			want: 330,
		},
		{
			name: "Wide3x4",
			p: func(t *testing.T) transport.Problem {
				return problem(t, []float64{20, 30, 25}, []float64{10, 10, 35, 20},
					[][]float64{{8, 6, 10, 9}, {9, 12, 13, 7}, {14, 9, 16, 5}})
			},
			want: 675,
		},
		{
			name: "Degenerate2x2",
			p: func(t *testing.T) transport.Problem {
				return problem(t, []float64{20, 30}, []float64{20, 30}, [][]float64{{1, 2}, {3, 4}})
			},
			want: 140,
		},
		{
			name: "Single",
			p: func(t *testing.T) transport.Problem {
				return problem(t, []float64{7}, []float64{7}, [][]float64{{3}})
			},
			want: 21,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.p(t)
			res, err := Solve(p)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, res.Cost, 1e-6)

			for i, s := range p.Supply {
				sum := 0.0
				for _, f := range res.Flows[i] {
					assert.GreaterOrEqual(t, f, -1e-9)
					sum += f
				}
				assert.InDelta(t, s, sum, 1e-6, "row %d", i)
			}
		})
	}
}

func TestSolveUnbalanced(t *testing.T) {
	p := problem(t, []float64{10, 20}, []float64{15}, [][]float64{{1}, {2}})
	_, err := Solve(p)
	assert.ErrorIs(t, err, ErrUnbalanced)
}

func TestCheck(t *testing.T) {
	p := problem(t, []float64{20, 30, 25}, []float64{10, 10, 35, 20},
		[][]float64{{8, 6, 10, 9}, {9, 12, 13, 7}, {14, 9, 16, 5}})

	t.Run("Penalty", func(t *testing.T) {
		s, err := transport.Penalty(p)
		require.NoError(t, err)
		r, err := Check(p, s)
		require.NoError(t, err)
		assert.True(t, r.Optimal)
		assert.InDelta(t, 0, r.Gap, 1e-6)
	})

	t.Run("CornerStuck", func(t *testing.T) {
		// The corner plan's repaired basis contains a cycle, so no loop
		// reaches the cheaper cells and stepping-stone stops at 710.
		initial, err := transport.NorthwestCorner(p)
		require.NoError(t, err)
		s, err := transport.Optimize(initial, p.Costs)
		require.NoError(t, err)

		r, err := Check(p, s)
		require.NoError(t, err)
		assert.False(t, r.Optimal)
		assert.InDelta(t, 35, r.Gap, 1e-6)
		assert.Equal(t, 710.0, r.Cost)
	})
}

func TestCompare(t *testing.T) {
	s := &transport.Solution{TotalCost: 330.004}
	r := Compare(330, s)
	assert.True(t, r.Optimal, "costs within a cent count as optimal")

	s.TotalCost = 331
	r = Compare(330, s)
	assert.False(t, r.Optimal)
	assert.InDelta(t, 1, r.Gap, 1e-9)
}
