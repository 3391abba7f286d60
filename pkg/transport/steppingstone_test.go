package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptimizeSinglePivot(t *testing.T) {
	costs := MustMatrix([][]float64{{5, 1}, {1, 5}})
	initial := &Solution{
		Allocation: tableauOf(t, [][]any{{10, 20}, {empty, 20}}),
		TotalCost:  170,
	}

	var rec Recorder
	s, err := Optimize(initial, costs, WithObserver(&rec))
	require.NoError(t, err)

	assert.Equal(t, [][]string{{empty, "30"}, {"10", "10"}}, grid(s.Allocation))
	assert.Equal(t, 90.0, s.TotalCost)
	assert.Equal(t, StatusOptimal, s.Status)
	assert.Equal(t, 1, s.Rounds)

	require.Len(t, rec.Trace.Pivots, 1)
	ev := rec.Trace.Pivots[0]
	assert.Equal(t, Pos{1, 0}, ev.Entering)
	assert.Equal(t, Path{{1, 1}, {0, 1}, {0, 0}}, ev.Path)
	assert.Equal(t, -8.0, ev.Delta)
	assert.Equal(t, 10.0, ev.Theta)
	assert.Equal(t, Pos{0, 0}, ev.Leaving)
	assert.True(t, ev.Left)
	assert.True(t, ev.Left)
	assert.Equal(t, 90.0, ev.Cost)
	assert.True(t, ev.After.Equal(s.Allocation))
}

func TestOptimizeFromCorner(t *testing.T) {
	p := balanced3x3.problem(t)
	initial, err := NorthwestCorner(p)
	require.NoError(t, err)
	require.Equal(t, 350.0, initial.TotalCost)

	s, err := Optimize(initial, p.Costs)
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"30", "10", "10"},
		{empty, "60", empty},
		{empty, empty, "40"},
	}, grid(s.Allocation))
	assert.Equal(t, 330.0, s.TotalCost)
	assert.Equal(t, StatusOptimal, s.Status)
	requireFeasible(t, p, s.Allocation)

	// The input solution is left alone.
	assert.Equal(t, 350.0, initial.TotalCost)
	assert.Equal(t, "30", FormatCell(initial.Allocation.At(0, 0)))
	assert.Equal(t, "20", FormatCell(initial.Allocation.At(0, 1)))
}

func TestOptimizeIdempotent(t *testing.T) {
	for name, fix := range map[string]fixture{
		"balanced3x3":   balanced3x3,
		"degenerate2x2": degenerate2x2,
		"wide3x4":       wide3x4,
	} {
		t.Run(name, func(t *testing.T) {
			p := fix.problem(t)
			initial, err := Penalty(p)
			require.NoError(t, err)

			once, err := Optimize(initial, p.Costs)
			require.NoError(t, err)
			twice, err := Optimize(once, p.Costs)
			require.NoError(t, err)

			assert.True(t, once.Allocation.Equal(twice.Allocation), "allocation changed:\n%v\n%v", once.Allocation, twice.Allocation)
			assert.Equal(t, once.TotalCost, twice.TotalCost)
			assert.Equal(t, StatusOptimal, twice.Status)
			assert.Zero(t, twice.Rounds)
		})
	}
}

func TestOptimizeMonotone(t *testing.T) {
	fixtures := map[string]fixture{
		"balanced3x3":   balanced3x3,
		"degenerate2x2": degenerate2x2,
		"wide3x4":       wide3x4,
		"classic3x4":    classic3x4,
		"tall4x2":       tall4x2,
	}
	for name, fix := range fixtures {
		for _, method := range []Method{MethodCorner, MethodPenalty} {
			t.Run(name+"/"+string(method), func(t *testing.T) {
				p := fix.problem(t)
				initial, err := Generate(p, method)
				require.NoError(t, err)

				var rec Recorder
				s, err := Optimize(initial, p.Costs, WithObserver(&rec))
				require.NoError(t, err)

				assert.LessOrEqual(t, s.TotalCost, initial.TotalCost+0.005)
				requireFeasible(t, p, s.Allocation)

				prev := initial.TotalCost
				for _, ev := range rec.Trace.Pivots {
					assert.Less(t, ev.Delta, 0.0)
					assert.GreaterOrEqual(t, ev.Theta, 0.0)
					assert.LessOrEqual(t, ev.Cost, prev+0.005)
					assert.Equal(t, len(p.Supply)+len(p.Demand)-1, ev.After.BasicCount())
					prev = ev.Cost
				}
			})
		}
	}
}

func TestOptimizeDegenerateKeepsEpsilon(t *testing.T) {
	p := degenerate2x2.problem(t)
	initial, err := NorthwestCorner(p)
	require.NoError(t, err)

	s, err := Optimize(initial, p.Costs)
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"20", eps}, {empty, "30"}}, grid(s.Allocation))
	assert.Equal(t, 140.0, s.TotalCost)
	assert.Equal(t, 3, s.Allocation.BasicCount())
}

func TestOptimizeDegeneratePivot(t *testing.T) {
	// The only improving loop has epsilon cells on both decreasing steps, so
	// theta is zero: the basis changes but no flow moves.
	costs := MustMatrix([][]float64{{1, 2, 1}, {5, 1, 3}, {5, 5, 1}})
	initial := &Solution{Allocation: tableauOf(t, [][]any{
		{10, eps, empty},
		{empty, 10, eps},
		{empty, empty, 10},
	})}

	var rec Recorder
	s, err := Optimize(initial, costs, WithObserver(&rec))
	require.NoError(t, err)

	require.Len(t, rec.Trace.Pivots, 1)
	ev := rec.Trace.Pivots[0]
	assert.Equal(t, Pos{0, 2}, ev.Entering)
	assert.Equal(t, -3.0, ev.Delta)
	assert.Zero(t, ev.Theta)
	assert.Equal(t, Pos{0, 1}, ev.Leaving)

	assert.Equal(t, [][]string{
		{"10", empty, eps},
		{empty, "10", eps},
		{empty, empty, "10"},
	}, grid(s.Allocation))
	assert.Equal(t, 30.0, s.TotalCost)
	assert.Equal(t, StatusOptimal, s.Status)
	assert.Equal(t, 5, s.Allocation.BasicCount())
}

func TestOptimizeTiedLeavingCells(t *testing.T) {
	// Both decreasing cells carry 10. The first in row-major order leaves and
	// the other stays basic as epsilon.
	costs := MustMatrix([][]float64{{5, 1}, {1, 5}})
	initial := &Solution{Allocation: tableauOf(t, [][]any{
		{10, 10},
		{empty, 10},
	})}

	var rec Recorder
	s, err := Optimize(initial, costs, WithObserver(&rec))
	require.NoError(t, err)

	require.Len(t, rec.Trace.Pivots, 1)
	ev := rec.Trace.Pivots[0]
	assert.Equal(t, Pos{1, 0}, ev.Entering)
	assert.Equal(t, -8.0, ev.Delta)
	assert.Equal(t, 10.0, ev.Theta)
	assert.Equal(t, Pos{0, 0}, ev.Leaving)

	assert.Equal(t, [][]string{
		{empty, "20"},
		{"10", eps},
	}, grid(s.Allocation))
	assert.Equal(t, 30.0, s.TotalCost)
	assert.Equal(t, StatusOptimal, s.Status)
	assert.Equal(t, 3, s.Allocation.BasicCount())
	assert.Equal(t, 1, s.Allocation.EpsilonCount())
}

func TestOptimizeIterationCap(t *testing.T) {
	p := balanced3x3.problem(t)
	initial, err := NorthwestCorner(p)
	require.NoError(t, err)

	s, err := Optimize(initial, p.Costs, WithMaxRounds(1))
	require.NoError(t, err)
	assert.Equal(t, StatusIterationCap, s.Status)
	assert.Equal(t, 1, s.Rounds)
	assert.Equal(t, 330.0, s.TotalCost)
}

func TestOptimizeRoundsCost(t *testing.T) {
	costs := MustMatrix([][]float64{{1.004, 2}, {3, 1.003}})
	initial := &Solution{Allocation: tableauOf(t, [][]any{
		{1, eps},
		{empty, 1},
	})}

	s, err := Optimize(initial, costs)
	require.NoError(t, err)
	assert.Zero(t, s.Rounds)
	assert.Equal(t, 2.01, s.TotalCost)
}

func TestOptimizeRejectsBadInput(t *testing.T) {
	costs := MustMatrix([][]float64{{1, 2}, {3, 4}})

	t.Run("Nil", func(t *testing.T) {
		_, err := Optimize(nil, costs)
		assert.ErrorIs(t, err, ErrEmptyProblem)
	})

	t.Run("DimensionMismatch", func(t *testing.T) {
		initial := &Solution{Allocation: tableauOf(t, [][]any{{5, 5, eps}, {empty, empty, 5}})}
		_, err := Optimize(initial, costs)
		assert.ErrorIs(t, err, ErrDimensionMismatch)
	})

	t.Run("BasisTooSmall", func(t *testing.T) {
		initial := &Solution{Allocation: tableauOf(t, [][]any{{20, empty}, {empty, 30}})}
		_, err := Optimize(initial, costs)
		assert.ErrorIs(t, err, ErrBasisSize)
	})

	t.Run("BasisTooLarge", func(t *testing.T) {
		initial := &Solution{Allocation: tableauOf(t, [][]any{{10, 10}, {10, 20}})}
		_, err := Optimize(initial, costs)
		assert.ErrorIs(t, err, ErrBasisSize)
	})
}
