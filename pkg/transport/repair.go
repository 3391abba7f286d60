package transport

import "math"

// RepairDegeneracy promotes empty cells of t to epsilon until the basis holds
// n+m-1 cells, and returns the number of cells promoted.
//
// Each step picks the empty cell with the smallest unit cost; ties go to the
// first cell in row-major order. If no empty cell remains before the target
// is reached, repair stops without error. Epsilon cells carry no flow, so the
// plan's cost is unchanged.
//
// Both [NorthwestCorner] and [Penalty] call RepairDegeneracy before returning.
func RepairDegeneracy(t *Tableau, costs Matrix) int {
	return repairDegeneracy(t, costs, NopObserver{})
}

func repairDegeneracy(t *Tableau, costs Matrix, obs Observer) int {
	need := t.rows + t.cols - 1
	placed := 0
	for count := t.BasicCount(); count < need; count++ {
		best, bestCost := Pos{-1, -1}, math.Inf(1)
		for i := 0; i < t.rows; i++ {
			for j := 0; j < t.cols; j++ {
				if t.At(i, j).State != Empty {
					continue
				}
				if c := costs.At(i, j); c < bestCost {
					best, bestCost = Pos{i, j}, c
				}
			}
		}
		if best.Row < 0 {
			break
		}
		t.SetEpsilon(best.Row, best.Col)
		obs.EpsilonPlaced(best)
		placed++
	}
	return placed
}
