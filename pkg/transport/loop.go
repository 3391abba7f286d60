package transport

// Path is the ordered list of basic cells visited by a closed loop, from the
// first cell after the entering cell to the last cell before returning to it.
// A valid path has odd length of at least 3 and alternates between
// horizontal and vertical moves.
type Path []Pos

// Contains reports whether p visits pos.
func (p Path) Contains(pos Pos) bool {
	for _, q := range p {
		if q == pos {
			return true
		}
	}
	return false
}

// FindLoop searches for the stepping-stone loop of the non-basic cell (row,
// col) in t.
//
// The search is a depth-first traversal over basic cells. It first tries a
// horizontal move from the entering cell to each basic cell in its row (in
// column order), then a vertical move to each basic cell in its column (in row
// order). After a horizontal move the next move is vertical and vice versa.
// The loop closes when the last cell shares the entering cell's column (after
// a horizontal move) or row (after a vertical move) and the path has odd
// length of at least 3. The first loop found in this order is returned.
//
// FindLoop returns false if (row, col) is outside t, is itself basic, or has
// no loop. A missing loop is normal for cells cut off from the basis.
func FindLoop(t *Tableau, row, col int) (Path, bool) {
	if row < 0 || row >= t.rows || col < 0 || col >= t.cols || t.IsBasic(row, col) {
		return nil, false
	}
	s := loopSearch{
		t:      t,
		origin: Pos{row, col},
		onPath: make([]bool, len(t.cells)),
		limit:  len(t.cells),
	}

	for j := 0; j < t.cols; j++ {
		if j != col && t.IsBasic(row, j) {
			if s.start(Pos{row, j}, true) {
				return s.path, true
			}
		}
	}
	for i := 0; i < t.rows; i++ {
		if i != row && t.IsBasic(i, col) {
			if s.start(Pos{i, col}, false) {
				return s.path, true
			}
		}
	}
	return nil, false
}

// LoopDelta returns the change in total cost per unit shipped around the loop
// of the entering cell pos: its own cost, minus the first path cell's cost,
// plus the second's, and so on with alternating signs.
func LoopDelta(costs Matrix, pos Pos, path Path) float64 {
	delta := costs.At(pos.Row, pos.Col)
	sign := -1.0
	for _, q := range path {
		delta += sign * costs.At(q.Row, q.Col)
		sign = -sign
	}
	return delta
}

// loopSearch holds the state of one FindLoop call. path is used as a stack
// and onPath mirrors its membership, indexed like Tableau.cells.
type loopSearch struct {
	t      *Tableau
	origin Pos
	path   Path
	onPath []bool
	limit  int
}

func (s *loopSearch) start(first Pos, horizontal bool) bool {
	s.push(first)
	if s.extend(first, horizontal) {
		return true
	}
	s.pop()
	return false
}

// extend continues the search from cur, which was reached by a horizontal
// move when horizontal is true and by a vertical move otherwise.
func (s *loopSearch) extend(cur Pos, horizontal bool) bool {
	if len(s.path) > s.limit {
		return false
	}
	closes := len(s.path) >= 3 && len(s.path)%2 == 1
	if horizontal {
		if closes && cur.Col == s.origin.Col && cur.Row != s.origin.Row {
			return true
		}
		for i := 0; i < s.t.rows; i++ {
			if i != cur.Row && s.try(Pos{i, cur.Col}, false) {
				return true
			}
		}
		return false
	}

	if closes && cur.Row == s.origin.Row && cur.Col != s.origin.Col {
		return true
	}
	for j := 0; j < s.t.cols; j++ {
		if j != cur.Col && s.try(Pos{cur.Row, j}, true) {
			return true
		}
	}
	return false
}

// try steps onto next if it is a basic cell not yet on the path, and
// backtracks if the search from there fails.
func (s *loopSearch) try(next Pos, horizontal bool) bool {
	if !s.t.IsBasic(next.Row, next.Col) || s.onPath[s.t.index(next.Row, next.Col)] {
		return false
	}
	return s.start(next, horizontal)
}

func (s *loopSearch) push(p Pos) {
	s.path = append(s.path, p)
	s.onPath[s.t.index(p.Row, p.Col)] = true
}

func (s *loopSearch) pop() {
	last := s.path[len(s.path)-1]
	s.path = s.path[:len(s.path)-1]
	s.onPath[s.t.index(last.Row, last.Col)] = false
}
