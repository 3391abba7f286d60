package transport

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const (
	// EpsilonValue is the numeric stand-in for an [Epsilon] cell in the plain
	// data form of a tableau (see [Tableau.ToRows] and the JSON encoding).
	EpsilonValue = 1e-6

	// zeroTol is the quantity at or below which a cell carries no real flow.
	zeroTol = EpsilonValue / 10

	// tieTol is the tolerance for treating two quantities as equal when
	// choosing a leaving cell.
	tieTol = EpsilonValue / 100
)

// CellState distinguishes empty cells from the two kinds of basic cells.
type CellState uint8

const (
	// Empty cells carry no flow and are not part of the basis.
	Empty CellState = iota
	// Basic cells carry a shipped quantity.
	Basic
	// Epsilon cells are basic placeholders with zero flow. They keep the basis
	// at n+m-1 cells in degenerate plans and never contribute to cost.
	Epsilon
)

// String returns "empty", "basic" or "epsilon".
func (s CellState) String() string {
	switch s {
	case Empty:
		return "empty"
	case Basic:
		return "basic"
	case Epsilon:
		return "epsilon"
	}
	return "CellState(" + strconv.Itoa(int(s)) + ")"
}

// Cell is one entry of a [Tableau].
type Cell struct {
	State CellState
	Qty   float64 // shipped quantity; meaningful only when State == Basic
}

// Flow returns the real quantity shipped through the cell: Qty for basic
// cells and zero otherwise.
func (c Cell) Flow() float64 {
	if c.State == Basic {
		return c.Qty
	}
	return 0
}

// inBasis reports whether the cell counts toward the basis. Basic cells whose
// quantity has collapsed to (numerical) zero do not.
func (c Cell) inBasis() bool {
	return c.State == Epsilon || (c.State == Basic && c.Qty > zeroTol)
}

// Pos identifies a cell by source row and destination column.
type Pos struct {
	Row, Col int
}

// String formats the position as "(row,col)".
func (p Pos) String() string {
	return "(" + strconv.Itoa(p.Row) + "," + strconv.Itoa(p.Col) + ")"
}

// less orders positions row-major.
func (p Pos) less(q Pos) bool {
	return p.Row < q.Row || (p.Row == q.Row && p.Col < q.Col)
}

// Tableau is a fixed-size n×m allocation grid stored as a flat row-major
// slice of cells.
//
// The zero value is an empty 0×0 tableau. Use [NewTableau] or [TableauFromRows]
// to create a usable one. A Tableau is not safe for concurrent mutation.
type Tableau struct {
	rows, cols int
	cells      []Cell
}

// NewTableau returns an n×m tableau with every cell empty.
func NewTableau(rows, cols int) *Tableau {
	if rows < 0 || cols < 0 {
		panic("transport: negative tableau dimension")
	}
	return &Tableau{rows: rows, cols: cols, cells: make([]Cell, rows*cols)}
}

// Rows returns the number of sources.
func (t *Tableau) Rows() int { return t.rows }

// Cols returns the number of destinations.
func (t *Tableau) Cols() int { return t.cols }

// At returns the cell at (i, j). It panics if the position is out of range.
func (t *Tableau) At(i, j int) Cell { return t.cells[t.index(i, j)] }

// Set makes (i, j) a basic cell shipping qty.
func (t *Tableau) Set(i, j int, qty float64) {
	t.cells[t.index(i, j)] = Cell{State: Basic, Qty: qty}
}

// SetEpsilon makes (i, j) an epsilon cell.
func (t *Tableau) SetEpsilon(i, j int) {
	t.cells[t.index(i, j)] = Cell{State: Epsilon}
}

// Clear empties (i, j).
func (t *Tableau) Clear(i, j int) {
	t.cells[t.index(i, j)] = Cell{}
}

// IsBasic reports whether (i, j) belongs to the basis: it is an epsilon cell
// or a basic cell with a non-negligible quantity.
func (t *Tableau) IsBasic(i, j int) bool { return t.At(i, j).inBasis() }

// Flow returns the real quantity shipped through (i, j).
func (t *Tableau) Flow(i, j int) float64 { return t.At(i, j).Flow() }

// BasicCount returns the number of cells in the basis.
func (t *Tableau) BasicCount() int {
	n := 0
	for _, c := range t.cells {
		if c.inBasis() {
			n++
		}
	}
	return n
}

// EpsilonCount returns the number of epsilon cells.
func (t *Tableau) EpsilonCount() int {
	n := 0
	for _, c := range t.cells {
		if c.State == Epsilon {
			n++
		}
	}
	return n
}

// RowSums returns the total flow leaving each source. Epsilon cells count as
// zero.
func (t *Tableau) RowSums() []float64 {
	sums := make([]float64, t.rows)
	for i := 0; i < t.rows; i++ {
		for j := 0; j < t.cols; j++ {
			sums[i] += t.Flow(i, j)
		}
	}
	return sums
}

// ColSums returns the total flow reaching each destination. Epsilon cells
// count as zero.
func (t *Tableau) ColSums() []float64 {
	sums := make([]float64, t.cols)
	for i := 0; i < t.rows; i++ {
		for j := 0; j < t.cols; j++ {
			sums[j] += t.Flow(i, j)
		}
	}
	return sums
}

// TotalCost returns the sum of flow × unit cost over all cells with strictly
// positive flow. The cost matrix must have the same shape as t.
func (t *Tableau) TotalCost(costs Matrix) float64 {
	total := 0.0
	for i := 0; i < t.rows; i++ {
		for j := 0; j < t.cols; j++ {
			if q := t.Flow(i, j); q > 0 {
				total += q * costs.At(i, j)
			}
		}
	}
	return total
}

// Clone returns a deep copy of t.
func (t *Tableau) Clone() *Tableau {
	return &Tableau{rows: t.rows, cols: t.cols, cells: append([]Cell(nil), t.cells...)}
}

// Equal reports whether t and u have the same shape and identical cells.
func (t *Tableau) Equal(u *Tableau) bool {
	if t.rows != u.rows || t.cols != u.cols {
		return false
	}
	for k := range t.cells {
		if t.cells[k] != u.cells[k] {
			return false
		}
	}
	return true
}

// ToRows converts the tableau into plain data: nil for empty cells,
// [EpsilonValue] for epsilon cells and the quantity for basic cells.
func (t *Tableau) ToRows() [][]*float64 {
	out := make([][]*float64, t.rows)
	for i := range out {
		out[i] = make([]*float64, t.cols)
		for j := range out[i] {
			c := t.At(i, j)
			switch c.State {
			case Basic:
				v := c.Qty
				out[i][j] = &v
			case Epsilon:
				v := EpsilonValue
				out[i][j] = &v
			}
		}
	}
	return out
}

// TableauFromRows builds a tableau from plain data, the inverse of
// [Tableau.ToRows]. Nil and zero decode as empty cells and exactly
// [EpsilonValue] decodes as an epsilon cell.
func TableauFromRows(rows [][]*float64) (*Tableau, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("allocation: %w", ErrEmptyProblem)
	}
	cols := len(rows[0])
	t := NewTableau(len(rows), cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("allocation row %d has %d columns, want %d: %w", i, len(row), cols, ErrRaggedMatrix)
		}
		for j, v := range row {
			if v == nil {
				continue
			}
			if err := checkValue(*v); err != nil {
				return nil, fmt.Errorf("allocation (%d,%d): %w", i, j, err)
			}
			switch *v {
			case 0:
			case EpsilonValue:
				t.SetEpsilon(i, j)
			default:
				t.Set(i, j, *v)
			}
		}
	}
	return t, nil
}

// MarshalJSON encodes the tableau as a nested array of numbers and nulls.
func (t *Tableau) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.ToRows())
}

// UnmarshalJSON decodes the form produced by MarshalJSON.
func (t *Tableau) UnmarshalJSON(data []byte) error {
	var rows [][]*float64
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}
	u, err := TableauFromRows(rows)
	if err != nil {
		return err
	}
	*t = *u
	return nil
}

// String renders the tableau as a grid, with "-" for empty cells and "ε" for
// epsilon cells.
func (t *Tableau) String() string {
	var b strings.Builder
	for i := 0; i < t.rows; i++ {
		b.WriteByte('[')
		for j := 0; j < t.cols; j++ {
			if j > 0 {
				b.WriteString(", ")
			}
			b.WriteString(FormatCell(t.At(i, j)))
		}
		b.WriteString("]\n")
	}
	return b.String()
}

// FormatCell renders a single cell the way [Tableau.String] does.
func FormatCell(c Cell) string {
	switch c.State {
	case Basic:
		return strconv.FormatFloat(c.Qty, 'f', -1, 64)
	case Epsilon:
		return "ε"
	}
	return "-"
}

func (t *Tableau) index(i, j int) int {
	if i < 0 || i >= t.rows || j < 0 || j >= t.cols {
		panic(fmt.Sprintf("transport: cell (%d,%d) out of range for %dx%d tableau", i, j, t.rows, t.cols))
	}
	return i*t.cols + j
}

// checkShape returns an error unless t is rows×cols.
func (t *Tableau) checkShape(rows, cols int) error {
	if t.rows != rows || t.cols != cols {
		return fmt.Errorf("allocation is %dx%d, costs are %dx%d: %w", t.rows, t.cols, rows, cols, ErrDimensionMismatch)
	}
	return nil
}
