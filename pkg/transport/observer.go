package transport

// Observer receives diagnostic events from a single solver call.
//
// Implementations must not retain or modify the tableaux and paths they are
// handed; copy them if they are needed after the callback returns.
type Observer interface {
	// Allocated is called when a generator ships qty through (i, j).
	Allocated(method Method, pos Pos, qty float64)

	// EpsilonPlaced is called when degeneracy repair promotes an empty cell.
	EpsilonPlaced(pos Pos)

	// Candidate is called for every non-basic cell whose closed loop was found
	// during an optimizer round, with the loop's cost delta.
	Candidate(round int, pos Pos, path Path, delta float64)

	// Pivoted is called after each optimizer pivot.
	Pivoted(p PivotEvent)

	// Finished is called once when a solver call returns successfully.
	Finished(s *Solution)
}

// PivotEvent describes one stepping-stone pivot.
type PivotEvent struct {
	Round    int
	Entering Pos
	Path     Path
	Delta    float64
	Theta    float64
	Leaving  Pos
	Left     bool // whether Leaving was removed from the basis
	Cost     float64
	After    *Tableau
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) Allocated(Method, Pos, float64)    {}
func (NopObserver) EpsilonPlaced(Pos)                 {}
func (NopObserver) Candidate(int, Pos, Path, float64) {}
func (NopObserver) Pivoted(PivotEvent)                {}
func (NopObserver) Finished(*Solution)                {}

// Trace is the event log collected by a [Recorder].
type Trace struct {
	Allocations []Allocation
	Epsilons    []Pos
	Pivots      []PivotEvent
	Final       *Solution
}

// Allocation is a single generator shipment.
type Allocation struct {
	Method Method
	Pos    Pos
	Qty    float64
}

// Recorder is an [Observer] that keeps copies of allocation, epsilon and
// pivot events. Candidate events are not kept.
type Recorder struct {
	Trace Trace
}

func (r *Recorder) Allocated(m Method, pos Pos, qty float64) {
	r.Trace.Allocations = append(r.Trace.Allocations, Allocation{Method: m, Pos: pos, Qty: qty})
}

func (r *Recorder) EpsilonPlaced(pos Pos) {
	r.Trace.Epsilons = append(r.Trace.Epsilons, pos)
}

func (r *Recorder) Candidate(int, Pos, Path, float64) {}

func (r *Recorder) Pivoted(p PivotEvent) {
	p.Path = append(Path(nil), p.Path...)
	if p.After != nil {
		p.After = p.After.Clone()
	}
	r.Trace.Pivots = append(r.Trace.Pivots, p)
}

func (r *Recorder) Finished(s *Solution) {
	r.Trace.Final = s.Clone()
}

var (
	_ Observer = NopObserver{}
	_ Observer = (*Recorder)(nil)
)
