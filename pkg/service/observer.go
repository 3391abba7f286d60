package service

import (
	"github.com/charmbracelet/log"

	"github.com/Tafitantsu/Transport-cost/pkg/transport"
)

// LogObserver writes solver events to a logger at debug level.
type LogObserver struct {
	Logger *log.Logger
}

func (o LogObserver) Allocated(m transport.Method, pos transport.Pos, qty float64) {
	o.Logger.Debug("allocate", "method", m, "cell", pos, "qty", qty)
}

func (o LogObserver) EpsilonPlaced(pos transport.Pos) {
	o.Logger.Debug("epsilon", "cell", pos)
}

func (o LogObserver) Candidate(round int, pos transport.Pos, path transport.Path, delta float64) {
	o.Logger.Debug("candidate", "round", round, "cell", pos, "loop", len(path)+1, "delta", delta)
}

func (o LogObserver) Pivoted(p transport.PivotEvent) {
	o.Logger.Debug("pivot",
		"round", p.Round,
		"entering", p.Entering,
		"leaving", p.Leaving,
		"delta", p.Delta,
		"theta", p.Theta,
		"cost", p.Cost)
}

func (o LogObserver) Finished(s *transport.Solution) {
	o.Logger.Debug("finished", "status", s.Status, "cost", s.TotalCost, "rounds", s.Rounds)
}

var _ transport.Observer = LogObserver{}
