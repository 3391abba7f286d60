// Package task stores transportation tasks: a named problem together with
// the plans computed for it.
//
// A task keeps three results. InitialResult is what the chosen generator
// produced, OptimizedResult is the stepping-stone plan (once requested), and
// Result is whichever of the two is current. Editing the problem discards
// both and starts over from a fresh initial plan.
//
// # Backends
//
//   - [MemoryStore]: in-process map, for tests and throwaway servers
//   - [FileStore]: one JSON file per task, for the CLI
//   - [MongoStore]: a MongoDB collection, for the HTTP server
//
// The JSON field names follow the wire format of the original web service
// ("nom", "offres", "resultat", ...) so existing front ends keep working.
//
// Stores do not serialize read-modify-write sequences. Callers that update
// tasks concurrently must lock around Get and Update themselves.
package task

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/Tafitantsu/Transport-cost/pkg/transport"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when a task does not exist.
	ErrNotFound = errors.New("task not found")

	// ErrExists is returned by Create when the ID is already taken.
	ErrExists = errors.New("task already exists")
)

// DefaultRecent is the number of tasks Recent returns when asked for n <= 0.
const DefaultRecent = 5

// Task is a persisted transportation problem and its plans.
type Task struct {
	ID     string      `json:"id"`
	Name   string      `json:"nom"`
	Supply []float64   `json:"offres"`
	Demand []float64   `json:"demandes"`
	Costs  [][]float64 `json:"couts"`
	Method string      `json:"algo_utilise"`

	Result          *Result  `json:"resultat"`
	TotalCost       *float64 `json:"cout_total"`
	InitialResult   *Result  `json:"initial_result"`
	OptimizedResult *Result  `json:"optimized_result"`
	IsOptimized     bool     `json:"is_optimized"`

	CreatedAt time.Time  `json:"date_creation"`
	UpdatedAt *time.Time `json:"date_derniere_maj"`
}

// Result is a plan as stored on a task.
type Result struct {
	Allocation *transport.Tableau `json:"allocation"`
	TotalCost  float64            `json:"cout_total"`
	Status     transport.Status   `json:"status,omitempty"`
	Rounds     int                `json:"rounds,omitempty"`
}

// NewResult copies a solver solution into a Result.
func NewResult(s *transport.Solution) *Result {
	return &Result{
		Allocation: s.Allocation.Clone(),
		TotalCost:  s.TotalCost,
		Status:     s.Status,
		Rounds:     s.Rounds,
	}
}

// Solution converts r back into a solver solution.
func (r *Result) Solution() *transport.Solution {
	s := &transport.Solution{
		TotalCost: r.TotalCost,
		Status:    r.Status,
		Rounds:    r.Rounds,
	}
	if r.Allocation != nil {
		s.Allocation = r.Allocation.Clone()
	}
	if s.Status == "" {
		s.Status = transport.StatusInitial
	}
	return s
}

func (r *Result) clone() *Result {
	if r == nil {
		return nil
	}
	c := *r
	if r.Allocation != nil {
		c.Allocation = r.Allocation.Clone()
	}
	return &c
}

// NewID returns a fresh random task identifier.
func NewID() string {
	return uuid.NewString()
}

// SetResult makes res the current result and mirrors its cost.
func (t *Task) SetResult(res *Result) {
	t.Result = res
	if res == nil {
		t.TotalCost = nil
		return
	}
	cost := res.TotalCost
	t.TotalCost = &cost
}

// Touch records a modification at now.
func (t *Task) Touch(now time.Time) {
	now = now.UTC()
	t.UpdatedAt = &now
}

// LastModified returns UpdatedAt when set and CreatedAt otherwise.
func (t *Task) LastModified() time.Time {
	if t.UpdatedAt != nil {
		return *t.UpdatedAt
	}
	return t.CreatedAt
}

// Clone returns a deep copy of t.
func (t *Task) Clone() *Task {
	c := *t
	c.Supply = slices.Clone(t.Supply)
	c.Demand = slices.Clone(t.Demand)
	if t.Costs != nil {
		c.Costs = make([][]float64, len(t.Costs))
		for i, row := range t.Costs {
			c.Costs[i] = slices.Clone(row)
		}
	}
	c.Result = t.Result.clone()
	c.InitialResult = t.InitialResult.clone()
	c.OptimizedResult = t.OptimizedResult.clone()
	if t.TotalCost != nil {
		v := *t.TotalCost
		c.TotalCost = &v
	}
	if t.UpdatedAt != nil {
		v := *t.UpdatedAt
		c.UpdatedAt = &v
	}
	return &c
}

// Summary is the list view of a task.
type Summary struct {
	ID          string     `json:"id"`
	Name        string     `json:"nom"`
	Method      string     `json:"algo_utilise"`
	TotalCost   *float64   `json:"cout_total"`
	IsOptimized bool       `json:"is_optimized"`
	CreatedAt   time.Time  `json:"date_creation"`
	UpdatedAt   *time.Time `json:"date_derniere_maj"`
}

// Summary returns the list view of t.
func (t *Task) Summary() Summary {
	c := t.Clone()
	return Summary{
		ID:          c.ID,
		Name:        c.Name,
		Method:      c.Method,
		TotalCost:   c.TotalCost,
		IsOptimized: c.IsOptimized,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func (s Summary) lastModified() time.Time {
	if s.UpdatedAt != nil {
		return *s.UpdatedAt
	}
	return s.CreatedAt
}

// Store persists tasks.
type Store interface {
	// Create inserts t, assigning an ID when t.ID is empty and a creation
	// time when t.CreatedAt is zero.
	Create(ctx context.Context, t *Task) error

	// Get returns the task with the given ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*Task, error)

	// Update replaces an existing task, or returns ErrNotFound.
	Update(ctx context.Context, t *Task) error

	// Delete removes a task, or returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// List returns all tasks, newest first by creation time.
	List(ctx context.Context) ([]Summary, error)

	// Recent returns up to n tasks ordered by last modification, newest
	// first. n <= 0 means DefaultRecent.
	Recent(ctx context.Context, n int) ([]Summary, error)

	// Close releases backend resources.
	Close() error
}

// prepare fills the fields Create is responsible for.
func prepare(t *Task, now time.Time) {
	if t.ID == "" {
		t.ID = NewID()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now.UTC()
	}
}

// sortNewest orders summaries by creation time, newest first, breaking
// ties by ID so the order is stable across backends.
func sortNewest(s []Summary) {
	slices.SortFunc(s, func(a, b Summary) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// recent orders summaries by last modification and keeps the first n.
func recent(s []Summary, n int) []Summary {
	if n <= 0 {
		n = DefaultRecent
	}
	slices.SortFunc(s, func(a, b Summary) int {
		if c := b.lastModified().Compare(a.lastModified()); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if len(s) > n {
		s = s[:n]
	}
	return s
}
