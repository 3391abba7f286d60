package service

import (
	"context"
	"strings"

	errs "github.com/Tafitantsu/Transport-cost/pkg/errors"
	"github.com/Tafitantsu/Transport-cost/pkg/task"
	"github.com/Tafitantsu/Transport-cost/pkg/transport"
)

// TaskInput holds the fields needed to create a task.
type TaskInput struct {
	Name   string      `json:"nom"`
	Supply []float64   `json:"offres"`
	Demand []float64   `json:"demandes"`
	Costs  [][]float64 `json:"couts"`
	Method string      `json:"algo_utilise"`
}

// TaskUpdate is a partial update. Nil fields are left unchanged.
type TaskUpdate struct {
	Name   *string     `json:"nom,omitempty"`
	Supply []float64   `json:"offres,omitempty"`
	Demand []float64   `json:"demandes,omitempty"`
	Costs  [][]float64 `json:"couts,omitempty"`
	Method *string     `json:"algo_utilise,omitempty"`
}

// changesProblem reports whether u touches anything the plan depends on.
func (u TaskUpdate) changesProblem() bool {
	return u.Supply != nil || u.Demand != nil || u.Costs != nil || u.Method != nil
}

// CreateTask validates the input, computes the initial plan and stores the
// task with that plan as its current result.
func (s *Service) CreateTask(ctx context.Context, in TaskInput) (*task.Task, error) {
	name := strings.TrimSpace(in.Name)
	if err := errs.ValidateTaskName(name); err != nil {
		return nil, err
	}
	t := &task.Task{
		Name:      name,
		Supply:    in.Supply,
		Demand:    in.Demand,
		Costs:     in.Costs,
		Method:    strings.TrimSpace(in.Method),
		CreatedAt: s.now().UTC(),
	}
	if err := s.recompute(ctx, t); err != nil {
		return nil, err
	}
	if err := s.Store.Create(ctx, t); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "failed to save task")
	}
	s.Logger.Info("created task", "id", t.ID, "name", t.Name, "method", t.Method, "cost", *t.TotalCost)
	return t, nil
}

// GetTask returns a stored task.
func (s *Service) GetTask(ctx context.Context, id string) (*task.Task, error) {
	t, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return t, nil
}

// UpdateTask applies a partial update. When the problem or method changes,
// the initial plan is recomputed and any optimization is discarded.
func (s *Service) UpdateTask(ctx context.Context, id string, upd TaskUpdate) (*task.Task, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	t, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, translate(err)
	}

	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if err := errs.ValidateTaskName(name); err != nil {
			return nil, err
		}
		t.Name = name
	}
	if upd.Supply != nil {
		t.Supply = upd.Supply
	}
	if upd.Demand != nil {
		t.Demand = upd.Demand
	}
	if upd.Costs != nil {
		t.Costs = upd.Costs
	}
	if upd.Method != nil {
		t.Method = strings.TrimSpace(*upd.Method)
	}
	if upd.changesProblem() {
		if err := s.recompute(ctx, t); err != nil {
			return nil, err
		}
	}
	t.Touch(s.now())

	if err := s.Store.Update(ctx, t); err != nil {
		return nil, translate(err)
	}
	s.Logger.Info("updated task", "id", id, "recomputed", upd.changesProblem())
	return t, nil
}

// DeleteTask removes a stored task.
func (s *Service) DeleteTask(ctx context.Context, id string) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	if err := s.Store.Delete(ctx, id); err != nil {
		return translate(err)
	}
	s.Logger.Info("deleted task", "id", id)
	return nil
}

// OptimizeTask runs the stepping-stone method on a task's initial plan, or
// on its current result when no initial plan was stored, and makes the
// optimized plan current.
func (s *Service) OptimizeTask(ctx context.Context, id string) (*task.Task, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	t, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, translate(err)
	}

	source := t.InitialResult
	if source == nil || source.Allocation == nil {
		source = t.Result
	}
	if source == nil || source.Allocation == nil {
		return nil, errs.New(errs.ErrCodeNoSolution, "task %s has no initial solution to optimize", id)
	}

	costs, err := transport.NewMatrix(t.Costs)
	if err != nil {
		return nil, translate(err)
	}
	sol, err := s.Optimize(ctx, source.Solution(), costs)
	if err != nil {
		return nil, err
	}

	t.OptimizedResult = task.NewResult(sol)
	t.SetResult(t.OptimizedResult)
	t.IsOptimized = true
	t.Touch(s.now())

	if err := s.Store.Update(ctx, t); err != nil {
		return nil, translate(err)
	}
	return t, nil
}

// ListTasks returns all task summaries, newest first.
func (s *Service) ListTasks(ctx context.Context) ([]task.Summary, error) {
	out, err := s.Store.List(ctx)
	if err != nil {
		return nil, translate(err)
	}
	return out, nil
}

// RecentTasks returns the n most recently modified tasks. n <= 0 means
// task.DefaultRecent.
func (s *Service) RecentTasks(ctx context.Context, n int) ([]task.Summary, error) {
	out, err := s.Store.Recent(ctx, n)
	if err != nil {
		return nil, translate(err)
	}
	return out, nil
}

// recompute validates t's problem and replaces its plans with a fresh
// initial plan.
func (s *Service) recompute(ctx context.Context, t *task.Task) error {
	method, err := ParseMethod(t.Method)
	if err != nil {
		return err
	}
	p, err := Problem(t.Supply, t.Demand, t.Costs)
	if err != nil {
		return err
	}
	sol, err := s.Solve(ctx, p, method)
	if err != nil {
		return err
	}

	t.InitialResult = task.NewResult(sol)
	t.SetResult(t.InitialResult)
	t.OptimizedResult = nil
	t.IsOptimized = false
	return nil
}
