package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/Tafitantsu/Transport-cost/pkg/errors"
	"github.com/Tafitantsu/Transport-cost/pkg/task"
	"github.com/Tafitantsu/Transport-cost/pkg/transport"
)

func input3(method string) TaskInput {
	return TaskInput{
		Name:   "  Depots Nord ",
		Supply: supply3,
		Demand: demand3,
		Costs:  costs3,
		Method: method,
	}
}

func ptr[T any](v T) *T { return &v }

func TestTaskLifecycle(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()

	created, err := s.CreateTask(ctx, input3("cno"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Depots Nord", created.Name)
	assert.Equal(t, "cno", created.Method)
	require.NotNil(t, created.TotalCost)
	assert.Equal(t, 350.0, *created.TotalCost)
	assert.False(t, created.IsOptimized)
	assert.Nil(t, created.OptimizedResult)
	assert.Nil(t, created.UpdatedAt)

	opt, err := s.OptimizeTask(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, opt.IsOptimized)
	assert.Equal(t, 330.0, *opt.TotalCost)
	assert.Equal(t, 330.0, opt.Result.TotalCost)
	assert.Equal(t, 350.0, opt.InitialResult.TotalCost, "initial plan is kept")
	require.NotNil(t, opt.UpdatedAt)

	// Renaming does not touch the plans.
	renamed, err := s.UpdateTask(ctx, created.ID, TaskUpdate{Name: ptr("Depots Sud")})
	require.NoError(t, err)
	assert.Equal(t, "Depots Sud", renamed.Name)
	assert.True(t, renamed.IsOptimized)
	assert.True(t, renamed.UpdatedAt.After(*opt.UpdatedAt))

	// Switching method recomputes and drops the optimization.
	switched, err := s.UpdateTask(ctx, created.ID, TaskUpdate{Method: ptr("hammer")})
	require.NoError(t, err)
	assert.False(t, switched.IsOptimized)
	assert.Nil(t, switched.OptimizedResult)
	assert.Equal(t, 330.0, *switched.TotalCost)
	assert.Equal(t, "hammer", switched.Method)

	stored, err := s.GetTask(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Depots Sud", stored.Name)
	assert.Equal(t, 330.0, stored.InitialResult.TotalCost)

	require.NoError(t, s.DeleteTask(ctx, created.ID))
	_, err = s.GetTask(ctx, created.ID)
	assert.True(t, errs.Is(err, errs.ErrCodeTaskNotFound))
	assert.True(t, errs.IsNotFound(s.DeleteTask(ctx, created.ID)))
}

func TestCreateTaskInvalid(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		in   TaskInput
		code errs.Code
	}{
		{"blank name", TaskInput{Name: "  ", Supply: supply3, Demand: demand3, Costs: costs3, Method: "cno"}, errs.ErrCodeInvalidInput},
		{"bad method", input3("simplex"), errs.ErrCodeInvalidMethod},
		{"unbalanced", TaskInput{Name: "x", Supply: []float64{10}, Demand: []float64{5}, Costs: [][]float64{{1}}, Method: "cno"}, errs.ErrCodeUnbalanced},
		{"shape", TaskInput{Name: "x", Supply: []float64{10}, Demand: []float64{10}, Costs: [][]float64{{1, 2}}, Method: "cno"}, errs.ErrCodeDimensionMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateTask(ctx, tt.in)
			require.Error(t, err)
			assert.Equal(t, tt.code, errs.GetCode(err))
		})
	}

	list, err := s.ListTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, list, "failed creations must not store anything")
}

func TestUpdateTaskInvalid(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()

	created, err := s.CreateTask(ctx, input3("cno"))
	require.NoError(t, err)

	_, err = s.UpdateTask(ctx, created.ID, TaskUpdate{Supply: []float64{50, 60, 41}})
	assert.True(t, errs.Is(err, errs.ErrCodeUnbalanced))

	stored, err := s.GetTask(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 40.0, stored.Supply[2], "rejected update must not be saved")

	_, err = s.UpdateTask(ctx, "missing", TaskUpdate{Name: ptr("x")})
	assert.True(t, errs.Is(err, errs.ErrCodeTaskNotFound))
}

func TestOptimizeTaskWithoutPlan(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()

	bare := &task.Task{Name: "legacy", Supply: supply3, Demand: demand3, Costs: costs3, Method: "cno"}
	require.NoError(t, s.Store.Create(ctx, bare))

	_, err := s.OptimizeTask(ctx, bare.ID)
	assert.True(t, errs.Is(err, errs.ErrCodeNoSolution), "got %v", err)

	_, err = s.OptimizeTask(ctx, "missing")
	assert.True(t, errs.Is(err, errs.ErrCodeTaskNotFound))
}

func TestOptimizeTaskFallsBackToResult(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()

	p := problem3(t)
	sol, err := transport.NorthwestCorner(p)
	require.NoError(t, err)
	legacy := &task.Task{Name: "legacy", Supply: supply3, Demand: demand3, Costs: costs3, Method: "cno"}
	legacy.SetResult(task.NewResult(sol))
	require.NoError(t, s.Store.Create(ctx, legacy))

	got, err := s.OptimizeTask(ctx, legacy.ID)
	require.NoError(t, err)
	assert.Equal(t, 330.0, *got.TotalCost)
}

func TestListAndRecentTasks(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 7; i++ {
		in := input3("penalty")
		in.Name = fmt.Sprintf("task %d", i)
		created, err := s.CreateTask(ctx, in)
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}

	list, err := s.ListTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 7)

	_, err = s.UpdateTask(ctx, ids[2], TaskUpdate{Name: ptr("touched")})
	require.NoError(t, err)

	recent, err := s.RecentTasks(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recent, task.DefaultRecent)
	assert.Equal(t, ids[2], recent[0].ID)
	assert.Equal(t, "touched", recent[0].Name)
}

func TestConcurrentTaskUpdates(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()

	created, err := s.CreateTask(ctx, input3("cno"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_, err := s.OptimizeTask(ctx, created.ID)
				assert.NoError(t, err)
				return
			}
			_, err := s.UpdateTask(ctx, created.ID, TaskUpdate{Name: ptr(fmt.Sprintf("n%d", i))})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 0, s.locks.len(), "per-task locks must be released")
	got, err := s.GetTask(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, got.IsOptimized)
}
