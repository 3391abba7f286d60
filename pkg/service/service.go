// Package service is the application layer shared by the CLI and the HTTP
// server.
//
// The solver core in pkg/transport assumes its preconditions: balanced
// problems, matching shapes, a full basis. Service checks them, translates
// failures into coded errors from pkg/errors, caches results and manages the
// lifecycle of stored tasks.
//
// A Service is safe for concurrent use. Updates and optimizations of the same
// task are serialized; the store itself gives no such guarantee.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Tafitantsu/Transport-cost/pkg/cache"
	errs "github.com/Tafitantsu/Transport-cost/pkg/errors"
	"github.com/Tafitantsu/Transport-cost/pkg/exact"
	tio "github.com/Tafitantsu/Transport-cost/pkg/io"
	"github.com/Tafitantsu/Transport-cost/pkg/observability"
	"github.com/Tafitantsu/Transport-cost/pkg/task"
	"github.com/Tafitantsu/Transport-cost/pkg/transport"
)

// Service runs solver operations with validation and caching, and manages
// stored tasks.
type Service struct {
	Store  task.Store
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// MaxRounds overrides the optimizer's round limit when positive.
	MaxRounds int

	// TTL overrides the default cache entry lifetimes when positive.
	TTL time.Duration

	locks keyedMutex
	now   func() time.Time
}

// New creates a service.
// If store is nil, an in-memory store is used.
// If c is nil, a NullCache is used (caching disabled).
// If keyer is nil, a DefaultKeyer is used.
func New(store task.Store, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Service {
	if store == nil {
		store = task.NewMemoryStore()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		Store:  store,
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		now:    time.Now,
	}
}

// Problem validates raw problem data, including balance, and builds a solver
// problem from it.
func Problem(supply, demand []float64, costs [][]float64) (transport.Problem, error) {
	if err := errs.ValidateProblem(supply, demand, costs); err != nil {
		return transport.Problem{}, err
	}
	p, err := transport.NewProblem(supply, demand, costs)
	if err != nil {
		return transport.Problem{}, translate(err)
	}
	return p, nil
}

// ParseMethod resolves a method name, reporting INVALID_METHOD on failure.
func ParseMethod(name string) (transport.Method, error) {
	m, err := transport.ParseMethod(name)
	if err != nil {
		return "", errs.Wrap(errs.ErrCodeInvalidMethod, err, "unknown method %q (want corner or penalty)", name)
	}
	return m, nil
}

// Solve builds an initial feasible plan for p with the given method.
func (s *Service) Solve(ctx context.Context, p transport.Problem, method transport.Method) (*transport.Solution, error) {
	if err := checkProblem(p); err != nil {
		return nil, err
	}
	key := s.Keyer.SolutionKey(problemHash(p), string(method))
	if sol, ok := s.cachedSolution(ctx, kindSolution, key); ok {
		return sol, nil
	}

	hooks := observability.Solver()
	hooks.OnGenerateStart(ctx, string(method), len(p.Supply), len(p.Demand))
	start := time.Now()
	sol, err := transport.Generate(p, method, transport.WithObserver(LogObserver{Logger: s.Logger}))
	hooks.OnGenerateComplete(ctx, string(method), time.Since(start), err)
	if err != nil {
		return nil, translate(err)
	}

	s.Logger.Info("generated initial plan",
		"method", method,
		"cost", sol.TotalCost,
		"epsilons", sol.Allocation.EpsilonCount(),
		"duration", time.Since(start))

	s.storeSolution(ctx, kindSolution, key, sol, cache.TTLSolution)
	return sol, nil
}

// Optimize runs the stepping-stone method from initial.
func (s *Service) Optimize(ctx context.Context, initial *transport.Solution, costs transport.Matrix) (*transport.Solution, error) {
	if initial == nil || initial.Allocation == nil {
		return nil, errs.New(errs.ErrCodeNoSolution, "no initial solution to optimize")
	}
	if initial.Allocation.Rows() != costs.Rows() || initial.Allocation.Cols() != costs.Cols() {
		return nil, errs.New(errs.ErrCodeDimensionMismatch, "allocation is %dx%d, costs are %dx%d",
			initial.Allocation.Rows(), initial.Allocation.Cols(), costs.Rows(), costs.Cols())
	}

	key := s.Keyer.OptimizeKey(solutionHash(initial, costs), cache.OptimizeKeyOpts{MaxRounds: s.MaxRounds})
	if sol, ok := s.cachedSolution(ctx, kindOptimize, key); ok {
		return sol, nil
	}

	hooks := observability.Solver()
	hooks.OnOptimizeStart(ctx, costs.Rows(), costs.Cols())
	start := time.Now()
	sol, err := transport.Optimize(initial, costs,
		transport.WithObserver(LogObserver{Logger: s.Logger}),
		transport.WithMaxRounds(s.MaxRounds))
	status := ""
	rounds := 0
	if sol != nil {
		status, rounds = string(sol.Status), sol.Rounds
	}
	hooks.OnOptimizeComplete(ctx, status, rounds, time.Since(start), err)
	if err != nil {
		return nil, translate(err)
	}

	logFn := s.Logger.Info
	if sol.Status == transport.StatusIterationCap {
		logFn = s.Logger.Warn
	}
	logFn("optimized plan",
		"status", sol.Status,
		"rounds", sol.Rounds,
		"from", initial.TotalCost,
		"cost", sol.TotalCost,
		"duration", time.Since(start))

	s.storeSolution(ctx, kindOptimize, key, sol, cache.TTLOptimized)
	return sol, nil
}

// Verify compares sol with the exact optimum of p.
func (s *Service) Verify(ctx context.Context, p transport.Problem, sol *transport.Solution) (exact.Report, error) {
	if err := checkProblem(p); err != nil {
		return exact.Report{}, err
	}
	if sol == nil {
		return exact.Report{}, errs.New(errs.ErrCodeNoSolution, "no solution to verify")
	}

	key := s.Keyer.VerifyKey(problemHash(p))
	if data, hit, err := s.Cache.Get(ctx, key); err == nil && hit {
		var optimum float64
		if err := json.Unmarshal(data, &optimum); err == nil {
			observability.Cache().OnCacheHit(ctx, kindVerify)
			return exact.Compare(optimum, sol), nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, kindVerify)

	res, err := exact.Solve(p)
	if err != nil {
		return exact.Report{}, translate(err)
	}
	if data, err := json.Marshal(res.Cost); err == nil {
		if s.Cache.Set(ctx, key, data, s.ttl(cache.TTLVerify)) == nil {
			observability.Cache().OnCacheSet(ctx, kindVerify, len(data))
		}
	}
	return exact.Compare(res.Cost, sol), nil
}

// checkProblem re-runs the input checks on an already built problem, since
// pkg/transport does not look at balance.
func checkProblem(p transport.Problem) error {
	if err := p.Validate(); err != nil {
		return translate(err)
	}
	return errs.ValidateBalance(p.Supply, p.Demand)
}

// Cache kinds reported to the observability hooks.
const (
	kindSolution = "solution"
	kindOptimize = "optimize"
	kindVerify   = "verify"
)

func (s *Service) cachedSolution(ctx context.Context, kind, key string) (*transport.Solution, bool) {
	data, hit, err := s.Cache.Get(ctx, key)
	if err != nil {
		s.Logger.Debug("cache unavailable", "key", key, "error", err)
	}
	if err == nil && hit {
		if sol, err := tio.ReadSolution(bytes.NewReader(data)); err == nil {
			observability.Cache().OnCacheHit(ctx, kind)
			s.Logger.Debug("cache hit", "key", key)
			return sol, true
		}
		// Undecodable entries are recomputed and overwritten.
	}
	observability.Cache().OnCacheMiss(ctx, kind)
	return nil, false
}

func (s *Service) storeSolution(ctx context.Context, kind, key string, sol *transport.Solution, ttl time.Duration) {
	var buf bytes.Buffer
	if err := tio.WriteSolution(sol, &buf); err != nil {
		return
	}
	if err := s.Cache.Set(ctx, key, buf.Bytes(), s.ttl(ttl)); err != nil {
		s.Logger.Debug("cache write failed", "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, kind, buf.Len())
}

func (s *Service) ttl(def time.Duration) time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return def
}

func problemHash(p transport.Problem) string {
	return cache.ProblemHash(p.Supply, p.Demand, p.Costs.ToRows())
}

func solutionHash(sol *transport.Solution, costs transport.Matrix) string {
	data, _ := json.Marshal(struct {
		Allocation *transport.Tableau `json:"a"`
		Costs      [][]float64        `json:"c"`
	}{sol.Allocation, costs.ToRows()})
	return cache.Hash(data)
}
