package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Tafitantsu/Transport-cost/pkg/buildinfo"
	errs "github.com/Tafitantsu/Transport-cost/pkg/errors"
	"github.com/Tafitantsu/Transport-cost/pkg/exact"
	"github.com/Tafitantsu/Transport-cost/pkg/service"
	"github.com/Tafitantsu/Transport-cost/pkg/task"
	"github.com/Tafitantsu/Transport-cost/pkg/transport"
)

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"store":   s.storeName,
		"version": buildinfo.Short(),
	})
}

// =============================================================================
// Tasks
// =============================================================================

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var in service.TaskInput
	if err := decode(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	t, err := s.svc.CreateTask(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	t, err := s.svc.GetTask(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var upd service.TaskUpdate
	if err := decode(r, &upd); err != nil {
		s.writeError(w, r, err)
		return
	}
	t, err := s.svc.UpdateTask(r.Context(), chi.URLParam(r, "id"), upd)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteTask(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleOptimizeTask(w http.ResponseWriter, r *http.Request) {
	t, err := s.svc.OptimizeTask(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.ListTasks(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(list))
}

func (s *Server) handleRecentTasks(w http.ResponseWriter, r *http.Request) {
	n := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		var err error
		if n, err = strconv.Atoi(v); err != nil || n < 0 {
			s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "limit must be a non-negative integer"))
			return
		}
	}
	list, err := s.svc.RecentTasks(r.Context(), n)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(list))
}

func (s *Server) handleTaskSummary(w http.ResponseWriter, r *http.Request) {
	t, err := s.svc.GetTask(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t.Summary())
}

func nonNil(list []task.Summary) []task.Summary {
	if list == nil {
		return []task.Summary{}
	}
	return list
}

// =============================================================================
// Stateless computation
// =============================================================================

type problemRequest struct {
	Supply []float64   `json:"offres"`
	Demand []float64   `json:"demandes"`
	Costs  [][]float64 `json:"couts"`
	Method string      `json:"algo_utilise"`
}

type optimizeRequest struct {
	Initial *task.Result `json:"initial"`
	Costs   [][]float64  `json:"couts"`
}

type verifyRequest struct {
	problemRequest
	Solution *task.Result `json:"solution"`
}

func (s *Server) handleComputeInitial(w http.ResponseWriter, r *http.Request) {
	var req problemRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	method, err := service.ParseMethod(req.Method)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := service.Problem(req.Supply, req.Demand, req.Costs)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sol, err := s.svc.Solve(r.Context(), p, method)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task.NewResult(sol))
}

func (s *Server) handleComputeOptimize(w http.ResponseWriter, r *http.Request) {
	var req optimizeRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Initial == nil || req.Initial.Allocation == nil {
		s.writeError(w, r, errs.New(errs.ErrCodeNoSolution, "initial.allocation is required"))
		return
	}
	costs, err := transport.NewMatrix(req.Costs)
	if err != nil {
		s.writeError(w, r, errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid couts: %v", err))
		return
	}
	sol, err := s.svc.Optimize(r.Context(), req.Initial.Solution(), costs)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task.NewResult(sol))
}

type verifyResponse struct {
	exact.Report
	Method string `json:"algo_utilise,omitempty"`
}

// handleComputeVerify checks a given plan against the exact optimum. When no
// plan is sent, the plan of the requested method is generated and checked.
func (s *Server) handleComputeVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := service.Problem(req.Supply, req.Demand, req.Costs)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var sol *transport.Solution
	var method string
	switch {
	case req.Solution != nil && req.Solution.Allocation != nil:
		sol = req.Solution.Solution()
	case req.Method != "":
		m, err := service.ParseMethod(req.Method)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if sol, err = s.svc.Solve(r.Context(), p, m); err != nil {
			s.writeError(w, r, err)
			return
		}
		method = string(m)
	default:
		s.writeError(w, r, errs.New(errs.ErrCodeNoSolution, "send a solution or an algo_utilise to verify"))
		return
	}

	report, err := s.svc.Verify(r.Context(), p, sol)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, verifyResponse{Report: report, Method: method})
}
