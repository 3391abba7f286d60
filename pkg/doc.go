// Package pkg holds the libraries behind the transport command and server.
//
// # Overview
//
// A transportation problem ships goods from sources with fixed supplies to
// destinations with fixed demands at a per-unit cost for every route. The
// packages are organized in three layers:
//
//  1. [transport] - the solver core: northwest-corner and penalty (Vogel)
//     initial plans, degeneracy repair, and the stepping-stone optimizer
//  2. [exact], [render], [io] - an LP reference optimum, basis graphs, and
//     problem and solution files
//  3. [service], [task], [cache] - validation, coded errors, result caching,
//     and stored tasks with memory, file and MongoDB backends
//
// # Architecture
//
// The typical data flow:
//
//	problem file / HTTP request
//	         ↓
//	    [service] (validate, look up cache)
//	         ↓
//	    [transport] Generate → Optimize
//	         ↓
//	    [task] store, [render] graph, JSON output
//
// # Quick Start
//
//	p, _ := transport.NewProblem(
//	    []float64{50, 60, 40},
//	    []float64{30, 70, 50},
//	    [][]float64{{2, 3, 4}, {3, 2, 5}, {4, 3, 2}},
//	)
//	initial, _ := transport.Generate(p, transport.MethodCorner) // cost 350
//	best, _ := transport.Optimize(initial, p.Costs)             // cost 330
//
// Most callers go through [service.Service], which adds input checks,
// caching and error codes suitable for HTTP responses.
//
// # Supporting Packages
//
// [errors] defines coded errors and input validation. [observability]
// exposes hooks for metrics. [buildinfo] carries version information set at
// link time.
package pkg
