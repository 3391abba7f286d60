// Package transport solves the classical transportation problem.
//
// # Overview
//
// A transportation problem ships goods from n sources (each with a supply)
// to m destinations (each with a demand) at a per-unit cost c[i][j]. A plan
// is an n×m allocation matrix whose row sums equal the supplies and whose
// column sums equal the demands. This package builds such plans and then
// improves them toward minimum total cost.
//
// The package provides:
//
//   - [NorthwestCorner]: a diagonal sweep that produces a feasible plan quickly
//   - [Penalty]: the row/column opportunity-cost (Vogel) heuristic, usually
//     much closer to the optimum than the northwest corner
//   - [Optimize]: the stepping-stone method, which pivots along closed loops
//     of basic cells until no loop lowers the cost
//
// # Tableau and Degeneracy
//
// Plans live in a [Tableau], a dense n×m grid of [Cell] values. A cell is
// [Empty], [Basic] with a shipped quantity, or [Epsilon]. Epsilon cells carry
// no flow and no cost; they exist only so that the basis always has exactly
// n+m-1 cells, which the loop search relies on. Both generators finish with
// [RepairDegeneracy], which promotes the cheapest empty cells to epsilon until
// the count is reached.
//
// # Determinism
//
// Every scan is row-major and every tie is broken by scan order, so repeated
// calls on the same input always produce the same plan. The tie-breaking
// rules (rows before columns in penalty selection, lexicographically smallest
// leaving cell in a pivot) are observable on degenerate inputs and are kept
// stable across releases.
//
// # Preconditions
//
// Generators assume a balanced problem: the sum of supplies equals the sum of
// demands. The package does not check balance; see [Problem.Balanced] and the
// service layer. Shape errors (ragged matrices, mismatched dimensions,
// negative or non-finite values) are reported as errors wrapping the
// sentinels in this package.
//
// # Concurrency
//
// All functions are pure with respect to their inputs: each call copies what
// it mutates and returns fresh values. Different goroutines may solve
// different problems concurrently. A [Tableau] itself is not safe for
// concurrent mutation.
//
// # Diagnostics
//
// The solvers never log. Pass [WithObserver] to receive allocation, loop and
// pivot events for a single call; [Recorder] collects them into a [Trace].
package transport
