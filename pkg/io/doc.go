// Package io reads and writes transportation problems and solutions.
//
// # Overview
//
// Problems come from files written by hand or exported by the HTTP API;
// solutions are written for later optimization, rendering or inspection.
// The formats are designed for:
//
//   - Round trips through the HTTP API: a problem file can be POSTed as-is
//   - Hand editing: TOML problem files with plain English keys
//   - Chaining CLI commands: solve writes a solution that optimize reads
//
// # JSON Problem Format
//
// JSON files use the field names of the HTTP API:
//
//	{
//	  "nom": "Three depots",
//	  "offres": [50, 60, 40],
//	  "demandes": [30, 70, 50],
//	  "couts": [[2, 3, 4], [3, 2, 5], [4, 3, 2]],
//	  "algo_utilise": "hammer"
//	}
//
// "nom" and "algo_utilise" are optional.
//
// # TOML Problem Format
//
//	name   = "Three depots"
//	method = "penalty"
//	supply = [50, 60, 40]
//	demand = [30, 70, 50]
//	costs  = [[2, 3, 4], [3, 2, 5], [4, 3, 2]]
//
// [ImportProblem] picks the decoder from the file extension: ".toml" is
// TOML, anything else is JSON.
//
// # Solution Format
//
// Solutions are JSON objects with the allocation grid, where empty cells
// are null and epsilon cells are written as 1e-6:
//
//	{
//	  "allocation": [[30, 10, 10], [null, 60, null], [null, null, 40]],
//	  "cout_total": 330,
//	  "status": "optimal",
//	  "rounds": 1
//	}
//
// Use [ExportSolution] and [ImportSolution] for files, or [WriteSolution]
// and [ReadSolution] for any stream.
//
// # Validation
//
// Readers check syntax and shape (see [transport.NewProblem]) but not
// balance; that is the service layer's job.
package io
