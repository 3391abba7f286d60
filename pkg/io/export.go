package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Tafitantsu/Transport-cost/pkg/transport"
)

type solutionFile struct {
	Allocation *transport.Tableau `json:"allocation"`
	TotalCost  float64            `json:"cout_total"`
	Status     string             `json:"status,omitempty"`
	Rounds     int                `json:"rounds,omitempty"`
}

// WriteSolution encodes s as indented JSON and writes it to w.
// The output can be read back with [ReadSolution].
func WriteSolution(s *transport.Solution, w io.Writer) error {
	out := solutionFile{
		Allocation: s.Allocation,
		TotalCost:  s.TotalCost,
		Status:     string(s.Status),
		Rounds:     s.Rounds,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportSolution writes s to a JSON file at path.
// This is a convenience wrapper around [WriteSolution] for file-based output.
func ExportSolution(s *transport.Solution, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteSolution(s, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteProblemJSON encodes a problem file as indented JSON.
func WriteProblemJSON(pf ProblemFile, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(pf); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
