package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/Tafitantsu/Transport-cost/pkg/transport"
)

// ProblemFile is the on-disk form of a transportation problem.
type ProblemFile struct {
	Name   string      `json:"nom,omitempty" toml:"name"`
	Method string      `json:"algo_utilise,omitempty" toml:"method"`
	Supply []float64   `json:"offres" toml:"supply"`
	Demand []float64   `json:"demandes" toml:"demand"`
	Costs  [][]float64 `json:"couts" toml:"costs"`
}

// Problem validates the file's data and converts it into a solver problem.
func (f ProblemFile) Problem() (transport.Problem, error) {
	return transport.NewProblem(f.Supply, f.Demand, f.Costs)
}

// ReadProblemJSON decodes a JSON problem from r. Unknown fields are
// rejected so that typos do not silently drop data.
func ReadProblemJSON(r io.Reader) (ProblemFile, error) {
	var f ProblemFile
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return ProblemFile{}, fmt.Errorf("decode: %w", err)
	}
	return f, nil
}

// ReadProblemTOML decodes a TOML problem from r.
func ReadProblemTOML(r io.Reader) (ProblemFile, error) {
	var f ProblemFile
	md, err := toml.NewDecoder(r).Decode(&f)
	if err != nil {
		return ProblemFile{}, fmt.Errorf("decode: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return ProblemFile{}, fmt.Errorf("decode: unknown key %q", undecoded[0].String())
	}
	return f, nil
}

// ImportProblem reads a problem file, choosing the format from its
// extension.
func ImportProblem(path string) (ProblemFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return ProblemFile{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var pf ProblemFile
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		pf, err = ReadProblemTOML(f)
	} else {
		pf, err = ReadProblemJSON(f)
	}
	if err != nil {
		return ProblemFile{}, fmt.Errorf("%s: %w", path, err)
	}
	return pf, nil
}

// ReadSolution decodes a solution written by [WriteSolution].
func ReadSolution(r io.Reader) (*transport.Solution, error) {
	var sf solutionFile
	if err := json.NewDecoder(r).Decode(&sf); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if sf.Allocation == nil {
		return nil, fmt.Errorf("decode: missing allocation")
	}
	s := &transport.Solution{
		Allocation: sf.Allocation,
		TotalCost:  sf.TotalCost,
		Status:     transport.Status(sf.Status),
		Rounds:     sf.Rounds,
	}
	if s.Status == "" {
		s.Status = transport.StatusInitial
	}
	return s, nil
}

// ImportSolution reads a solution file.
func ImportSolution(path string) (*transport.Solution, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	s, err := ReadSolution(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
