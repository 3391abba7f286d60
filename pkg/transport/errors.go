package transport

import "errors"

var (
	// ErrEmptyProblem is returned when the supply or demand vector is empty.
	// A problem needs at least one source and one destination.
	ErrEmptyProblem = errors.New("transport: problem has no sources or destinations")

	// ErrRaggedMatrix is returned when the rows of a matrix have different
	// lengths.
	ErrRaggedMatrix = errors.New("transport: matrix rows have different lengths")

	// ErrDimensionMismatch is returned when the cost matrix does not have
	// len(supply) rows and len(demand) columns, or when an allocation does not
	// match the shape of the cost matrix.
	ErrDimensionMismatch = errors.New("transport: dimension mismatch")

	// ErrNegativeValue is returned when a supply, demand or cost is negative.
	ErrNegativeValue = errors.New("transport: negative value")

	// ErrNonFinite is returned when a value is NaN or infinite.
	ErrNonFinite = errors.New("transport: NaN or Inf value")

	// ErrBasisSize is returned by [Optimize] when the initial allocation does
	// not hold exactly n+m-1 basic cells.
	ErrBasisSize = errors.New("transport: basis must have n+m-1 cells")

	// ErrUnknownMethod is returned by [ParseMethod] and [Generate] for an
	// unrecognized initial-solution method.
	ErrUnknownMethod = errors.New("transport: unknown method")
)
