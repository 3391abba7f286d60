package service

import (
	"errors"

	errs "github.com/Tafitantsu/Transport-cost/pkg/errors"
	"github.com/Tafitantsu/Transport-cost/pkg/exact"
	"github.com/Tafitantsu/Transport-cost/pkg/task"
	"github.com/Tafitantsu/Transport-cost/pkg/transport"
)

// translate maps sentinel errors from the lower layers onto error codes.
// Errors that already carry a code pass through unchanged.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var coded *errs.Error
	if errors.As(err, &coded) {
		return err
	}

	switch {
	case errors.Is(err, task.ErrNotFound):
		return errs.Wrap(errs.ErrCodeTaskNotFound, err, "task not found")
	case errors.Is(err, exact.ErrUnbalanced):
		return errs.Wrap(errs.ErrCodeUnbalanced, err, "total supply must equal total demand")
	case errors.Is(err, transport.ErrUnknownMethod):
		return errs.Wrap(errs.ErrCodeInvalidMethod, err, "unknown method")
	case errors.Is(err, transport.ErrDimensionMismatch), errors.Is(err, transport.ErrRaggedMatrix):
		return errs.Wrap(errs.ErrCodeDimensionMismatch, err, "%s", err.Error())
	case errors.Is(err, transport.ErrEmptyProblem),
		errors.Is(err, transport.ErrNegativeValue),
		errors.Is(err, transport.ErrNonFinite):
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "%s", err.Error())
	case errors.Is(err, transport.ErrBasisSize):
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "allocation is not a basic feasible solution")
	}
	return errs.Wrap(errs.ErrCodeInternal, err, "internal error")
}
