// Package errors defines the coded errors shared by the service layer, the
// CLI and the HTTP server.
//
// The solver core (pkg/transport) returns plain sentinel errors; the service
// translates them into an [*Error] carrying a [Code] at its boundary. Callers
// above the service branch on codes only:
//
//	if errors.Is(err, errors.ErrCodeUnbalanced) { ... }
//
// Every code belongs to a [Class], which decides whether the caller or the
// service is at fault.
package errors

import (
	"errors"
	"fmt"
)

// Code is a stable, machine-readable error identifier. Codes appear in
// HTTP error bodies, so renaming one is a breaking change.
type Code string

const (
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidMethod     Code = "INVALID_METHOD"
	ErrCodeInvalidFormat     Code = "INVALID_FORMAT"
	ErrCodeUnbalanced        Code = "UNBALANCED"
	ErrCodeDimensionMismatch Code = "DIMENSION_MISMATCH"
	ErrCodeNoSolution        Code = "NO_SOLUTION"

	ErrCodeTaskNotFound Code = "TASK_NOT_FOUND"

	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Class groups codes by who has to act on them.
type Class int

const (
	ClassInternal Class = iota // our fault; unknown codes land here
	ClassInvalid               // the request cannot be served as sent
	ClassNotFound              // the request names something that does not exist
)

var classes = map[Code]Class{
	ErrCodeInvalidInput:      ClassInvalid,
	ErrCodeInvalidMethod:     ClassInvalid,
	ErrCodeInvalidFormat:     ClassInvalid,
	ErrCodeUnbalanced:        ClassInvalid,
	ErrCodeDimensionMismatch: ClassInvalid,
	ErrCodeNoSolution:        ClassInvalid,
	ErrCodeTaskNotFound:      ClassNotFound,
}

// Class returns the class c belongs to.
func (c Code) Class() Class { return classes[c] }

// Error is an error with a code, a message fit for end users, and an
// optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is like New but records cause, which stays reachable through
// errors.Is and errors.As.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// GetCode returns the code of the outermost *Error in err's chain, or ""
// when there is none.
func GetCode(err error) Code {
	if e := asError(err); e != nil {
		return e.Code
	}
	return ""
}

// Is reports whether err's code is code.
func Is(err error, code Code) bool {
	return code != "" && GetCode(err) == code
}

// UserMessage returns the message of a coded error without its code and
// cause, or err.Error() for anything else.
func UserMessage(err error) string {
	if e := asError(err); e != nil {
		return e.Message
	}
	return err.Error()
}

// IsInvalid reports whether err was caused by the caller's input.
func IsInvalid(err error) bool { return classOf(err) == ClassInvalid }

// IsNotFound reports whether err names a missing resource.
func IsNotFound(err error) bool { return classOf(err) == ClassNotFound }

func classOf(err error) Class {
	code := GetCode(err)
	if code == "" {
		return ClassInternal
	}
	return code.Class()
}

func asError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}
