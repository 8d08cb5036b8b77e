// Package ftserr implements the error-kind taxonomy from the search
// kernel's error handling design: every error the kernel returns
// carries a Kind so callers can branch on failure class without
// string matching.
//
// No dependency in the retrieved corpus supplies an error-kind
// taxonomy (wukong uses bare fmt.Errorf/log.Fatal); this package is
// therefore built directly on the standard errors package, using
// the wrap/unwrap idiom rather than a third-party library. See
// DESIGN.md.
package ftserr

import (
	"errors"
	"fmt"
)

// Kind classifies an error by category.
type Kind string

const (
	AdapterUnavailable      Kind = "AdapterUnavailable"
	TransactionFailed       Kind = "TransactionFailed"
	InvalidPipelineInput    Kind = "InvalidPipelineInput"
	CodecError              Kind = "CodecError"
	InputRejected           Kind = "InputRejected"
	DocumentProcessingError Kind = "DocumentProcessingError"
)

// Error is the concrete error type returned by kernel operations.
type Error struct {
	Kind  Kind
	Op    string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an *Error with no wrapped cause.
func New(kind Kind, op string) *Error {
	return &Error{Kind: kind, Op: op}
}

// Wrap builds an *Error wrapping cause. If cause is nil, Wrap returns
// nil, matching the errors.Is/As-friendly convention of propagating
// "no error" unchanged.
func Wrap(kind Kind, op string, cause error) *Error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Cause: cause}
}

// Is reports whether err is an *Error of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
