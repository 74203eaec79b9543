package core

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat is matched by every malformed-input error (bad expression
	// syntax, bad binary headers, truncated streams, out-of-range set indices).
	ErrFormat = errors.New("invalid data format")

	// ErrInvalidArgument indicates a precondition violation by the caller.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidOperation indicates an operation on a structurally invalid
	// object (leaf with one child, propagation before leaves exist, ...).
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrNotFound is returned when a named tree, feature or blob does not exist.
	ErrNotFound = errors.New("not found")
)

// FormatError describes malformed input together with where it was found.
//
// Offset is a byte offset for binary data, a character position for
// expression text and a line number for text files; it is -1 when unknown.
type FormatError struct {
	Op     string
	Offset int64
	Detail string
	Err    error
}

// NewFormatError creates a FormatError without an underlying cause.
func NewFormatError(op string, offset int64, format string, args ...any) *FormatError {
	return &FormatError{Op: op, Offset: offset, Detail: fmt.Sprintf(format, args...)}
}

func (e *FormatError) Error() string {
	msg := e.Op
	if e.Offset >= 0 {
		msg = fmt.Sprintf("%s at %d", msg, e.Offset)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause, if any.
func (e *FormatError) Unwrap() error { return e.Err }

// Is reports ErrFormat as a match so callers can test with errors.Is.
func (e *FormatError) Is(target error) bool { return target == ErrFormat }
