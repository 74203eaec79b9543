package cartkit

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/hupe1980/cartkit/core"
	"github.com/hupe1980/cartkit/internal/resource"
)

var (
	// ErrNotFound is returned for a missing tree or model file.
	ErrNotFound = core.ErrNotFound

	// ErrFormat is matched by every error caused by malformed model data.
	ErrFormat = core.ErrFormat

	// ErrInvalidArgument indicates a bad caller-supplied value.
	ErrInvalidArgument = core.ErrInvalidArgument

	// ErrInvalidOperation indicates an operation on a malformed tree.
	ErrInvalidOperation = core.ErrInvalidOperation
)

// TreeError reports a failure on one named tree of a model.
//
// The original underlying error can be accessed via errors.Unwrap.
type TreeError struct {
	Tree  string
	Op    string
	cause error
}

func (e *TreeError) Error() string {
	return fmt.Sprintf("%s tree %q: %v", e.Op, e.Tree, e.cause)
}

func (e *TreeError) Unwrap() error { return e.cause }

func treeError(op, tree string, err error) error {
	if err == nil {
		return nil
	}
	return &TreeError{Tree: tree, Op: op, cause: translateError(err)}
}

func translateError(err error) error {
	if err == nil {
		return nil
	}

	// Not found unification.
	if errors.Is(err, fs.ErrNotExist) && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	if errors.Is(err, resource.ErrMemoryLimitExceeded) && !errors.Is(err, ErrInvalidArgument) {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	return err
}
