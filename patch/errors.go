package patch

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPatchShape reports an operation missing its path, value or
	// source, or naming an unknown op.
	ErrInvalidPatchShape = errors.New("invalid patch shape")

	// ErrOperationFailed reports an operation that could not be applied:
	// unreachable pointer, index out of range, failed test or a move into
	// its own subtree.
	ErrOperationFailed = errors.New("operation failed")

	// ErrSchemaValidationFailed reports a patched document rejected by the
	// validator.
	ErrSchemaValidationFailed = errors.New("schema validation failed")
)

// OperationError identifies the operation that aborted a patch.
type OperationError struct {
	Index int
	Op    Operation
	Err   error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("operation %d (%s): %v", e.Index, e.Op, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

func failed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrOperationFailed, fmt.Sprintf(format, args...))
}
