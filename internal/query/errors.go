package query

import (
	"errors"
	"fmt"
)

// Sentinel errors for the query driver. Propagation policy: low-level
// codec errors bubble as-is; the driver surfaces NotSupported always, and
// treats a type mismatch raised while evaluating a WHERE filter as "row
// excluded" rather than a hard failure.
var (
	ErrNotSupported   = errors.New("query: operation not supported")
	ErrTypeMismatch   = errors.New("query: operand types do not support this operation")
	ErrColumnNotFound = errors.New("query: column not found")
	ErrTableNotFound  = errors.New("query: table not found")
)

// Error wraps a query-engine failure with the operation and context that
// triggered it: an operation name, an underlying sentinel, and a
// free-form context map.
type Error struct {
	Op      string
	Err     error
	Context map[string]any
}

func (e *Error) Error() string {
	if len(e.Context) == 0 {
		return fmt.Sprintf("query: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("query: %s: %v (context: %+v)", e.Op, e.Err, e.Context)
}

func (e *Error) Unwrap() error { return e.Err }

func wrap(op string, err error, ctx map[string]any) error {
	return &Error{Op: op, Err: err, Context: ctx}
}
