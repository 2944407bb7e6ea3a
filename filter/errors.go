package filter

import (
	"errors"
	"fmt"
)

// Error kinds. Concrete errors wrap one of these, so callers match with errors.Is.
var (
	// ErrEmptyExpression indicates blank filter text passed to Parse.
	ErrEmptyExpression = errors.New("empty filter expression")

	// ErrInvalidComparison indicates a comparison with an empty column or value.
	ErrInvalidComparison = errors.New("invalid comparison: both column and value required")

	// ErrColumnNotFound indicates a named column is absent from the table.
	ErrColumnNotFound = errors.New("column not found")

	// ErrNoSearchableColumns indicates global search on a table without textual columns.
	ErrNoSearchableColumns = errors.New("no searchable columns found")

	// ErrTypeMismatch indicates the column kind does not support the operator.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrCannotParseValue indicates the value cannot be coerced for the comparison.
	ErrCannotParseValue = errors.New("cannot parse value")

	// ErrViewClosed indicates use of a View after Close.
	ErrViewClosed = errors.New("view is closed")
)

// Stage identifies where Apply or Evaluate failed.
type Stage string

const (
	StageParse Stage = "parse"
	StageEval  Stage = "eval"
)

// Error is returned by the facade functions. It records the failing stage and
// wraps the underlying error kind.
type Error struct {
	Stage Stage
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("filter %s error: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
