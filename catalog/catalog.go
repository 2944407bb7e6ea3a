// Package catalog provides the registry of named tables that a Flight server
// exposes to remote clients.
//
// Implementations may be static (built once at startup) or dynamic (backed by
// live data). All methods MUST be goroutine-safe.
package catalog

import (
	"context"
	"errors"

	"github.com/hugr-lab/rowfilter/table"
)

// ErrTableNotFound is returned when a table name is not registered.
var ErrTableNotFound = errors.New("table not found")

// Catalog is the set of tables available for filtering.
type Catalog interface {
	// Tables returns the registered table names in a stable order.
	// Returns an empty slice (not nil) when no tables are registered.
	// MUST respect context cancellation.
	Tables(ctx context.Context) ([]string, error)

	// Table returns the table registered under name.
	// The returned table is retained; the caller MUST Release it.
	// Returns an error wrapping ErrTableNotFound for unknown names.
	Table(ctx context.Context, name string) (*table.Table, error)
}
