package catalog

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/hugr-lab/rowfilter/table"
)

// Static is an in-memory catalog holding immutable tables.
// Tables can be added at runtime; lookups never block on each other.
type Static struct {
	mu     sync.RWMutex
	tables map[string]*table.Table
}

// NewStatic creates an empty static catalog.
func NewStatic() *Static {
	return &Static{
		tables: make(map[string]*table.Table),
	}
}

// Add registers tbl under name. The catalog retains its own reference.
// Returns an error if name is empty or already registered.
func (c *Static) Add(name string, tbl *table.Table) error {
	if name == "" {
		return fmt.Errorf("table name cannot be empty")
	}
	if tbl == nil {
		return fmt.Errorf("table %s is nil", name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.tables[name]; ok {
		return fmt.Errorf("duplicate table name: %s", name)
	}
	tbl.Retain()
	c.tables[name] = tbl
	return nil
}

// Remove unregisters the table and releases the catalog's reference.
func (c *Static) Remove(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tbl, ok := c.tables[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}
	delete(c.tables, name)
	tbl.Release()
	return nil
}

// Tables implements Catalog.
func (c *Static) Tables(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	names := make([]string, 0, len(c.tables))
	for name := range c.tables {
		names = append(names, name)
	}
	c.mu.RUnlock()

	slices.Sort(names)
	return names, nil
}

// Table implements Catalog.
func (c *Static) Table(ctx context.Context, name string) (*table.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	tbl, ok := c.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}
	tbl.Retain()
	return tbl, nil
}

// Release drops every table reference held by the catalog.
func (c *Static) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for name, tbl := range c.tables {
		tbl.Release()
		delete(c.tables, name)
	}
}
