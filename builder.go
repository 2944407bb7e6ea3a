package rowfilter

import (
	"context"
	"fmt"

	"github.com/hugr-lab/rowfilter/catalog"
	"github.com/hugr-lab/rowfilter/loader"
	"github.com/hugr-lab/rowfilter/table"
)

// tableDef is one pending catalog entry: an in-memory table or a file to load.
type tableDef struct {
	name  string
	table *table.Table
	path  string
	opts  *loader.Options
}

// CatalogBuilder builds static catalogs using fluent API.
// Not thread-safe - use only during initialization.
type CatalogBuilder struct {
	defs  []tableDef
	built bool
}

// NewCatalogBuilder creates a new fluent catalog builder.
//
// Example:
//
//	cat, err := rowfilter.NewCatalogBuilder().
//	    Table("quotes", quotes).
//	    File("trades", "trades.parquet", &loader.Options{Where: "Qty > 0"}).
//	    Build(ctx)
func NewCatalogBuilder() *CatalogBuilder {
	return &CatalogBuilder{}
}

// Table adds an in-memory table. The built catalog holds its own reference.
func (cb *CatalogBuilder) Table(name string, tbl *table.Table) *CatalogBuilder {
	cb.defs = append(cb.defs, tableDef{name: name, table: tbl})
	return cb
}

// File adds a table loaded from path with loader.Load when Build runs.
func (cb *CatalogBuilder) File(name, path string, opts *loader.Options) *CatalogBuilder {
	cb.defs = append(cb.defs, tableDef{name: name, path: path, opts: opts})
	return cb
}

// Build validates the definitions, loads file tables and returns the catalog.
// Can only be called once. The caller must Release the catalog.
func (cb *CatalogBuilder) Build(ctx context.Context) (*catalog.Static, error) {
	if cb.built {
		return nil, fmt.Errorf("catalog already built")
	}

	seen := make(map[string]bool, len(cb.defs))
	for _, def := range cb.defs {
		if def.name == "" {
			return nil, fmt.Errorf("table name cannot be empty")
		}
		if seen[def.name] {
			return nil, fmt.Errorf("duplicate table name: %s", def.name)
		}
		seen[def.name] = true
		if def.table == nil && def.path == "" {
			return nil, fmt.Errorf("table %s has neither data nor a file path", def.name)
		}
	}

	cat := catalog.NewStatic()
	for _, def := range cb.defs {
		if err := addDef(ctx, cat, def); err != nil {
			cat.Release()
			return nil, err
		}
	}

	cb.built = true
	return cat, nil
}

func addDef(ctx context.Context, cat *catalog.Static, def tableDef) error {
	if def.table != nil {
		return cat.Add(def.name, def.table)
	}

	tbl, err := loader.Load(ctx, def.path, def.opts)
	if err != nil {
		return fmt.Errorf("failed to load table %s: %w", def.name, err)
	}
	defer tbl.Release()
	return cat.Add(def.name, tbl)
}
