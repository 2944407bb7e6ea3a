// Package table provides the read-only columnar table the filter engine works on.
//
// A Table wraps a single Arrow record batch. Columns are exposed through the
// closed Kind set (int64, float64, string, bool, other) with null-aware typed
// accessors. Tables are reference counted like Arrow values: every table
// returned by this package must be released by the caller.
package table

import (
	"context"
	"errors"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/compute"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

var (
	// ErrDuplicateColumn indicates two fields share the same name.
	ErrDuplicateColumn = errors.New("duplicate column name")

	// ErrColumnNotFound indicates a projection named an unknown column.
	ErrColumnNotFound = errors.New("column not found")

	// ErrMaskLength indicates a selection mask does not match the row count.
	ErrMaskLength = errors.New("mask length does not match row count")
)

// Table is an ordered set of uniquely named columns sharing one row count.
type Table struct {
	rec   arrow.RecordBatch
	cols  []*Column
	index map[string]int
}

// New wraps a record batch. The table retains the record; the caller keeps
// its own reference and must release it independently.
func New(rec arrow.RecordBatch) (*Table, error) {
	schema := rec.Schema()
	index := make(map[string]int, schema.NumFields())
	cols := make([]*Column, 0, schema.NumFields())
	for i, f := range schema.Fields() {
		if _, ok := index[f.Name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateColumn, f.Name)
		}
		index[f.Name] = i
		cols = append(cols, newColumn(f.Name, rec.Column(i)))
	}

	rec.Retain()
	return &Table{rec: rec, cols: cols, index: index}, nil
}

// FromRecords concatenates record batches sharing schema into one table.
func FromRecords(schema *arrow.Schema, recs []arrow.RecordBatch, mem memory.Allocator) (*Table, error) {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	if len(recs) == 1 {
		return New(recs[0])
	}

	cols := make([]arrow.Array, schema.NumFields())
	defer func() {
		for _, c := range cols {
			if c != nil {
				c.Release()
			}
		}
	}()

	var rows int64
	for _, r := range recs {
		rows += r.NumRows()
	}

	for i := range cols {
		if len(recs) == 0 {
			b := array.NewBuilder(mem, schema.Field(i).Type)
			cols[i] = b.NewArray()
			b.Release()
			continue
		}
		parts := make([]arrow.Array, len(recs))
		for j, r := range recs {
			parts[j] = r.Column(i)
		}
		merged, err := array.Concatenate(parts, mem)
		if err != nil {
			return nil, fmt.Errorf("failed to concatenate column %s: %w", schema.Field(i).Name, err)
		}
		cols[i] = merged
	}

	rec := array.NewRecordBatch(schema, cols, rows)
	defer rec.Release()
	return New(rec)
}

// NumRows returns the shared row count.
func (t *Table) NumRows() int { return int(t.rec.NumRows()) }

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int { return len(t.cols) }

// Schema returns the Arrow schema.
func (t *Table) Schema() *arrow.Schema { return t.rec.Schema() }

// Record returns the underlying record batch. It stays owned by the table.
func (t *Table) Record() arrow.RecordBatch { return t.rec }

// Columns returns the columns in schema order.
func (t *Table) Columns() []*Column { return t.cols }

// ColumnNames returns column names in schema order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.name
	}
	return names
}

// Column looks up a column by exact name.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.cols[i], true
}

// Retain increments the reference count.
func (t *Table) Retain() { t.rec.Retain() }

// Release decrements the reference count.
func (t *Table) Release() { t.rec.Release() }

// Filter returns a new table holding the rows whose mask entry is true,
// in original order and with the full column set.
func (t *Table) Filter(ctx context.Context, mem memory.Allocator, mask []bool) (*Table, error) {
	if len(mask) != t.NumRows() {
		return nil, fmt.Errorf("%w: mask has %d entries, table has %d rows", ErrMaskLength, len(mask), t.NumRows())
	}
	if mem == nil {
		mem = memory.DefaultAllocator
	}

	b := array.NewBooleanBuilder(mem)
	defer b.Release()
	b.AppendValues(mask, nil)
	sel := b.NewBooleanArray()
	defer sel.Release()

	ctx = compute.WithAllocator(ctx, mem)
	out, err := compute.FilterRecordBatch(ctx, t.rec, sel, compute.DefaultFilterOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to filter record: %w", err)
	}
	defer out.Release()

	return New(out)
}

// Project returns a table with only the named columns, in the given order.
// An empty list returns the table itself, retained.
func (t *Table) Project(names []string) (*Table, error) {
	if len(names) == 0 {
		t.Retain()
		return t, nil
	}

	fields := make([]arrow.Field, 0, len(names))
	arrs := make([]arrow.Array, 0, len(names))
	for _, name := range names {
		i, ok := t.index[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
		}
		fields = append(fields, t.rec.Schema().Field(i))
		arrs = append(arrs, t.rec.Column(i))
	}

	md := t.rec.Schema().Metadata()
	rec := array.NewRecordBatch(arrow.NewSchema(fields, &md), arrs, t.rec.NumRows())
	defer rec.Release()
	return New(rec)
}
