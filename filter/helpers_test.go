package filter

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/hugr-lab/rowfilter/table"
)

// col describes one test column. Values are []int64, []float64, []string or
// []bool; valid marks non-null slots (nil means all valid).
type col struct {
	name   string
	values any
	valid  []bool
}

func newTable(t *testing.T, mem memory.Allocator, cols ...col) *table.Table {
	t.Helper()

	fields := make([]arrow.Field, len(cols))
	for i, c := range cols {
		var dt arrow.DataType
		switch c.values.(type) {
		case []int64:
			dt = arrow.PrimitiveTypes.Int64
		case []int32:
			dt = arrow.PrimitiveTypes.Int32
		case []float64:
			dt = arrow.PrimitiveTypes.Float64
		case []string:
			dt = arrow.BinaryTypes.String
		case []bool:
			dt = arrow.FixedWidthTypes.Boolean
		case []arrow.Date32:
			dt = arrow.FixedWidthTypes.Date32
		default:
			t.Fatalf("unsupported test column type %T", c.values)
		}
		fields[i] = arrow.Field{Name: c.name, Type: dt, Nullable: true}
	}

	schema := arrow.NewSchema(fields, nil)
	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()

	for i, c := range cols {
		switch v := c.values.(type) {
		case []int64:
			b.Field(i).(*array.Int64Builder).AppendValues(v, c.valid)
		case []int32:
			b.Field(i).(*array.Int32Builder).AppendValues(v, c.valid)
		case []float64:
			b.Field(i).(*array.Float64Builder).AppendValues(v, c.valid)
		case []string:
			b.Field(i).(*array.StringBuilder).AppendValues(v, c.valid)
		case []bool:
			b.Field(i).(*array.BooleanBuilder).AppendValues(v, c.valid)
		case []arrow.Date32:
			b.Field(i).(*array.Date32Builder).AppendValues(v, c.valid)
		}
	}

	rec := b.NewRecordBatch()
	defer rec.Release()

	tbl, err := table.New(rec)
	if err != nil {
		t.Fatalf("table.New failed: %v", err)
	}
	return tbl
}

func assertMask(t *testing.T, got Mask, want ...bool) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("mask length = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("mask = %v, want %v", got, want)
		}
	}
}
