package rowfilter

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/hugr-lab/rowfilter/table"
)

// quotesTable builds a small market-data table used across the root tests.
func quotesTable(t testing.TB, mem memory.Allocator) *table.Table {
	t.Helper()
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "InstrumentID", Type: arrow.BinaryTypes.String},
		{Name: "Price", Type: arrow.PrimitiveTypes.Float64},
		{Name: "Volume", Type: arrow.PrimitiveTypes.Int64},
		{Name: "Status", Type: arrow.BinaryTypes.String},
	}, nil)

	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()
	b.Field(0).(*array.StringBuilder).AppendValues([]string{"IC2601", "IC2602", "IF2603", "IC2604"}, nil)
	b.Field(1).(*array.Float64Builder).AppendValues([]float64{100, 6000, 5000, 7200}, nil)
	b.Field(2).(*array.Int64Builder).AppendValues([]int64{10, 0, 25, 3}, nil)
	b.Field(3).(*array.StringBuilder).AppendValues([]string{"Open", "Closed", "Open", "Open"}, nil)
	rec := b.NewRecordBatch()
	defer rec.Release()

	tbl, err := table.New(rec)
	if err != nil {
		t.Fatalf("table.New failed: %v", err)
	}
	return tbl
}
