package table

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

// Kind is the closed set of column representations the filter engine understands.
type Kind int

const (
	// KindOther covers every Arrow type that is neither numeric, textual nor boolean
	// (dates, timestamps, decimals, nested types).
	KindOther Kind = iota
	// KindInt64 covers all signed and unsigned Arrow integer arrays.
	KindInt64
	// KindFloat64 covers float16, float32 and float64 arrays.
	KindFloat64
	// KindString covers utf8 and large utf8 arrays.
	KindString
	// KindBool covers boolean arrays.
	KindBool
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindInt64:
		return "int64"
	case KindFloat64:
		return "float64"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	default:
		return "other"
	}
}

// KindOf maps an Arrow data type onto a column kind.
func KindOf(dt arrow.DataType) Kind {
	switch dt.ID() {
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64:
		return KindInt64
	case arrow.FLOAT16, arrow.FLOAT32, arrow.FLOAT64:
		return KindFloat64
	case arrow.STRING, arrow.LARGE_STRING:
		return KindString
	case arrow.BOOL:
		return KindBool
	default:
		return KindOther
	}
}

// Column is a named, typed, fixed-length view over one Arrow array.
// The array is owned by the table's record batch.
type Column struct {
	name string
	kind Kind
	arr  arrow.Array
}

func newColumn(name string, arr arrow.Array) *Column {
	return &Column{
		name: name,
		kind: KindOf(arr.DataType()),
		arr:  arr,
	}
}

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// Kind returns the column kind.
func (c *Column) Kind() Kind { return c.kind }

// DataType returns the underlying Arrow type.
func (c *Column) DataType() arrow.DataType { return c.arr.DataType() }

// Array returns the underlying Arrow array.
func (c *Column) Array() arrow.Array { return c.arr }

// Len returns the number of slots.
func (c *Column) Len() int { return c.arr.Len() }

// IsNull reports whether slot i is null.
func (c *Column) IsNull(i int) bool { return c.arr.IsNull(i) }

// Numeric reports whether the column holds integers or floats.
func (c *Column) Numeric() bool { return c.kind == KindInt64 || c.kind == KindFloat64 }

// Textual reports whether the column holds strings.
func (c *Column) Textual() bool { return c.kind == KindString }

// Float64 returns slot i widened to float64.
//
// Every integer and floating representation is widened the same way. Integers
// beyond 2^53 lose precision; this is accepted so that comparisons have a single
// numeric domain. Non-numeric columns return 0.
func (c *Column) Float64(i int) float64 {
	switch a := c.arr.(type) {
	case *array.Int8:
		return float64(a.Value(i))
	case *array.Int16:
		return float64(a.Value(i))
	case *array.Int32:
		return float64(a.Value(i))
	case *array.Int64:
		return float64(a.Value(i))
	case *array.Uint8:
		return float64(a.Value(i))
	case *array.Uint16:
		return float64(a.Value(i))
	case *array.Uint32:
		return float64(a.Value(i))
	case *array.Uint64:
		return float64(a.Value(i))
	case *array.Float16:
		return float64(a.Value(i).Float32())
	case *array.Float32:
		return float64(a.Value(i))
	case *array.Float64:
		return a.Value(i)
	default:
		return 0
	}
}

// Int64 returns slot i of an integer column. Uint64 values above MaxInt64 wrap.
// Non-integer columns return 0.
func (c *Column) Int64(i int) int64 {
	switch a := c.arr.(type) {
	case *array.Int8:
		return int64(a.Value(i))
	case *array.Int16:
		return int64(a.Value(i))
	case *array.Int32:
		return int64(a.Value(i))
	case *array.Int64:
		return a.Value(i)
	case *array.Uint8:
		return int64(a.Value(i))
	case *array.Uint16:
		return int64(a.Value(i))
	case *array.Uint32:
		return int64(a.Value(i))
	case *array.Uint64:
		return int64(a.Value(i))
	default:
		return 0
	}
}

// String returns slot i of a textual column, or "" for other kinds.
func (c *Column) String(i int) string {
	switch a := c.arr.(type) {
	case *array.String:
		return a.Value(i)
	case *array.LargeString:
		return a.Value(i)
	default:
		return ""
	}
}

// Bool returns slot i of a boolean column, or false for other kinds.
func (c *Column) Bool(i int) bool {
	if a, ok := c.arr.(*array.Boolean); ok {
		return a.Value(i)
	}
	return false
}
