package filter

import (
	"math"
	"strconv"
	"strings"

	"github.com/hugr-lab/rowfilter/table"
)

// DuckDBEncoder encodes filter expressions to DuckDB SQL syntax, so a filter can
// be pushed down to a database instead of evaluated in memory.
//
// Without EncoderOptions.ColumnKinds, values that parse as numbers are emitted as
// numeric literals and everything else as string literals. With it, literals
// follow the compared column's kind as in EvaluateComparison. NOT wraps its
// operand in coalesce(..., false) so rows excluded for null data become selected,
// matching Mask.Not.
type DuckDBEncoder struct {
	opts *EncoderOptions
}

var _ Encoder = (*DuckDBEncoder)(nil)

// NewDuckDBEncoder creates a new DuckDB SQL encoder.
// If opts is nil, default options are used.
func NewDuckDBEncoder(opts *EncoderOptions) *DuckDBEncoder {
	if opts == nil {
		opts = &EncoderOptions{}
	}
	return &DuckDBEncoder{opts: opts}
}

// Encode converts an expression to a WHERE clause body.
// Returns empty string if the expression cannot be encoded.
func (e *DuckDBEncoder) Encode(expr Expression) string {
	if expr == nil {
		return ""
	}

	switch ex := expr.(type) {
	case *Comparison:
		return e.encodeComparison(ex)
	case *And:
		return e.encodeBinary(ex.Left, ex.Right, " AND ")
	case *Or:
		return e.encodeBinary(ex.Left, ex.Right, " OR ")
	case *Not:
		inner := e.Encode(ex.Inner)
		if inner == "" {
			return ""
		}
		return "NOT coalesce(" + inner + ", false)"
	default:
		return ""
	}
}

// encodeBinary encodes AND/OR. Both sides must encode, since dropping a side
// would change which rows are selected.
func (e *DuckDBEncoder) encodeBinary(l, r Expression, op string) string {
	left := e.Encode(l)
	right := e.Encode(r)
	if left == "" || right == "" {
		return ""
	}
	return "(" + left + op + right + ")"
}

func (e *DuckDBEncoder) encodeComparison(c *Comparison) string {
	if c.Global() {
		return e.encodeGlobalSearch(c.Value)
	}

	col := e.encodeColumn(c.Column)
	if c.Op == OpContains {
		return "contains(" + col + ", " + quoteLiteral(c.Value) + ")"
	}

	op := sqlOperator(c.Op)
	if op == "" {
		return ""
	}
	if e.opts.ColumnKinds == nil {
		return col + " " + op + " " + e.encodeValue(c.Value)
	}

	kind, ok := e.opts.ColumnKinds[c.Column]
	if !ok {
		return ""
	}
	if kind == table.KindString {
		return col + " " + op + " " + quoteLiteral(c.Value)
	}
	num, ok := ParseNumber(c.Value)
	if !ok || math.IsNaN(num) || math.IsInf(num, 0) {
		return ""
	}
	cmp := col + " " + op + " " + strconv.FormatFloat(num, 'g', -1, 64) + "::DOUBLE"
	// DuckDB orders NaN above every number, in-memory ordering never matches NaN
	if kind == table.KindFloat64 && c.Op.Ordering() {
		return "(" + cmp + " AND NOT isnan(" + col + "))"
	}
	return cmp
}

func sqlOperator(op ComparisonOp) string {
	switch op {
	case OpEqual:
		return "="
	case OpNotEqual:
		return "<>"
	case OpGreaterThan:
		return ">"
	case OpLessThan:
		return "<"
	case OpGreaterOrEqual:
		return ">="
	case OpLessOrEqual:
		return "<="
	}
	return ""
}

func (e *DuckDBEncoder) encodeGlobalSearch(pattern string) string {
	if len(e.opts.SearchColumns) == 0 {
		return ""
	}

	parts := make([]string, 0, len(e.opts.SearchColumns))
	for _, name := range e.opts.SearchColumns {
		parts = append(parts, "contains("+e.encodeColumn(name)+", "+quoteLiteral(pattern)+")")
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

// encodeColumn applies expression and name mappings to a column name.
func (e *DuckDBEncoder) encodeColumn(name string) string {
	if expr, ok := e.opts.ColumnExpressions[name]; ok {
		return expr
	}
	if mapped, ok := e.opts.ColumnMapping[name]; ok {
		name = mapped
	}
	if e.opts.QuoteIdentifiers {
		return forceQuoteIdentifier(name)
	}
	return quoteIdentifier(name)
}

// encodeValue emits a numeric literal when value parses as a number.
func (e *DuckDBEncoder) encodeValue(value string) string {
	num, ok := ParseNumber(value)
	if !ok {
		return quoteLiteral(value)
	}
	if math.IsNaN(num) || math.IsInf(num, 0) {
		return quoteLiteral(value) + "::DOUBLE"
	}
	return strconv.FormatFloat(num, 'g', -1, 64)
}
