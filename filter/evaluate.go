package filter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hugr-lab/rowfilter/table"
)

// EvaluateComparison evaluates a single comparison against tbl.
// Null slots never match.
//
// Error conditions:
//   - ErrNoSearchableColumns: global search on a table without textual columns
//   - ErrColumnNotFound: the named column does not exist
//   - ErrTypeMismatch: the column kind cannot serve the operator
//   - ErrCannotParseValue: equality on a non-textual column with a non-numeric value
func EvaluateComparison(c *Comparison, tbl *table.Table) (Mask, error) {
	if c.Global() {
		return globalSearch(tbl, c.Value)
	}

	col, ok := tbl.Column(c.Column)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, c.Column)
	}

	switch {
	case c.Op == OpContains:
		if !col.Textual() {
			return nil, fmt.Errorf("%w: column %q is %s, %q requires a string column", ErrTypeMismatch, col.Name(), col.Kind(), c.Op)
		}
		return containsMask(col, c.Value), nil

	case c.Op == OpEqual || c.Op == OpNotEqual:
		want := c.Op == OpEqual
		if col.Textual() {
			return stringMask(col, func(s string) bool { return (s == c.Value) == want }), nil
		}
		num, ok := ParseNumber(c.Value)
		if !ok {
			return nil, fmt.Errorf("%w: %q is not a number and column %q is not a string column", ErrCannotParseValue, c.Value, col.Name())
		}
		if !col.Numeric() {
			return nil, fmt.Errorf("%w: column %q is %s, numeric %q requires a numeric column", ErrTypeMismatch, col.Name(), col.Kind(), c.Op)
		}
		return numericMask(col, func(v float64) bool { return (v == num) == want }), nil

	case c.Op.Ordering():
		if num, ok := ParseNumber(c.Value); ok {
			if !col.Numeric() {
				return nil, fmt.Errorf("%w: column %q is %s, numeric %q requires a numeric column", ErrTypeMismatch, col.Name(), col.Kind(), c.Op)
			}
			cmp := orderFunc[float64](c.Op)
			return numericMask(col, func(v float64) bool { return cmp(v, num) }), nil
		}
		// Non-numeric values compare lexicographically, which suits fixed-width
		// text such as "09:30:00" or zero-padded dates.
		if !col.Textual() {
			return nil, fmt.Errorf("%w: column %q is %s, %q requires a numeric or string column", ErrTypeMismatch, col.Name(), col.Kind(), c.Op)
		}
		cmp := orderFunc[string](c.Op)
		return stringMask(col, func(s string) bool { return cmp(s, c.Value) }), nil

	default:
		return nil, fmt.Errorf("%w: unknown operator %d", ErrInvalidComparison, int(c.Op))
	}
}

// ParseNumber reports whether value is a decimal floating point literal and
// returns its value. Out of range magnitudes saturate to ±Inf or zero instead of
// failing. Hexadecimal forms and digit separators are not numbers, so "0x1p1"
// compares as text.
func ParseNumber(value string) (float64, bool) {
	digits := strings.TrimLeft(value, "+-")
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") || strings.Contains(value, "_") {
		return 0, false
	}
	num, err := strconv.ParseFloat(value, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return num, true
}

// globalSearch ORs substring matches over every textual column.
func globalSearch(tbl *table.Table, pattern string) (Mask, error) {
	var mask Mask
	for _, col := range tbl.Columns() {
		if !col.Textual() {
			continue
		}
		m := containsMask(col, pattern)
		if mask == nil {
			mask = m
			continue
		}
		mask.orInPlace(m)
	}
	if mask == nil {
		return nil, ErrNoSearchableColumns
	}
	return mask, nil
}

func containsMask(col *table.Column, pattern string) Mask {
	return stringMask(col, func(s string) bool { return strings.Contains(s, pattern) })
}

func stringMask(col *table.Column, pred func(string) bool) Mask {
	mask := make(Mask, col.Len())
	for i := range mask {
		mask[i] = !col.IsNull(i) && pred(col.String(i))
	}
	return mask
}

func numericMask(col *table.Column, pred func(float64) bool) Mask {
	mask := make(Mask, col.Len())
	for i := range mask {
		mask[i] = !col.IsNull(i) && pred(col.Float64(i))
	}
	return mask
}

func orderFunc[T float64 | string](op ComparisonOp) func(a, b T) bool {
	switch op {
	case OpGreaterThan:
		return func(a, b T) bool { return a > b }
	case OpLessThan:
		return func(a, b T) bool { return a < b }
	case OpGreaterOrEqual:
		return func(a, b T) bool { return a >= b }
	default:
		return func(a, b T) bool { return a <= b }
	}
}
