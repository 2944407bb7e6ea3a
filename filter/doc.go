// Package filter implements the row filter language: parsing filter text into an
// expression tree, evaluating the tree against a table.Table to a row Mask, and
// materializing the selected rows.
//
// # Basic Usage
//
//	out, err := filter.Apply("InstrumentID = IC2602 AND Price > 5000", tbl)
//	if err != nil {
//	    return err // *filter.Error, errors.Is matches the kind
//	}
//	defer out.Release()
//
// Evaluate returns only the mask, for callers that highlight rows in place:
//
//	mask, err := filter.Evaluate("Status:Open", tbl)
//
// # Grammar
//
// The grammar is deliberately flat. Text is split at the first " OR ", otherwise at
// the first " AND " (case-insensitive), otherwise a leading "NOT " negates the rest.
// Anything left is a comparison:
//
//	column >= value    column <= value    column != value
//	column = value     column > value     column < value
//	column : value     (substring)
//
// Text without an operator searches every string column for the substring.
// Values may be wrapped in single or double quotes. Parentheses are not
// supported, and a value containing an operator token is ambiguous.
//
// # Typing
//
// Equality is textual on string columns and numeric elsewhere. Ordering operators
// are numeric when the value parses as a number and lexicographic otherwise.
// All integer and floating columns are widened to float64 before comparing. Null
// slots never match, and NOT turns them into matches because a mask has no
// unknown state.
//
// # Errors
//
// Failures wrap one of ErrEmptyExpression, ErrInvalidComparison, ErrColumnNotFound,
// ErrNoSearchableColumns, ErrTypeMismatch or ErrCannotParseValue. Apply and
// Evaluate wrap them in *Error, which records the failing Stage.
//
// # SQL Pushdown
//
// DuckDBEncoder renders an expression as a DuckDB WHERE clause body:
//
//	enc := filter.NewDuckDBEncoder(&filter.EncoderOptions{
//	    ColumnMapping: map[string]string{"Price": "px"},
//	})
//	where := enc.Encode(expr)
package filter
