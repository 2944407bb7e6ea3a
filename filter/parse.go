package filter

import (
	"fmt"
	"strings"
)

const (
	orSeparator  = " OR "
	andSeparator = " AND "
	notPrefix    = "NOT "
)

// operatorTokens lists comparison tokens in the order they are tried.
// Two-character tokens come first so ">=" is not read as ">".
var operatorTokens = []struct {
	token string
	op    ComparisonOp
}{
	{">=", OpGreaterOrEqual},
	{"<=", OpLessOrEqual},
	{"!=", OpNotEqual},
	{"=", OpEqual},
	{">", OpGreaterThan},
	{"<", OpLessThan},
	{":", OpContains},
}

// Parse parses filter text into an expression tree.
//
// The grammar is flat: the whole input is split at the first " OR ", otherwise at
// the first " AND " (both case-insensitive), otherwise a leading "NOT " negates the
// rest, otherwise the text is a single comparison. There is no grouping.
//
// A comparison is split at the first occurrence of the first operator token from
// >=, <=, !=, =, >, <, : that appears anywhere in the text. Text with no operator
// becomes a global substring search across all textual columns.
//
// Error conditions:
//   - ErrEmptyExpression: blank input (or a blank side of AND/OR)
//   - ErrInvalidComparison: empty column or value around an operator
func Parse(text string) (Expression, error) {
	input := strings.TrimSpace(text)
	if input == "" {
		return nil, ErrEmptyExpression
	}

	upper := upperASCII(input)

	if pos := strings.Index(upper, orSeparator); pos >= 0 {
		left, right, err := parseSides(input, pos, len(orSeparator))
		if err != nil {
			return nil, err
		}
		return &Or{Left: left, Right: right}, nil
	}

	if pos := strings.Index(upper, andSeparator); pos >= 0 {
		left, right, err := parseSides(input, pos, len(andSeparator))
		if err != nil {
			return nil, err
		}
		return &And{Left: left, Right: right}, nil
	}

	if strings.HasPrefix(upper, notPrefix) {
		inner, err := Parse(input[len(notPrefix):])
		if err != nil {
			return nil, err
		}
		return &Not{Inner: inner}, nil
	}

	return parseComparison(input)
}

// parseSides parses the text on both sides of a separator found at pos.
func parseSides(input string, pos, width int) (Expression, Expression, error) {
	left, err := Parse(input[:pos])
	if err != nil {
		return nil, nil, err
	}
	right, err := Parse(input[pos+width:])
	if err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

func parseComparison(input string) (Expression, error) {
	for _, ot := range operatorTokens {
		pos := strings.Index(input, ot.token)
		if pos < 0 {
			continue
		}

		column := strings.TrimSpace(input[:pos])
		value := strings.TrimSpace(input[pos+len(ot.token):])
		value = strings.Trim(value, `"`)
		value = strings.Trim(value, `'`)

		if column == "" || value == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidComparison, input)
		}

		return &Comparison{Column: column, Op: ot.op, Value: value}, nil
	}

	return &Comparison{Column: AllColumns, Op: OpContains, Value: input}, nil
}
