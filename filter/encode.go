package filter

import (
	"strings"

	"github.com/hugr-lab/rowfilter/table"
)

// Encoder converts parsed filter expressions to SQL strings.
// Implementations handle dialect-specific syntax.
type Encoder interface {
	// Encode converts an expression to a WHERE clause body, without the "WHERE"
	// keyword. Returns empty string if the expression cannot be encoded.
	Encode(expr Expression) string
}

// EncoderOptions configures encoding behavior.
type EncoderOptions struct {
	// ColumnMapping maps filter column names to target names.
	// Columns not in the map use their original names.
	ColumnMapping map[string]string

	// ColumnExpressions maps column names to SQL expressions.
	// Takes precedence over ColumnMapping.
	ColumnExpressions map[string]string

	// SearchColumns lists the textual columns a global search expands to.
	// A global search encodes to empty string when this is empty.
	SearchColumns []string

	// ColumnKinds types literals by the kind of the compared column, the way
	// EvaluateComparison does. Textual columns always compare against string
	// literals and numeric columns against DOUBLE literals. Comparisons on
	// columns missing from the map, and non-finite numeric literals, encode to
	// empty string. When nil, literals are typed by their text alone.
	ColumnKinds map[string]table.Kind

	// QuoteIdentifiers quotes every identifier, so column names keep their case.
	QuoteIdentifiers bool
}

// escapeString escapes single quotes in a string value for SQL.
func escapeString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// quoteLiteral returns a SQL string literal with proper escaping.
func quoteLiteral(s string) string {
	return "'" + escapeString(s) + "'"
}

// quoteIdentifier returns a quoted identifier if needed.
// DuckDB uses double quotes for identifiers.
func quoteIdentifier(name string) string {
	if needsQuoting(name) {
		return forceQuoteIdentifier(name)
	}
	return name
}

func forceQuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// needsQuoting returns true if the identifier is not a plain lower-risk name.
func needsQuoting(name string) bool {
	if len(name) == 0 {
		return true
	}

	c := name[0]
	if !isLetter(c) && c != '_' {
		return true
	}
	for i := 1; i < len(name); i++ {
		c = name[i]
		if !isLetter(c) && !isDigit(c) && c != '_' {
			return true
		}
	}

	// Mixed case must be quoted or DuckDB folds it
	if strings.ToLower(name) != name {
		return true
	}

	switch strings.ToUpper(name) {
	case "SELECT", "FROM", "WHERE", "AND", "OR", "NOT", "NULL", "TRUE", "FALSE",
		"INSERT", "UPDATE", "DELETE", "CREATE", "DROP", "ALTER", "TABLE", "INDEX",
		"JOIN", "LEFT", "RIGHT", "INNER", "OUTER", "ON", "AS", "IN", "IS", "LIKE",
		"BETWEEN", "EXISTS", "CASE", "WHEN", "THEN", "ELSE", "END", "ORDER", "BY",
		"GROUP", "HAVING", "LIMIT", "OFFSET", "UNION", "EXCEPT", "INTERSECT",
		"ALL", "DISTINCT", "VALUES", "SET", "INTO", "PRIMARY", "KEY", "FOREIGN",
		"REFERENCES", "CONSTRAINT", "DEFAULT", "CHECK", "UNIQUE", "ASC", "DESC",
		"NULLS", "FIRST", "LAST", "CAST", "INTERVAL", "DATE", "TIME", "TIMESTAMP":
		return true
	}

	return false
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
