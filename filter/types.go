package filter

// AllColumns is the column name used by global search comparisons.
const AllColumns = "*"

// ComparisonOp identifies the comparison performed by a Comparison node.
type ComparisonOp int

const (
	OpEqual ComparisonOp = iota
	OpNotEqual
	OpGreaterThan
	OpLessThan
	OpGreaterOrEqual
	OpLessOrEqual
	OpContains
)

// String returns the filter token for the operator.
func (op ComparisonOp) String() string {
	switch op {
	case OpEqual:
		return "="
	case OpNotEqual:
		return "!="
	case OpGreaterThan:
		return ">"
	case OpLessThan:
		return "<"
	case OpGreaterOrEqual:
		return ">="
	case OpLessOrEqual:
		return "<="
	case OpContains:
		return ":"
	default:
		return "?"
	}
}

// Ordering reports whether the operator is one of >, <, >=, <=.
func (op ComparisonOp) Ordering() bool {
	switch op {
	case OpGreaterThan, OpLessThan, OpGreaterOrEqual, OpLessOrEqual:
		return true
	}
	return false
}

// Expression is a node of a parsed filter.
// Use a type switch over *Comparison, *And, *Or and *Not to inspect it.
type Expression interface {
	// String renders the node back to filter text.
	String() string

	expressionMarker()
}

// Comparison tests one column (or every textual column, see AllColumns)
// against a literal value.
type Comparison struct {
	Column string
	Op     ComparisonOp
	Value  string
}

// Global reports whether the comparison searches all textual columns.
func (c *Comparison) Global() bool { return c.Column == AllColumns }

func (c *Comparison) String() string {
	if c.Global() {
		return c.Value
	}
	return c.Column + " " + c.Op.String() + " " + c.Value
}

func (*Comparison) expressionMarker() {}

// And selects rows matched by both sides.
type And struct {
	Left  Expression
	Right Expression
}

func (a *And) String() string { return a.Left.String() + " AND " + a.Right.String() }

func (*And) expressionMarker() {}

// Or selects rows matched by either side.
type Or struct {
	Left  Expression
	Right Expression
}

func (o *Or) String() string { return o.Left.String() + " OR " + o.Right.String() }

func (*Or) expressionMarker() {}

// Not selects rows not matched by Inner.
type Not struct {
	Inner Expression
}

func (n *Not) String() string { return "NOT " + n.Inner.String() }

func (*Not) expressionMarker() {}

// Columns returns the distinct column names referenced by expr, in first-seen order.
// Global search comparisons contribute AllColumns.
func Columns(expr Expression) []string {
	var names []string
	seen := map[string]bool{}
	var walk func(Expression)
	walk = func(e Expression) {
		switch n := e.(type) {
		case *Comparison:
			if !seen[n.Column] {
				seen[n.Column] = true
				names = append(names, n.Column)
			}
		case *And:
			walk(n.Left)
			walk(n.Right)
		case *Or:
			walk(n.Left)
			walk(n.Right)
		case *Not:
			walk(n.Inner)
		}
	}
	walk(expr)
	return names
}

// upperASCII upper-cases ASCII letters only, so byte offsets into the
// result are valid offsets into s.
func upperASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}
