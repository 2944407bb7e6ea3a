package filter

import (
	"errors"
	"testing"
)

func TestParseComparison(t *testing.T) {
	tests := []struct {
		input  string
		column string
		op     ComparisonOp
		value  string
	}{
		{"InstrumentID:IC2602", "InstrumentID", OpContains, "IC2602"},
		{"Price > 5000", "Price", OpGreaterThan, "5000"},
		{"Price < 5000", "Price", OpLessThan, "5000"},
		{"Price >= 5000", "Price", OpGreaterOrEqual, "5000"},
		{"Price <= 5000", "Price", OpLessOrEqual, "5000"},
		{"Status = Closed", "Status", OpEqual, "Closed"},
		{"Status != Closed", "Status", OpNotEqual, "Closed"},
		{`Name = "Acme Corp"`, "Name", OpEqual, "Acme Corp"},
		{"Name = 'Acme'", "Name", OpEqual, "Acme"},
		{`  Name   =   "x"  `, "Name", OpEqual, "x"},
		// "=" is tried before ":" even though ":" occurs first
		{"Time:09:30 = x", "Time:09:30", OpEqual, "x"},
		// ">=" is tried before "=" so the first "=" is not used
		{"a = b >= c", "a = b", OpGreaterOrEqual, "c"},
		{"Time > 09:30:00", "Time", OpGreaterThan, "09:30:00"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expr, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			c, ok := expr.(*Comparison)
			if !ok {
				t.Fatalf("expected *Comparison, got %T", expr)
			}
			if c.Column != tt.column || c.Op != tt.op || c.Value != tt.value {
				t.Errorf("got {%q %v %q}, want {%q %v %q}", c.Column, c.Op, c.Value, tt.column, tt.op, tt.value)
			}
		})
	}
}

func TestParseGlobalSearch(t *testing.T) {
	expr, err := Parse("  IC2602 ")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	c, ok := expr.(*Comparison)
	if !ok {
		t.Fatalf("expected *Comparison, got %T", expr)
	}
	if !c.Global() || c.Op != OpContains || c.Value != "IC2602" {
		t.Errorf("unexpected comparison: %+v", c)
	}
}

func TestParseLogical(t *testing.T) {
	t.Run("and", func(t *testing.T) {
		expr, err := Parse("InstrumentID = IC2602 AND Price > 5000")
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		and, ok := expr.(*And)
		if !ok {
			t.Fatalf("expected *And, got %T", expr)
		}
		if and.Left.(*Comparison).Column != "InstrumentID" || and.Right.(*Comparison).Column != "Price" {
			t.Errorf("unexpected operands: %s", expr)
		}
	})

	t.Run("or binds loosest", func(t *testing.T) {
		expr, err := Parse("a = 1 AND b = 2 OR c = 3")
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		or, ok := expr.(*Or)
		if !ok {
			t.Fatalf("expected *Or, got %T", expr)
		}
		if _, ok := or.Left.(*And); !ok {
			t.Errorf("expected left *And, got %T", or.Left)
		}
		if _, ok := or.Right.(*Comparison); !ok {
			t.Errorf("expected right *Comparison, got %T", or.Right)
		}
	})

	t.Run("or splits at first occurrence", func(t *testing.T) {
		expr, err := Parse("a = 1 OR b = 2 OR c = 3")
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		or := expr.(*Or)
		if _, ok := or.Left.(*Comparison); !ok {
			t.Errorf("expected left *Comparison, got %T", or.Left)
		}
		if _, ok := or.Right.(*Or); !ok {
			t.Errorf("expected right *Or, got %T", or.Right)
		}
	})

	t.Run("case insensitive", func(t *testing.T) {
		expr, err := Parse("a = 1 and b = 2 or not c = 3")
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		or, ok := expr.(*Or)
		if !ok {
			t.Fatalf("expected *Or, got %T", expr)
		}
		if _, ok := or.Right.(*Not); !ok {
			t.Errorf("expected right *Not, got %T", or.Right)
		}
	})

	t.Run("not", func(t *testing.T) {
		expr, err := Parse("NOT Status = Closed")
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		not, ok := expr.(*Not)
		if !ok {
			t.Fatalf("expected *Not, got %T", expr)
		}
		if not.Inner.(*Comparison).Value != "Closed" {
			t.Errorf("unexpected inner: %s", not.Inner)
		}
	})

	t.Run("not applies after and split", func(t *testing.T) {
		expr, err := Parse("NOT a = 1 AND b = 2")
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		and, ok := expr.(*And)
		if !ok {
			t.Fatalf("expected *And, got %T", expr)
		}
		if _, ok := and.Left.(*Not); !ok {
			t.Errorf("expected left *Not, got %T", and.Left)
		}
	})

	t.Run("word containing or", func(t *testing.T) {
		expr, err := Parse("Vendor:ORACLE")
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if _, ok := expr.(*Comparison); !ok {
			t.Errorf("expected *Comparison, got %T", expr)
		}
	})
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input string
		want  error
	}{
		{"", ErrEmptyExpression},
		{"   \t ", ErrEmptyExpression},
		{"= 5", ErrInvalidComparison},
		{"Price >", ErrInvalidComparison},
		{`Name = ""`, ErrInvalidComparison},
		{"a = 1 AND = 2", ErrInvalidComparison},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Parse(tt.input)
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse(%q) error = %v, want %v", tt.input, err, tt.want)
			}
		})
	}
}

func TestExpressionString(t *testing.T) {
	expr, err := Parse("a = 1 AND NOT b:x OR hello")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	want := "a = 1 AND NOT b : x OR hello"
	if got := expr.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	cols := Columns(expr)
	if len(cols) != 3 || cols[0] != "a" || cols[1] != "b" || cols[2] != AllColumns {
		t.Errorf("Columns() = %v", cols)
	}
}
