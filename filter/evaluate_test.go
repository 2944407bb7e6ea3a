package filter

import (
	"errors"
	"math"
	"strconv"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

func TestEvaluateComparisonNumeric(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer mem.AssertSize(t, 0)

	tbl := newTable(t, mem,
		col{name: "Price", values: []float64{100, 6000, 5000, 0}, valid: []bool{true, true, true, false}},
		col{name: "Qty", values: []int32{1, 10, 20, 0}, valid: []bool{true, true, true, false}},
	)
	defer tbl.Release()

	tests := []struct {
		filter string
		want   []bool
	}{
		{"Price > 5000", []bool{false, true, false, false}},
		{"Price >= 5000", []bool{false, true, true, false}},
		{"Price < 5000", []bool{true, false, false, false}},
		{"Price <= 5000", []bool{true, false, true, false}},
		{"Price = 5000", []bool{false, false, true, false}},
		{"Price != 5000", []bool{true, true, false, false}},
		{"Qty = 10", []bool{false, true, false, false}},
		{"Qty = 10.0", []bool{false, true, false, false}},
		{"Qty > 1e1", []bool{false, false, true, false}},
		{"Qty != 1", []bool{false, true, true, false}},
	}

	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			expr, err := Parse(tt.filter)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			mask, err := EvaluateComparison(expr.(*Comparison), tbl)
			if err != nil {
				t.Fatalf("EvaluateComparison failed: %v", err)
			}
			assertMask(t, mask, tt.want...)
		})
	}
}

func TestEvaluateComparisonString(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer mem.AssertSize(t, 0)

	tbl := newTable(t, mem,
		col{name: "Id", values: []string{"IC2601", "IC2602", "IF2603", ""}, valid: []bool{true, true, true, false}},
		col{name: "Time", values: []string{"09:30:00", "10:15:00", "14:59:59", "11:00:00"}},
	)
	defer tbl.Release()

	tests := []struct {
		filter string
		want   []bool
	}{
		{"Id:IC260", []bool{true, true, false, false}},
		{"Id = IC2602", []bool{false, true, false, false}},
		{"Id != IC2602", []bool{true, false, true, false}},
		{"Id = 5", []bool{false, false, false, false}},
		{"Time > 10:00:00", []bool{false, true, true, true}},
		{"Time <= 10:15:00", []bool{true, true, false, false}},
		{"Id < IC2602", []bool{true, false, false, false}},
	}

	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			expr, err := Parse(tt.filter)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			mask, err := EvaluateComparison(expr.(*Comparison), tbl)
			if err != nil {
				t.Fatalf("EvaluateComparison failed: %v", err)
			}
			assertMask(t, mask, tt.want...)
		})
	}
}

func TestEvaluateGlobalSearch(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer mem.AssertSize(t, 0)

	tbl := newTable(t, mem,
		col{name: "a", values: []string{"apple", "pear", "", "kiwi"}, valid: []bool{true, true, false, true}},
		col{name: "n", values: []int64{1, 2, 3, 4}},
		col{name: "b", values: []string{"x", "apricot", "ap", "y"}},
	)
	defer tbl.Release()

	mask, err := EvaluateComparison(&Comparison{Column: AllColumns, Op: OpContains, Value: "ap"}, tbl)
	if err != nil {
		t.Fatalf("EvaluateComparison failed: %v", err)
	}
	assertMask(t, mask, true, true, true, false)
}

func TestEvaluateComparisonErrors(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer mem.AssertSize(t, 0)

	tbl := newTable(t, mem,
		col{name: "n", values: []int64{1, 2}},
		col{name: "s", values: []string{"a", "b"}},
		col{name: "flag", values: []bool{true, false}},
		col{name: "day", values: []arrow.Date32{1, 2}},
	)
	defer tbl.Release()

	tests := []struct {
		name string
		cmp  Comparison
		want error
	}{
		{"missing column", Comparison{"qty", OpGreaterThan, "10"}, ErrColumnNotFound},
		{"contains on numeric", Comparison{"n", OpContains, "1"}, ErrTypeMismatch},
		{"equal non-numeric on numeric", Comparison{"n", OpEqual, "abc"}, ErrCannotParseValue},
		{"not equal non-numeric on bool", Comparison{"flag", OpNotEqual, "true"}, ErrCannotParseValue},
		{"equal numeric on bool", Comparison{"flag", OpEqual, "1"}, ErrTypeMismatch},
		{"ordering numeric on string", Comparison{"s", OpGreaterThan, "5"}, ErrTypeMismatch},
		{"ordering text on numeric", Comparison{"n", OpLessThan, "abc"}, ErrTypeMismatch},
		{"ordering text on date", Comparison{"day", OpGreaterOrEqual, "2024-01-01"}, ErrTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EvaluateComparison(&tt.cmp, tbl)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestEvaluateGlobalSearchWithoutTextColumns(t *testing.T) {
	tbl := newTable(t, memory.DefaultAllocator,
		col{name: "n", values: []int64{1, 2}},
		col{name: "flag", values: []bool{true, false}},
	)
	defer tbl.Release()

	_, err := EvaluateComparison(&Comparison{Column: AllColumns, Op: OpContains, Value: "ZZZ"}, tbl)
	if !errors.Is(err, ErrNoSearchableColumns) {
		t.Fatalf("expected ErrNoSearchableColumns, got %v", err)
	}
}

func TestNumericWidening(t *testing.T) {
	tbl := newTable(t, memory.DefaultAllocator,
		col{name: "i", values: []int64{-3, 0, 7, 9007199254740993}},
	)
	defer tbl.Release()

	for _, value := range []string{"-3", "0", "7", "7.0", "9007199254740992"} {
		t.Run(value, func(t *testing.T) {
			mask, err := EvaluateComparison(&Comparison{Column: "i", Op: OpEqual, Value: value}, tbl)
			if err != nil {
				t.Fatalf("EvaluateComparison failed: %v", err)
			}
			c, _ := tbl.Column("i")
			for row := range mask {
				want := c.Float64(row) == mustFloat(t, value)
				if mask[row] != want {
					t.Errorf("row %d: got %v, want %v", row, mask[row], want)
				}
			}
		})
	}
}

func mustFloat(t *testing.T, s string) float64 {
	t.Helper()
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		t.Fatalf("bad float %q: %v", s, err)
	}
	return v
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		value string
		num   float64
		ok    bool
	}{
		{"5000", 5000, true},
		{"-1.5", -1.5, true},
		{".5", 0.5, true},
		{"1e3", 1000, true},
		{"1e400", math.Inf(1), true},
		{"-1e400", math.Inf(-1), true},
		{"1e-400", 0, true},
		{"inf", math.Inf(1), true},
		{"0x1p1", 0, false},
		{"-0X10", 0, false},
		{"1_000", 0, false},
		{"IC2602", 0, false},
		{"09:30:00", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			num, ok := ParseNumber(tt.value)
			if ok != tt.ok || (ok && num != tt.num) {
				t.Errorf("ParseNumber(%q) = (%v, %v), want (%v, %v)", tt.value, num, ok, tt.num, tt.ok)
			}
		})
	}
}

func TestEvaluateOutOfRangeAndHexValues(t *testing.T) {
	tbl := newTable(t, memory.DefaultAllocator,
		col{name: "Price", values: []float64{1, 2}},
		col{name: "Code", values: []string{"0x1p1", "2"}},
	)
	defer tbl.Release()

	mask, err := EvaluateComparison(&Comparison{Column: "Price", Op: OpLessThan, Value: "1e400"}, tbl)
	if err != nil {
		t.Fatalf("EvaluateComparison failed: %v", err)
	}
	assertMask(t, mask, true, true)

	mask, err = EvaluateComparison(&Comparison{Column: "Price", Op: OpGreaterThan, Value: "-1e400"}, tbl)
	if err != nil {
		t.Fatalf("EvaluateComparison failed: %v", err)
	}
	assertMask(t, mask, true, true)

	_, err = EvaluateComparison(&Comparison{Column: "Price", Op: OpEqual, Value: "0x1p1"}, tbl)
	if !errors.Is(err, ErrCannotParseValue) {
		t.Errorf("expected ErrCannotParseValue for hex value, got %v", err)
	}

	mask, err = EvaluateComparison(&Comparison{Column: "Code", Op: OpEqual, Value: "0x1p1"}, tbl)
	if err != nil {
		t.Fatalf("EvaluateComparison failed: %v", err)
	}
	assertMask(t, mask, true, false)
}

func TestComparisonOpOrdering(t *testing.T) {
	ordering := map[ComparisonOp]bool{
		OpEqual:          false,
		OpNotEqual:       false,
		OpContains:       false,
		OpGreaterThan:    true,
		OpLessThan:       true,
		OpGreaterOrEqual: true,
		OpLessOrEqual:    true,
	}
	for op, want := range ordering {
		if op.Ordering() != want {
			t.Errorf("%s.Ordering() = %v, want %v", op, op.Ordering(), want)
		}
	}
}
