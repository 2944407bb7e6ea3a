package filter

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
)

func TestViewKeepsLastGoodFilter(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer mem.AssertSize(t, 0)

	src := newTable(t, mem,
		col{name: "Status", values: []string{"Closed", "Open", "Closed"}},
		col{name: "Price", values: []float64{1, 2, 3}},
	)
	view := NewView(NewEngine(&EngineConfig{Allocator: mem}), src)
	src.Release()
	defer view.Close()

	ctx := context.Background()

	if err := view.SetFilter(ctx, "Status = Closed"); err != nil {
		t.Fatalf("SetFilter failed: %v", err)
	}
	if view.Filter() != "Status = Closed" {
		t.Errorf("Filter() = %q", view.Filter())
	}

	err := view.SetFilter(ctx, "Missing > 1")
	if !errors.Is(err, ErrColumnNotFound) {
		t.Fatalf("expected ErrColumnNotFound, got %v", err)
	}
	if view.Filter() != "Status = Closed" {
		t.Errorf("failed filter replaced active filter: %q", view.Filter())
	}

	tbl := view.Table()
	if tbl.NumRows() != 2 {
		t.Errorf("NumRows() = %d, want 2", tbl.NumRows())
	}
	tbl.Release()

	mask, err := view.Matches("Price >= 2")
	if err != nil {
		t.Fatalf("Matches failed: %v", err)
	}
	assertMask(t, mask, false, true, true)

	view.ClearFilter()
	if view.Filter() != "" {
		t.Errorf("Filter() = %q after ClearFilter", view.Filter())
	}
	tbl = view.Table()
	if tbl.NumRows() != 3 {
		t.Errorf("NumRows() = %d after ClearFilter, want 3", tbl.NumRows())
	}
	tbl.Release()
}

func TestViewClosed(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer mem.AssertSize(t, 0)

	src := newTable(t, mem, col{name: "Status", values: []string{"Closed", "Open"}})
	view := NewView(NewEngine(&EngineConfig{Allocator: mem}), src)
	src.Release()
	view.Close()

	if err := view.SetFilter(context.Background(), "Status = Open"); !errors.Is(err, ErrViewClosed) {
		t.Errorf("SetFilter: expected ErrViewClosed, got %v", err)
	}
	if _, err := view.Matches("Status = Open"); !errors.Is(err, ErrViewClosed) {
		t.Errorf("Matches: expected ErrViewClosed, got %v", err)
	}
	if tbl := view.Table(); tbl != nil {
		t.Errorf("Table() = %v after Close, want nil", tbl)
	}
	view.ClearFilter()
	view.Close()
}

func TestViewConcurrentClose(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer mem.AssertSize(t, 0)

	src := newTable(t, mem,
		col{name: "Status", values: []string{"Closed", "Open", "Closed", "Open"}},
		col{name: "Price", values: []float64{1, 2, 3, 4}},
	)
	view := NewView(NewEngine(&EngineConfig{Allocator: mem}), src)
	src.Release()

	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				err := view.SetFilter(ctx, "Price > 1")
				if err != nil && !errors.Is(err, ErrViewClosed) {
					t.Errorf("SetFilter failed: %v", err)
					return
				}
				if _, err := view.Matches("Status = Open"); err != nil && !errors.Is(err, ErrViewClosed) {
					t.Errorf("Matches failed: %v", err)
					return
				}
			}
		}()
	}
	view.Close()
	wg.Wait()
}
