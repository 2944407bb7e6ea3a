package rowfilter

import (
	"context"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
)

// TestMemoryLeaks uses memory.NewCheckedAllocator to detect leaked Arrow buffers.
func TestMemoryLeaks(t *testing.T) {
	allocator := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer allocator.AssertSize(t, 0)

	quotes := quotesTable(t, allocator)
	defer quotes.Release()

	t.Run("CatalogBuilder", func(t *testing.T) {
		cat, err := NewCatalogBuilder().Table("quotes", quotes).Build(context.Background())
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		tbl, err := cat.Table(context.Background(), "quotes")
		if err != nil {
			t.Fatalf("Table failed: %v", err)
		}
		tbl.Release()
		cat.Release()
	})

	t.Run("Apply", func(t *testing.T) {
		for _, text := range []string{"", "Price > 5000", "NOT Status = Closed AND IC", "Volume >= 10 OR InstrumentID:F"} {
			out, err := Apply(text, quotes)
			if err != nil {
				t.Fatalf("Apply(%q) failed: %v", text, err)
			}
			out.Release()
		}
	})

	t.Run("ApplyError", func(t *testing.T) {
		if _, err := Apply("Missing = 1", quotes); err == nil {
			t.Fatal("Expected error for missing column")
		}
	})
}
