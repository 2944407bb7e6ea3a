package loader

import (
	"context"
	"fmt"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/ipc"

	"github.com/hugr-lab/rowfilter/filter"
	"github.com/hugr-lab/rowfilter/internal/serialize"
	"github.com/hugr-lab/rowfilter/table"
)

func loadIPCFile(path string, o Options) func() (*table.Table, error) {
	return func() (*table.Table, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open Arrow file: %w", err)
		}
		defer f.Close()

		r, err := ipc.NewFileReader(f, ipc.WithAllocator(o.Allocator))
		if err != nil {
			return nil, fmt.Errorf("failed to read Arrow file: %w", err)
		}
		defer r.Close()

		recs := make([]arrow.RecordBatch, 0, r.NumRecords())
		defer func() {
			for _, rec := range recs {
				rec.Release()
			}
		}()
		for i := 0; i < r.NumRecords(); i++ {
			rec, err := r.RecordAt(i)
			if err != nil {
				return nil, fmt.Errorf("failed to read record %d: %w", i, err)
			}
			recs = append(recs, rec)
		}

		return table.FromRecords(r.Schema(), recs, o.Allocator)
	}
}

func loadIPCStream(path string, o Options) func() (*table.Table, error) {
	return func() (*table.Table, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open Arrow stream: %w", err)
		}
		defer f.Close()
		return serialize.ReadStream(f, o.Allocator)
	}
}

// applyWhere runs load and filters the result with o.Where.
func applyWhere(ctx context.Context, load func() (*table.Table, error), o Options) (*table.Table, error) {
	tbl, err := load()
	if err != nil {
		return nil, err
	}
	if o.Where == "" {
		return tbl, nil
	}
	defer tbl.Release()

	engine := filter.NewEngine(&filter.EngineConfig{Allocator: o.Allocator, Logger: o.Logger})
	return engine.Apply(ctx, o.Where, tbl)
}
