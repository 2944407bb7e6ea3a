// Package loader builds tables from files on disk.
//
// Delimited text, Parquet and JSON are read through an in-process DuckDB
// connection. Arrow IPC files and streams are read directly, and
// zstd-compressed IPC snapshots are decoded with the same codec the Flight
// snapshot action uses.
//
// Supported extensions:
//   - .csv, .tsv: DuckDB read_csv_auto
//   - .parquet: DuckDB read_parquet
//   - .json, .ndjson: DuckDB read_json_auto
//   - .arrow, .feather: Arrow IPC file format
//   - .arrows: Arrow IPC stream format
//   - .arrows.zst: compressed snapshot (see SaveSnapshot)
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/hugr-lab/rowfilter/internal/serialize"
	"github.com/hugr-lab/rowfilter/table"
)

// ErrUnsupportedFormat is returned for file extensions the loader cannot read.
var ErrUnsupportedFormat = errors.New("unsupported file format")

const snapshotExt = ".arrows.zst"

// Options configures Load.
type Options struct {
	// Allocator for Arrow memory management.
	// OPTIONAL: Uses memory.DefaultAllocator if nil.
	Allocator memory.Allocator

	// Delimiter overrides the CSV field separator.
	// OPTIONAL: DuckDB sniffs it for .csv; .tsv defaults to a tab.
	Delimiter string

	// Header says whether the first CSV line holds column names.
	// OPTIONAL: DuckDB sniffs it if nil.
	Header *bool

	// Where is filter text evaluated while reading.
	// For DuckDB-backed formats it is translated to a SQL WHERE clause and
	// follows DuckDB comparison rules. Filters that cannot be translated, and
	// all Arrow formats, are applied after loading with the filter engine.
	// OPTIONAL: empty loads every row.
	Where string

	// Logger for debug tracing.
	// OPTIONAL: Logging is discarded if nil.
	Logger *slog.Logger
}

func (o *Options) withDefaults() Options {
	var opts Options
	if o != nil {
		opts = *o
	}
	if opts.Allocator == nil {
		opts.Allocator = memory.DefaultAllocator
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return opts
}

// Load reads the file at path into a table. The caller must Release it.
func Load(ctx context.Context, path string, opts *Options) (*table.Table, error) {
	o := opts.withDefaults()

	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, snapshotExt) {
		return applyWhere(ctx, loadSnapshot(path, o), o)
	}

	ext := filepath.Ext(lower)
	o.Logger.Debug("Loading table", "path", path, "format", ext)

	switch ext {
	case ".csv", ".tsv", ".parquet", ".json", ".ndjson":
		return loadDuckDB(ctx, path, ext, o)
	case ".arrow", ".feather":
		return applyWhere(ctx, loadIPCFile(path, o), o)
	case ".arrows":
		return applyWhere(ctx, loadIPCStream(path, o), o)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// SaveSnapshot writes tbl as a zstd-compressed Arrow IPC stream readable by
// Load when path ends in .arrows.zst.
func SaveSnapshot(path string, tbl *table.Table, allocator memory.Allocator) error {
	data, err := serialize.EncodeTable(tbl, allocator)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

func loadSnapshot(path string, o Options) func() (*table.Table, error) {
	return func() (*table.Table, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read snapshot: %w", err)
		}
		return serialize.DecodeTable(data, o.Allocator)
	}
}
