// Package serialize encodes tables as ZStandard-compressed Arrow IPC streams.
// Used for Flight snapshot actions and for loading saved snapshots from disk.
package serialize

import (
	"bytes"
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/hugr-lab/rowfilter/table"
)

// EncodeTable serializes tbl to an Arrow IPC stream and compresses it.
func EncodeTable(tbl *table.Table, allocator memory.Allocator) ([]byte, error) {
	if allocator == nil {
		allocator = memory.DefaultAllocator
	}

	var buf bytes.Buffer
	writer := ipc.NewWriter(&buf, ipc.WithSchema(tbl.Schema()), ipc.WithAllocator(allocator))
	if err := writer.Write(tbl.Record()); err != nil {
		writer.Close()
		return nil, fmt.Errorf("failed to write IPC record: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close IPC writer: %w", err)
	}

	compressor, err := NewCompressor()
	if err != nil {
		return nil, err
	}
	defer compressor.Close()

	return compressor.Compress(buf.Bytes()), nil
}

// DecodeTable decompresses and reads a snapshot produced by EncodeTable.
// Multiple record batches in the stream are concatenated into one table.
func DecodeTable(data []byte, allocator memory.Allocator) (*table.Table, error) {
	if allocator == nil {
		allocator = memory.DefaultAllocator
	}

	decompressor, err := NewDecompressor()
	if err != nil {
		return nil, err
	}
	defer decompressor.Close()

	raw, err := decompressor.Decompress(data)
	if err != nil {
		return nil, err
	}

	return ReadStream(bytes.NewReader(raw), allocator)
}

// ReadStream reads an uncompressed Arrow IPC stream into one table.
func ReadStream(r io.Reader, allocator memory.Allocator) (*table.Table, error) {
	reader, err := ipc.NewReader(r, ipc.WithAllocator(allocator))
	if err != nil {
		return nil, fmt.Errorf("failed to open IPC stream: %w", err)
	}
	defer reader.Release()

	var recs []arrow.RecordBatch
	defer func() {
		for _, rec := range recs {
			rec.Release()
		}
	}()

	for reader.Next() {
		rec := reader.RecordBatch()
		rec.Retain()
		recs = append(recs, rec)
	}
	if err := reader.Err(); err != nil {
		return nil, fmt.Errorf("failed to read IPC stream: %w", err)
	}

	return table.FromRecords(reader.Schema(), recs, allocator)
}
