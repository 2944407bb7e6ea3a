package flight

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/hugr-lab/rowfilter/table"
)

// ProjectSchema returns a schema containing only the specified columns, in
// the order given. If columns is empty, returns the full schema unchanged.
// Original schema metadata is preserved in the projected schema.
func ProjectSchema(schema *arrow.Schema, columns []string) (*arrow.Schema, error) {
	if len(columns) == 0 {
		return schema, nil
	}

	fields := make([]arrow.Field, 0, len(columns))
	for _, name := range columns {
		idx := schema.FieldIndices(name)
		if len(idx) == 0 {
			return nil, fmt.Errorf("%w: %s", table.ErrColumnNotFound, name)
		}
		fields = append(fields, schema.Field(idx[0]))
	}

	meta := schema.Metadata()
	return arrow.NewSchema(fields, &meta), nil
}
