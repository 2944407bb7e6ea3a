package rowfilter

import (
	"github.com/hugr-lab/rowfilter/filter"
	"github.com/hugr-lab/rowfilter/table"
)

// Apply returns the rows of tbl matching the filter text, in their original
// order and with every column. Blank text returns tbl itself (retained).
// The caller must Release the result.
func Apply(text string, tbl *table.Table) (*table.Table, error) {
	return filter.Apply(text, tbl)
}

// Evaluate returns the selection mask of the filter text over tbl.
func Evaluate(text string, tbl *table.Table) (filter.Mask, error) {
	return filter.Evaluate(text, tbl)
}
