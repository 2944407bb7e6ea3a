package flight

import (
	"context"

	"github.com/hugr-lab/rowfilter/auth"
	"github.com/hugr-lab/rowfilter/table"
)

// lookupTable authorizes and fetches the named table. The returned table is
// retained and must be released by the caller.
func (s *Server) lookupTable(ctx context.Context, name string) (*table.Table, error) {
	if err := auth.AuthorizeTable(ctx, s.auth, name); err != nil {
		return nil, err
	}
	return s.catalog.Table(ctx, name)
}

// resolve applies the ticket's filter and projection to its table.
// The returned table must be released by the caller.
func (s *Server) resolve(ctx context.Context, td *TicketData) (*table.Table, error) {
	src, err := s.lookupTable(ctx, td.Table)
	if err != nil {
		return nil, err
	}
	defer src.Release()

	filtered, err := s.engine.Apply(ctx, td.Filter, src)
	if err != nil {
		return nil, err
	}
	if len(td.Columns) == 0 {
		return filtered, nil
	}
	defer filtered.Release()

	return filtered.Project(td.Columns)
}
