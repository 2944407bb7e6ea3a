package flight

import (
	"context"

	"github.com/apache/arrow-go/v18/arrow/flight"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hugr-lab/rowfilter/filter"
	"github.com/hugr-lab/rowfilter/internal/recovery"
)

// GetFlightInfo reports how many rows of a table match a filter, plus the
// result schema and a ticket for DoGet.
//
// The descriptor must be PATH type. Path[0] is the table name and any further
// elements are columns to project. Cmd holds the filter text (empty matches
// every row). TotalRecords is the number of matching rows.
func (s *Server) GetFlightInfo(ctx context.Context, desc *flight.FlightDescriptor) (*flight.FlightInfo, error) {
	ctx = EnrichContextMetadata(ctx)
	logger := s.requestLogger(ctx, "GetFlightInfo")

	if desc.GetType() != flight.DescriptorPATH {
		return nil, status.Error(codes.InvalidArgument, "descriptor must be PATH type")
	}
	path := desc.GetPath()
	if len(path) == 0 || path[0] == "" {
		return nil, status.Error(codes.InvalidArgument, "path must start with a table name")
	}

	td := TicketData{
		Table:   path[0],
		Filter:  string(desc.GetCmd()),
		Columns: path[1:],
	}
	if len(td.Columns) == 0 {
		td.Columns = nil
	}

	logger.Debug("GetFlightInfo request",
		"table", td.Table,
		"filter", td.Filter,
		"columns", td.Columns,
	)

	tbl, err := s.lookupTable(ctx, td.Table)
	if err != nil {
		return nil, statusFromError(err)
	}
	defer tbl.Release()

	schema, err := ProjectSchema(tbl.Schema(), td.Columns)
	if err != nil {
		return nil, statusFromError(err)
	}

	mask, err := recovery.RecoverToValue(logger, "GetFlightInfo", func() (filter.Mask, error) {
		return s.engine.Evaluate(td.Filter, tbl)
	})
	if err != nil {
		logger.Debug("Filter evaluation failed", "table", td.Table, "error", err)
		return nil, statusFromError(err)
	}

	ticket, err := EncodeTicket(td)
	if err != nil {
		logger.Error("Failed to encode ticket", "table", td.Table, "error", err)
		return nil, status.Errorf(codes.Internal, "failed to encode ticket: %v", err)
	}

	info := &flight.FlightInfo{
		Schema:           flight.SerializeSchema(schema, s.allocator),
		FlightDescriptor: desc,
		Endpoint: []*flight.FlightEndpoint{
			{Ticket: &flight.Ticket{Ticket: ticket}},
		},
		TotalRecords: int64(mask.Count()),
		TotalBytes:   -1,
		Ordered:      true,
	}

	logger.Debug("GetFlightInfo successful",
		"table", td.Table,
		"matched", info.TotalRecords,
		"rows", tbl.NumRows(),
	)
	return info, nil
}
