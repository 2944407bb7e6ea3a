package flight

import (
	"github.com/apache/arrow-go/v18/arrow/flight"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hugr-lab/rowfilter/auth"
)

// ListFlights sends one FlightInfo per catalog table the caller may read.
// Each carries the table schema, its row count and an unfiltered ticket.
//
// Criteria parameter is currently ignored (returns all tables).
func (s *Server) ListFlights(criteria *flight.Criteria, stream flight.FlightService_ListFlightsServer) error {
	ctx := EnrichContextMetadata(stream.Context())
	logger := s.requestLogger(ctx, "ListFlights")

	names, err := s.catalog.Tables(ctx)
	if err != nil {
		logger.Error("Failed to list tables", "error", err)
		return statusFromError(err)
	}

	sent := 0
	for _, name := range names {
		if auth.AuthorizeTable(ctx, s.auth, name) != nil {
			continue
		}

		tbl, err := s.catalog.Table(ctx, name)
		if err != nil {
			logger.Error("Failed to get table", "table", name, "error", err)
			return statusFromError(err)
		}
		schema := tbl.Schema()
		rows := tbl.NumRows()
		tbl.Release()

		ticket, err := EncodeTicket(TicketData{Table: name})
		if err != nil {
			return status.Errorf(codes.Internal, "failed to encode ticket: %v", err)
		}

		info := &flight.FlightInfo{
			Schema: flight.SerializeSchema(schema, s.allocator),
			FlightDescriptor: &flight.FlightDescriptor{
				Type: flight.DescriptorPATH,
				Path: []string{name},
			},
			Endpoint: []*flight.FlightEndpoint{
				{Ticket: &flight.Ticket{Ticket: ticket}},
			},
			TotalRecords: int64(rows),
			TotalBytes:   -1,
		}
		if err := stream.Send(info); err != nil {
			logger.Error("Failed to send FlightInfo", "table", name, "error", err)
			return status.Errorf(codes.Internal, "failed to send flight info: %v", err)
		}
		sent++
	}

	logger.Debug("ListFlights completed successfully", "tables", sent)
	return nil
}
