package flight

import (
	"github.com/apache/arrow-go/v18/arrow/flight"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hugr-lab/rowfilter/internal/recovery"
	"github.com/hugr-lab/rowfilter/table"
)

// DoGet streams the rows of a table that match the ticket's filter.
//
// The handler:
//  1. Decodes the MessagePack ticket (table, filter, columns)
//  2. Authorizes and looks up the table in the catalog
//  3. Applies the filter with the server's engine
//  4. Projects the requested columns
//  5. Streams the result as one Arrow record batch
//
// Filter errors are reported as InvalidArgument, unknown tables as NotFound.
func (s *Server) DoGet(ticket *flight.Ticket, stream flight.FlightService_DoGetServer) error {
	ctx := EnrichContextMetadata(stream.Context())
	logger := s.requestLogger(ctx, "DoGet")

	td, err := DecodeTicket(ticket.GetTicket())
	if err != nil {
		logger.Error("Failed to decode ticket", "error", err)
		return status.Errorf(codes.InvalidArgument, "invalid ticket: %v", err)
	}

	logger.Debug("DoGet request",
		"table", td.Table,
		"filter", td.Filter,
		"columns", td.Columns,
	)

	out, err := recovery.RecoverToValue(logger, "DoGet", func() (*table.Table, error) {
		return s.resolve(ctx, td)
	})
	if err != nil {
		logger.Debug("DoGet failed", "table", td.Table, "error", err)
		return statusFromError(err)
	}
	defer out.Release()

	writer := flight.NewRecordWriter(stream, ipc.WithSchema(out.Schema()), ipc.WithAllocator(s.allocator))
	defer writer.Close()

	if err := ctx.Err(); err != nil {
		return statusFromError(err)
	}
	if err := writer.Write(out.Record()); err != nil {
		logger.Error("Failed to write record batch",
			"table", td.Table,
			"error", err,
		)
		return status.Errorf(codes.Internal, "failed to write batch: %v", err)
	}

	logger.Debug("DoGet completed successfully",
		"table", td.Table,
		"rows_sent", out.NumRows(),
		"columns_sent", out.NumColumns(),
	)
	return nil
}
