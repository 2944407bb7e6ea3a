package flight

import (
	"context"

	"github.com/apache/arrow-go/v18/arrow/flight"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hugr-lab/rowfilter/filter"
	"github.com/hugr-lab/rowfilter/internal/recovery"
	"github.com/hugr-lab/rowfilter/internal/serialize"
)

// Action types handled by DoAction.
const (
	// ActionSnapshot returns the filtered table as a zstd-compressed Arrow IPC
	// stream. The action body is a ticket.
	ActionSnapshot = "snapshot"

	// ActionParse validates filter text and returns its canonical form.
	// The action body is the filter text.
	ActionParse = "parse"
)

var actionTypes = []*flight.ActionType{
	{Type: ActionSnapshot, Description: "compressed Arrow IPC snapshot of a filtered table; body is a ticket"},
	{Type: ActionParse, Description: "parse filter text and return its canonical form"},
}

// ListActions advertises the supported actions.
func (s *Server) ListActions(_ *flight.Empty, stream flight.FlightService_ListActionsServer) error {
	for _, at := range actionTypes {
		if err := stream.Send(at); err != nil {
			return status.Errorf(codes.Internal, "failed to send action type: %v", err)
		}
	}
	return nil
}

// DoAction executes server actions.
func (s *Server) DoAction(action *flight.Action, stream flight.FlightService_DoActionServer) error {
	ctx := EnrichContextMetadata(stream.Context())
	logger := s.requestLogger(ctx, "DoAction")

	logger.Debug("DoAction called",
		"type", action.GetType(),
		"body_size", len(action.GetBody()),
	)

	switch action.GetType() {
	case ActionSnapshot:
		return s.handleSnapshot(ctx, action, stream)
	case ActionParse:
		return s.handleParse(action, stream)
	default:
		return status.Errorf(codes.Unimplemented, "unknown action type: %s", action.GetType())
	}
}

func (s *Server) handleSnapshot(ctx context.Context, action *flight.Action, stream flight.FlightService_DoActionServer) error {
	logger := s.requestLogger(ctx, "DoAction/snapshot")

	td, err := DecodeTicket(action.GetBody())
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid ticket: %v", err)
	}

	data, err := recovery.RecoverToValue(logger, "snapshot", func() ([]byte, error) {
		out, err := s.resolve(ctx, td)
		if err != nil {
			return nil, err
		}
		defer out.Release()
		return serialize.EncodeTable(out, s.allocator)
	})
	if err != nil {
		logger.Debug("Snapshot failed", "table", td.Table, "error", err)
		return statusFromError(err)
	}

	logger.Debug("Snapshot encoded",
		"table", td.Table,
		"filter", td.Filter,
		"compressed_bytes", len(data),
	)
	return stream.Send(&flight.Result{Body: data})
}

func (s *Server) handleParse(action *flight.Action, stream flight.FlightService_DoActionServer) error {
	expr, err := filter.Parse(string(action.GetBody()))
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid filter: %v", err)
	}
	return stream.Send(&flight.Result{Body: []byte(expr.String())})
}
