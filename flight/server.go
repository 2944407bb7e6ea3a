// Package flight serves catalog tables over Arrow Flight with row filtering.
//
// A client names a table and a filter text; the server evaluates the filter
// with a filter.Engine and streams the matching rows back as Arrow record
// batches. Supported RPCs:
//   - ListFlights: one FlightInfo per catalog table
//   - GetFlightInfo: match count and schema for a table + filter
//   - DoGet: filtered and projected rows
//   - DoAction: "snapshot" (compressed IPC stream) and "parse" (canonical filter text)
package flight

import (
	"log/slog"

	"github.com/apache/arrow-go/v18/arrow/flight"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"google.golang.org/grpc"

	"github.com/hugr-lab/rowfilter/auth"
	"github.com/hugr-lab/rowfilter/catalog"
	"github.com/hugr-lab/rowfilter/filter"
)

// Server implements the Flight service handlers.
// Embeds BaseFlightServer so unsupported RPCs return Unimplemented.
type Server struct {
	flight.BaseFlightServer

	catalog   catalog.Catalog
	engine    *filter.Engine
	auth      auth.Authenticator
	allocator memory.Allocator
	logger    *slog.Logger
}

// NewServer creates a Flight server over cat.
// A nil engine uses filter defaults with allocator and logger; a nil
// authenticator disables per-table authorization.
func NewServer(cat catalog.Catalog, engine *filter.Engine, authenticator auth.Authenticator, allocator memory.Allocator, logger *slog.Logger) *Server {
	if allocator == nil {
		allocator = memory.DefaultAllocator
	}
	if logger == nil {
		logger = slog.Default()
	}
	if engine == nil {
		engine = filter.NewEngine(&filter.EngineConfig{Allocator: allocator, Logger: logger})
	}
	return &Server{
		catalog:   cat,
		engine:    engine,
		auth:      authenticator,
		allocator: allocator,
		logger:    logger,
	}
}

// RegisterFlightServer registers the Flight service on the provided gRPC server.
func RegisterFlightServer(grpcServer *grpc.Server, flightServer *Server) {
	flight.RegisterFlightServiceServer(grpcServer, flightServer)
}
