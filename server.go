package rowfilter

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"google.golang.org/grpc"

	"github.com/hugr-lab/rowfilter/auth"
	"github.com/hugr-lab/rowfilter/filter"
	"github.com/hugr-lab/rowfilter/flight"
)

// NewServer registers the rowfilter Flight service handlers on grpcServer.
//
// Returns an error wrapping ErrInvalidConfig if config is invalid (e.g., nil Catalog).
// Does NOT start the gRPC server - user controls lifecycle via grpcServer.Serve().
//
// For authentication, create the gRPC server with ServerOptions:
//
//	config := rowfilter.ServerConfig{
//	    Catalog: cat,
//	    Auth:    rowfilter.BearerAuth(validateToken),
//	}
//	grpcServer := grpc.NewServer(rowfilter.ServerOptions(config)...)
//	err := rowfilter.NewServer(grpcServer, config)
func NewServer(grpcServer *grpc.Server, config ServerConfig) error {
	if err := validateConfig(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	allocator := config.Allocator
	if allocator == nil {
		allocator = memory.DefaultAllocator
	}
	logger := newLogger(config)

	engine := filter.NewEngine(&filter.EngineConfig{
		Allocator: allocator,
		Logger:    logger,
		Parallel:  config.Parallel,
	})

	flightServer := flight.NewServer(config.Catalog, engine, config.Auth, allocator, logger)
	flight.RegisterFlightServer(grpcServer, flightServer)

	logger.Info("rowfilter Flight server registered",
		"has_auth", config.Auth != nil,
		"parallel", config.Parallel,
		"max_message_size", config.MaxMessageSize,
	)
	return nil
}

func newLogger(config ServerConfig) *slog.Logger {
	if config.Logger != nil {
		return config.Logger
	}
	level := slog.LevelInfo
	if config.LogLevel != nil {
		level = *config.LogLevel
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func validateConfig(config ServerConfig) error {
	if config.Catalog == nil {
		return fmt.Errorf("catalog is required")
	}
	if config.MaxMessageSize < 0 {
		return fmt.Errorf("max message size must be non-negative, got %d", config.MaxMessageSize)
	}
	return nil
}

// ServerOptions returns gRPC server options with authentication interceptors
// and message size limits from config.
func ServerOptions(config ServerConfig) []grpc.ServerOption {
	var opts []grpc.ServerOption

	if config.Auth != nil {
		opts = append(opts,
			grpc.UnaryInterceptor(auth.UnaryServerInterceptor(config.Auth)),
			grpc.StreamInterceptor(auth.StreamServerInterceptor(config.Auth)),
		)
	}

	if config.MaxMessageSize > 0 {
		opts = append(opts,
			grpc.MaxRecvMsgSize(config.MaxMessageSize),
			grpc.MaxSendMsgSize(config.MaxMessageSize),
		)
	}

	return opts
}
