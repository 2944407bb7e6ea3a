package rowfilter

import (
	"errors"
	"log/slog"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/hugr-lab/rowfilter/auth"
	"github.com/hugr-lab/rowfilter/catalog"
)

// ServerConfig contains configuration for the rowfilter Flight server.
type ServerConfig struct {
	// Catalog provides the tables clients can filter.
	// REQUIRED: MUST NOT be nil.
	Catalog catalog.Catalog

	// Auth provides authentication logic.
	// OPTIONAL: If nil, no authentication (all requests allowed).
	// If it also implements auth.TableAuthorizer, table access is checked per request.
	Auth auth.Authenticator

	// Allocator for Arrow memory management.
	// OPTIONAL: Uses memory.DefaultAllocator if nil.
	Allocator memory.Allocator

	// Logger for internal logging.
	// OPTIONAL: If nil, a text logger on stderr is created at LogLevel.
	Logger *slog.Logger

	// LogLevel sets the logging level.
	// OPTIONAL: If nil, uses Info level.
	// If Logger is also provided, LogLevel is ignored (use pre-configured logger).
	LogLevel *slog.Level

	// MaxMessageSize sets maximum gRPC message size in bytes.
	// OPTIONAL: If 0, uses gRPC default (4MB).
	// Filtered tables are sent as a single record batch, so size this for
	// the largest expected result.
	MaxMessageSize int

	// Parallel evaluates both sides of AND/OR concurrently.
	// OPTIONAL: Defaults to sequential evaluation.
	Parallel bool
}

// Standard errors returned by rowfilter package.
var (
	// ErrUnauthorized indicates authentication failed.
	// Return this from Authenticator.Authenticate() for invalid tokens.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidConfig indicates ServerConfig validation failed.
	ErrInvalidConfig = errors.New("invalid server config")
)
