package flight

import (
	"context"
	"log/slog"

	"google.golang.org/grpc/metadata"

	"github.com/hugr-lab/rowfilter/auth"
)

// Metadata header keys used for request correlation in logs.
const (
	// HeaderTraceID is the gRPC metadata header for distributed trace identifier.
	HeaderTraceID = "rowfilter-trace-id"
	// HeaderSessionID is the gRPC metadata header for client session identifier.
	HeaderSessionID = "rowfilter-client-session-id"
)

type contextKey int

const metaKey contextKey = iota

// ContextMeta carries request metadata extracted from gRPC headers.
type ContextMeta struct {
	TraceID   string
	SessionID string
}

// WithContextMeta returns a context carrying meta.
func WithContextMeta(ctx context.Context, meta ContextMeta) context.Context {
	return context.WithValue(ctx, metaKey, &meta)
}

// MetaFromContext returns the request metadata, or nil if not enriched.
func MetaFromContext(ctx context.Context) *ContextMeta {
	meta, _ := ctx.Value(metaKey).(*ContextMeta)
	return meta
}

// EnrichContextMetadata extracts correlation headers from the incoming gRPC
// metadata. Already enriched contexts are returned unchanged.
func EnrichContextMetadata(ctx context.Context) context.Context {
	if MetaFromContext(ctx) != nil {
		return ctx
	}
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ctx
	}

	var meta ContextMeta
	if values := md.Get(HeaderTraceID); len(values) > 0 {
		meta.TraceID = values[0]
	}
	if values := md.Get(HeaderSessionID); len(values) > 0 {
		meta.SessionID = values[0]
	}
	return WithContextMeta(ctx, meta)
}

// requestLogger returns the server logger annotated with request identity and
// correlation ids when present.
func (s *Server) requestLogger(ctx context.Context, method string) *slog.Logger {
	logger := s.logger.With("method", method)
	if identity := auth.IdentityFromContext(ctx); identity != "" {
		logger = logger.With("identity", identity)
	}
	if meta := MetaFromContext(ctx); meta != nil {
		if meta.TraceID != "" {
			logger = logger.With("trace_id", meta.TraceID)
		}
		if meta.SessionID != "" {
			logger = logger.With("session_id", meta.SessionID)
		}
	}
	return logger
}
