// Package recovery converts panics in filter evaluation and table handling into
// errors, so one malformed table cannot take down the Flight server.
package recovery

import (
	"log/slog"
	"runtime/debug"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// RecoverToError runs fn and turns a panic into a codes.Internal gRPC error.
//
// Example:
//
//	err := recovery.RecoverToError(logger, "DoGet", func() error {
//	    return stream.Send(data)
//	})
func RecoverToError(logger *slog.Logger, operation string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logPanic(logger, operation, r)
			err = status.Errorf(codes.Internal, "%s panicked: %v", operation, r)
		}
	}()

	return fn()
}

// RecoverToValue runs fn and turns a panic into a zero value and a
// codes.Internal gRPC error.
//
// Example:
//
//	out, err := recovery.RecoverToValue(logger, "Apply", func() (*table.Table, error) {
//	    return engine.Apply(ctx, text, tbl)
//	})
func RecoverToValue[T any](logger *slog.Logger, operation string, fn func() (T, error)) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			logPanic(logger, operation, r)
			var zero T
			result = zero
			err = status.Errorf(codes.Internal, "%s panicked: %v", operation, r)
		}
	}()

	return fn()
}

func logPanic(logger *slog.Logger, operation string, r any) {
	logger.Error("Panic recovered",
		"operation", operation,
		"panic", r,
		"stack", string(debug.Stack()),
	)
}
