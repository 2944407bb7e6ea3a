package flight

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hugr-lab/rowfilter/auth"
	"github.com/hugr-lab/rowfilter/catalog"
	"github.com/hugr-lab/rowfilter/filter"
	"github.com/hugr-lab/rowfilter/table"
)

// statusFromError maps domain errors onto gRPC status codes.
// Errors that already carry a status are returned unchanged.
func statusFromError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	var ferr *filter.Error
	switch {
	case errors.As(err, &ferr):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, catalog.ErrTableNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, table.ErrColumnNotFound):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, auth.ErrForbidden):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}
