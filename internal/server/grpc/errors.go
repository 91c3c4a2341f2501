package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/shipmarket/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps service errors onto gRPC codes. Internal errors are logged
// and replaced with a generic message.
func (s *GRPCServer) toStatus(ctx context.Context, method string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, common.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrPersistAfterMint):
		s.logger.Error(ctx, "persist after mint", "method", method, "error", err)
		return status.Error(codes.DataLoss, err.Error())
	case errors.Is(err, common.ErrTransaction):
		return status.Error(codes.Aborted, err.Error())
	case errors.Is(err, common.ErrTokenIDNotFound):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, "unauthorized")
	case errors.Is(err, common.ErrRefreshTokenExpired):
		return status.Error(codes.Unauthenticated, common.ErrRefreshTokenExpired.Error())
	case errors.Is(err, common.ErrorForbidden):
		return status.Error(codes.PermissionDenied, "forbidden")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	}

	s.logger.Error(ctx, "request failed", "method", method, "error", err)
	return status.Error(codes.Internal, "internal error")
}
