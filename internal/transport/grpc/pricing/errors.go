package pricing

import (
	"context"
	"errors"
	"log"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/light-bringer/priceopt-service/internal/app/pricing/domain"
)

// mapDomainErrorToGRPC converts domain errors to gRPC status codes.
func mapDomainErrorToGRPC(productID string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		return status.Error(codes.NotFound, err.Error())

	case errors.Is(err, domain.ErrInsufficientData),
		errors.Is(err, domain.ErrUndefinedElasticity),
		errors.Is(err, domain.ErrInvalidPrice),
		errors.Is(err, domain.ErrMissingLag):
		return status.Error(codes.FailedPrecondition, err.Error())

	case errors.Is(err, domain.ErrInvalidProductID):
		return status.Error(codes.InvalidArgument, err.Error())

	case errors.Is(err, domain.ErrModelFit):
		log.Printf("grpc: model fit failed for %s: %v", productID, err)
		return status.Error(codes.Internal, err.Error())

	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request canceled")

	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")

	default:
		log.Printf("grpc: request for %s failed: %v", productID, err)
		return status.Error(codes.Internal, "internal server error")
	}
}
