package pricing

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/light-bringer/priceopt-service/internal/app/pricing/queries/compute_elasticity"
	"github.com/light-bringer/priceopt-service/internal/app/pricing/queries/optimize_price"
)

// Handler implements PriceOptimizerServer on top of the pricing queries.
type Handler struct {
	optimizePrice     *optimize_price.Query
	computeElasticity *compute_elasticity.Query
}

var _ PriceOptimizerServer = (*Handler)(nil)

// NewHandler creates a new gRPC pricing handler.
func NewHandler(optimizePrice *optimize_price.Query, computeElasticity *compute_elasticity.Query) *Handler {
	return &Handler{
		optimizePrice:     optimizePrice,
		computeElasticity: computeElasticity,
	}
}

// OptimizePrice returns the optimization result with the same field names
// the HTTP API uses.
func (h *Handler) OptimizePrice(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	productID := req.GetValue()
	if productID == "" {
		return nil, status.Error(codes.InvalidArgument, "product_id is required")
	}

	result, err := h.optimizePrice.Execute(ctx, &optimize_price.Request{ProductID: productID})
	if err != nil {
		return nil, mapDomainErrorToGRPC(productID, err)
	}

	out, err := toStruct(result)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

// ComputeElasticity returns the point price elasticity.
func (h *Handler) ComputeElasticity(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.DoubleValue, error) {
	productID := req.GetValue()
	if productID == "" {
		return nil, status.Error(codes.InvalidArgument, "product_id is required")
	}

	estimate, err := h.computeElasticity.Execute(ctx, &compute_elasticity.Request{ProductID: productID})
	if err != nil {
		return nil, mapDomainErrorToGRPC(productID, err)
	}
	return wrapperspb.Double(estimate.Elasticity), nil
}

// toStruct converts a JSON-tagged value into a protobuf Struct.
func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to decode result: %w", err)
	}
	return structpb.NewStruct(fields)
}
