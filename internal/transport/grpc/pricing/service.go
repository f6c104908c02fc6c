package pricing

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "priceopt.v1.PriceOptimizer"

// Full method names.
const (
	OptimizePriceMethod     = "/" + ServiceName + "/OptimizePrice"
	ComputeElasticityMethod = "/" + ServiceName + "/ComputeElasticity"
)

// PriceOptimizerServer is the server API of the price optimizer service.
// Requests carry the product id; the optimization result is returned as a
// JSON-shaped Struct.
type PriceOptimizerServer interface {
	OptimizePrice(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	ComputeElasticity(context.Context, *wrapperspb.StringValue) (*wrapperspb.DoubleValue, error)
}

// RegisterPriceOptimizerServer registers srv on s.
func RegisterPriceOptimizerServer(s grpc.ServiceRegistrar, srv PriceOptimizerServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// ServiceDesc describes the service for grpc.Server.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PriceOptimizerServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "OptimizePrice", Handler: optimizePriceHandler},
		{MethodName: "ComputeElasticity", Handler: computeElasticityHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "priceopt/v1/price_optimizer.proto",
}

func optimizePriceHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PriceOptimizerServer).OptimizePrice(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: OptimizePriceMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PriceOptimizerServer).OptimizePrice(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func computeElasticityHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PriceOptimizerServer).ComputeElasticity(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ComputeElasticityMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PriceOptimizerServer).ComputeElasticity(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// Client is a typed client for the price optimizer service.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps an established connection.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// OptimizePrice requests the optimal price for productID.
func (c *Client) OptimizePrice(ctx context.Context, productID string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, OptimizePriceMethod, wrapperspb.String(productID), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// ComputeElasticity requests the price elasticity of productID.
func (c *Client) ComputeElasticity(ctx context.Context, productID string, opts ...grpc.CallOption) (float64, error) {
	out := new(wrapperspb.DoubleValue)
	if err := c.cc.Invoke(ctx, ComputeElasticityMethod, wrapperspb.String(productID), out, opts...); err != nil {
		return 0, err
	}
	return out.GetValue(), nil
}
