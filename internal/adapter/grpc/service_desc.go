package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// PriceService is served with protobuf well-known types only, so clients need no
// generated stubs: any gRPC client can call it with Empty, StringValue, DoubleValue
// and ListValue messages.
const (
	PriceServiceName = "stockwalk.v1.PriceService"

	ListInstrumentsMethod  = "/" + PriceServiceName + "/ListInstruments"
	GetClosingPriceMethod  = "/" + PriceServiceName + "/GetClosingPrice"
	GetClosingPricesMethod = "/" + PriceServiceName + "/GetClosingPrices"
	GetAverageMethod       = "/" + PriceServiceName + "/GetAverage"
)

// PriceServiceServer is the server API for PriceService.
type PriceServiceServer interface {
	// ListInstruments returns {code, name, initial_price} structs in load order.
	ListInstruments(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	// GetClosingPrice returns the reference instrument's price on a YYYY-MM-DD date.
	GetClosingPrice(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
	// GetClosingPrices returns every price of an instrument code, newest first.
	GetClosingPrices(context.Context, *wrapperspb.StringValue) (*structpb.ListValue, error)
	// GetAverage returns the mean closing price of an instrument code.
	GetAverage(context.Context, *wrapperspb.StringValue) (*wrapperspb.DoubleValue, error)
}

// RegisterPriceServiceServer registers srv on s.
func RegisterPriceServiceServer(s grpc.ServiceRegistrar, srv PriceServiceServer) {
	s.RegisterService(&PriceServiceDesc, srv)
}

// PriceServiceDesc is the grpc.ServiceDesc for PriceService.
var PriceServiceDesc = grpc.ServiceDesc{
	ServiceName: PriceServiceName,
	HandlerType: (*PriceServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListInstruments", Handler: listInstrumentsHandler},
		{MethodName: "GetClosingPrice", Handler: getClosingPriceHandler},
		{MethodName: "GetClosingPrices", Handler: getClosingPricesHandler},
		{MethodName: "GetAverage", Handler: getAverageHandler},
	},
	Streams: []grpc.StreamDesc{},
	// No Metadata: the service is built from well-known types, not a registered .proto file
}

func listInstrumentsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PriceServiceServer).ListInstruments(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ListInstrumentsMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PriceServiceServer).ListInstruments(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func getClosingPriceHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PriceServiceServer).GetClosingPrice(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetClosingPriceMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PriceServiceServer).GetClosingPrice(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func getClosingPricesHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PriceServiceServer).GetClosingPrices(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetClosingPricesMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PriceServiceServer).GetClosingPrices(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func getAverageHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PriceServiceServer).GetAverage(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetAverageMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PriceServiceServer).GetAverage(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// PriceServiceClient is the client API for PriceService.
type PriceServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewPriceServiceClient creates a client over cc.
func NewPriceServiceClient(cc grpc.ClientConnInterface) *PriceServiceClient {
	return &PriceServiceClient{cc: cc}
}

func (c *PriceServiceClient) ListInstruments(ctx context.Context, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, ListInstrumentsMethod, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *PriceServiceClient) GetClosingPrice(ctx context.Context, date string, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, GetClosingPriceMethod, wrapperspb.String(date), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *PriceServiceClient) GetClosingPrices(ctx context.Context, code string, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, GetClosingPricesMethod, wrapperspb.String(code), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *PriceServiceClient) GetAverage(ctx context.Context, code string, opts ...grpc.CallOption) (*wrapperspb.DoubleValue, error) {
	out := new(wrapperspb.DoubleValue)
	if err := c.cc.Invoke(ctx, GetAverageMethod, wrapperspb.String(code), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
