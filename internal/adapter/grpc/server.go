package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/simaogato/stockwalk/internal/domain"
	"github.com/simaogato/stockwalk/internal/usecase/average"
	"github.com/simaogato/stockwalk/internal/usecase/pricing"
)

// Server implements the PriceService gRPC server
type Server struct {
	Registry       domain.StockRegistry
	PricingService *pricing.PricingService
	AverageService *average.AverageService
}

// NewServer creates a new gRPC server instance
func NewServer(
	registry domain.StockRegistry,
	pricingService *pricing.PricingService,
	averageService *average.AverageService,
) *Server {
	return &Server{
		Registry:       registry,
		PricingService: pricingService,
		AverageService: averageService,
	}
}

// ListInstruments handles the ListInstruments RPC
func (s *Server) ListInstruments(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	instruments := s.Registry.All()

	values := make([]*structpb.Value, 0, len(instruments))
	for _, inst := range instruments {
		values = append(values, structpb.NewStructValue(&structpb.Struct{
			Fields: map[string]*structpb.Value{
				"code":          structpb.NewStringValue(inst.Code),
				"name":          structpb.NewStringValue(inst.Name),
				"initial_price": structpb.NewStringValue(inst.InitialPrice.String()),
			},
		}))
	}

	return &structpb.ListValue{Values: values}, nil
}

// GetClosingPrice handles the GetClosingPrice RPC
func (s *Server) GetClosingPrice(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	// Parse date (YYYY-MM-DD)
	date, err := domain.ParseDate(req.GetValue())
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid date format: %v", err)
	}

	price, err := s.PricingService.ClosingPriceOn(ctx, date)
	if err != nil {
		return nil, mapError(err)
	}

	return wrapperspb.String(price.StringFixed(2)), nil
}

// GetClosingPrices handles the GetClosingPrices RPC
func (s *Server) GetClosingPrices(ctx context.Context, req *wrapperspb.StringValue) (*structpb.ListValue, error) {
	if req.GetValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "instrument code is required")
	}

	prices, err := s.PricingService.ClosingPricesFor(ctx, req.GetValue())
	if err != nil {
		return nil, mapError(err)
	}

	values := make([]*structpb.Value, 0, len(prices))
	for _, p := range prices {
		values = append(values, structpb.NewStringValue(p.StringFixed(2)))
	}

	return &structpb.ListValue{Values: values}, nil
}

// GetAverage handles the GetAverage RPC
func (s *Server) GetAverage(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.DoubleValue, error) {
	if req.GetValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "instrument code is required")
	}

	avg, err := s.AverageService.Average(ctx, req.GetValue())
	if err != nil {
		return nil, mapError(err)
	}

	return wrapperspb.Double(avg), nil
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return status.Errorf(codes.NotFound, "%s", err.Error())
	case errors.Is(err, domain.ErrDivisionByZero):
		return status.Errorf(codes.FailedPrecondition, "%s", err.Error())
	}

	// Default to Internal error for unknown errors
	return status.Errorf(codes.Internal, "%s", err.Error())
}
