package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/simaogato/stockwalk/internal/domain"
	"github.com/simaogato/stockwalk/internal/usecase/average"
	"github.com/simaogato/stockwalk/internal/usecase/generator"
	"github.com/simaogato/stockwalk/internal/usecase/pricing"
	"github.com/simaogato/stockwalk/internal/usecase/registry"
)

const testToken = "stockwalk-token"

var asOf = domain.NewDate(2018, time.June, 21)

// startServer serves a registry of two instruments over an in-memory listener
func startServer(t *testing.T, days int) *PriceServiceClient {
	t.Helper()

	reg := registry.Build([]domain.Instrument{
		{Code: "0267.HK", Name: "CITIC", InitialPrice: decimal.RequireFromString("11.86")},
		{Code: "0700.HK", Name: "TENCENT", InitialPrice: decimal.RequireFromString("401.20")},
	}, generator.NewSeeded(21), asOf, days)

	pricingService := pricing.NewPricingService(reg, pricing.Config{ReferenceCode: "0267.HK"})
	averageService := average.NewAverageService(pricingService)

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(LoggingInterceptor(), AuthInterceptor(testToken)))
	RegisterPriceServiceServer(srv, NewServer(reg, pricingService, averageService))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return NewPriceServiceClient(conn)
}

func authed() context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), "authorization", testToken)
}

func TestServer_ListInstruments(t *testing.T) {
	client := startServer(t, 10)

	resp, err := client.ListInstruments(authed())

	require.NoError(t, err)
	require.Len(t, resp.Values, 2)
	first := resp.Values[0].GetStructValue().AsMap()
	assert.Equal(t, "0267.HK", first["code"])
	assert.Equal(t, "CITIC", first["name"])
	assert.Equal(t, "11.86", first["initial_price"])
}

func TestServer_GetClosingPrice(t *testing.T) {
	client := startServer(t, 10)

	resp, err := client.GetClosingPrice(authed(), "2018-06-20")

	require.NoError(t, err)
	_, err = decimal.NewFromString(resp.GetValue())
	assert.NoError(t, err)

	again, err := client.GetClosingPrice(authed(), "2018-06-20")
	require.NoError(t, err)
	assert.Equal(t, resp.GetValue(), again.GetValue())
}

func TestServer_GetClosingPrice_Errors(t *testing.T) {
	client := startServer(t, 10)

	_, err := client.GetClosingPrice(authed(), "20/06/2018")
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.GetClosingPrice(authed(), "2018-06-22")
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestServer_GetClosingPrices(t *testing.T) {
	client := startServer(t, generator.DefaultDays)

	resp, err := client.GetClosingPrices(authed(), "0700.HK")

	require.NoError(t, err)
	assert.Len(t, resp.Values, generator.DefaultDays)

	_, err = client.GetClosingPrices(authed(), "9999.HK")
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = client.GetClosingPrices(authed(), "")
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestServer_GetAverage(t *testing.T) {
	client := startServer(t, 100)

	resp, err := client.GetAverage(authed(), "0267.HK")

	require.NoError(t, err)
	assert.Greater(t, resp.GetValue(), 0.0)

	_, err = client.GetAverage(authed(), "9999.HK")
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestServer_GetAverage_EmptyHistory(t *testing.T) {
	client := startServer(t, 0)

	_, err := client.GetAverage(authed(), "0267.HK")

	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
}

func TestServer_RequiresToken(t *testing.T) {
	client := startServer(t, 10)

	_, err := client.ListInstruments(context.Background())

	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestMapError(t *testing.T) {
	assert.Nil(t, mapError(nil))
	assert.Equal(t, codes.NotFound, status.Code(mapError(domain.ErrNotFound)))
	assert.Equal(t, codes.FailedPrecondition, status.Code(mapError(domain.ErrDivisionByZero)))
	assert.Equal(t, codes.Internal, status.Code(mapError(domain.ErrSourceRead)))
}

func TestRegisterPriceServiceServer_ServiceInfo(t *testing.T) {
	s := grpc.NewServer()
	defer s.Stop()
	RegisterPriceServiceServer(s, NewServer(nil, nil, nil))

	info, ok := s.GetServiceInfo()[PriceServiceName]
	require.True(t, ok)
	assert.Nil(t, info.Metadata, "no .proto file backs the service")

	methods := make([]string, 0, len(info.Methods))
	for _, m := range info.Methods {
		methods = append(methods, m.Name)
	}
	assert.ElementsMatch(t, []string{"ListInstruments", "GetClosingPrice", "GetClosingPrices", "GetAverage"}, methods)
}
