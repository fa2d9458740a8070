//go:build integration

package integration

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	grpcadapter "github.com/simaogato/stockwalk/internal/adapter/grpc"
	"github.com/simaogato/stockwalk/internal/domain"
)

var (
	grpcClient *grpcadapter.PriceServiceClient
	grpcConn   *grpc.ClientConn
)

// TestMain connects to a running `stockwalk serve` instance
func TestMain(m *testing.M) {
	grpcAddr := getGRPCAddress()
	var err error
	grpcConn, err = grpc.NewClient(grpcAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to gRPC server: %v", err))
	}

	grpcClient = grpcadapter.NewPriceServiceClient(grpcConn)

	code := m.Run()

	grpcConn.Close()
	os.Exit(code)
}

// getAuthContext returns a context with authorization metadata
func getAuthContext() context.Context {
	token := os.Getenv("API_TOKEN")
	if token == "" {
		token = "dev-token"
	}
	md := metadata.New(map[string]string{
		"authorization": token,
	})
	return metadata.NewOutgoingContext(context.Background(), md)
}

// getGRPCAddress returns the gRPC server address from environment or defaults
func getGRPCAddress() string {
	addr := os.Getenv("GRPC_ADDRESS")
	if addr == "" {
		addr = "localhost:8080"
	}
	return addr
}

// getHistoryDays returns the history length the server was started with
func getHistoryDays() int {
	if v := os.Getenv("STOCKWALK_HISTORY_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return 3650
}

// TestEndToEndFlow walks the read path: list -> series -> average
func TestEndToEndFlow(t *testing.T) {
	ctx := getAuthContext()

	// 1. ListInstruments
	list, err := grpcClient.ListInstruments(ctx)
	require.NoError(t, err, "ListInstruments should succeed")
	require.NotEmpty(t, list.GetValues(), "Server should have loaded at least one instrument")

	first := list.GetValues()[0].GetStructValue()
	require.NotNil(t, first, "Instrument entries should be structs")
	code := first.GetFields()["code"].GetStringValue()
	require.NotEmpty(t, code, "Instrument code should be set")

	// 2. GetClosingPrices
	series, err := grpcClient.GetClosingPrices(ctx, code)
	require.NoError(t, err, "GetClosingPrices should succeed")
	assert.Len(t, series.GetValues(), getHistoryDays(), "Series length should match the configured history")

	sum := decimal.Zero
	for _, v := range series.GetValues() {
		p, err := decimal.NewFromString(v.GetStringValue())
		require.NoError(t, err, "Prices should be decimal strings")
		assert.LessOrEqual(t, -p.Exponent(), int32(2), "Prices should carry at most two decimals")
		sum = sum.Add(p)
	}

	// 3. GetAverage agrees with the series
	avg, err := grpcClient.GetAverage(ctx, code)
	require.NoError(t, err, "GetAverage should succeed")
	if n := len(series.GetValues()); n > 0 {
		expected := sum.Div(decimal.NewFromInt(int64(n))).InexactFloat64()
		assert.InDelta(t, expected, avg.GetValue(), 0.01, "Average should match the mean of the series")
	}

	// 4. Repeated calls return the memoized series
	again, err := grpcClient.GetClosingPrices(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, len(series.GetValues()), len(again.GetValues()))
	for i := range series.GetValues() {
		assert.Equal(t, series.GetValues()[i].GetStringValue(), again.GetValues()[i].GetStringValue())
	}
}

// TestNegativeScenarios checks error status codes
func TestNegativeScenarios(t *testing.T) {
	ctx := getAuthContext()

	t.Run("UnknownCode", func(t *testing.T) {
		_, err := grpcClient.GetAverage(ctx, "NOPE.XX")
		require.Error(t, err)
		assert.Equal(t, codes.NotFound, status.Code(err), "Error code should be NotFound")
	})

	t.Run("EmptyCode", func(t *testing.T) {
		_, err := grpcClient.GetClosingPrices(ctx, "")
		require.Error(t, err)
		assert.Equal(t, codes.InvalidArgument, status.Code(err), "Error code should be InvalidArgument")
	})

	t.Run("MalformedDate", func(t *testing.T) {
		_, err := grpcClient.GetClosingPrice(ctx, "2024/01/01")
		require.Error(t, err)
		assert.Equal(t, codes.InvalidArgument, status.Code(err), "Error code should be InvalidArgument")
	})

	t.Run("DateOutsideHistory", func(t *testing.T) {
		_, err := grpcClient.GetClosingPrice(ctx, domain.NewDate(1900, 1, 1).String())
		require.Error(t, err)
		assert.Equal(t, codes.NotFound, status.Code(err), "Error code should be NotFound")
	})

	t.Run("MissingToken", func(t *testing.T) {
		_, err := grpcClient.ListInstruments(context.Background())
		require.Error(t, err)
		assert.Equal(t, codes.Unauthenticated, status.Code(err), "Error code should be Unauthenticated")
	})
}
