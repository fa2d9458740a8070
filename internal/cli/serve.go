package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	grpcadapter "github.com/simaogato/stockwalk/internal/adapter/grpc"
	"github.com/simaogato/stockwalk/internal/app"
	"github.com/simaogato/stockwalk/internal/metrics"
)

func newServeCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve memoized price lookups over gRPC",
		Long: `Load the instruments, generate their histories, then serve the
stockwalk.v1.PriceService gRPC API and a /metrics + /healthz HTTP endpoint
until SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, rc)
		},
	}
}

func runServe(cmd *cobra.Command, rc *RootConfig) error {
	cfg, err := setup(cmd, rc)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	health := metrics.NewHealthStatus()

	a, err := app.New(ctx, cfg, app.Options{})
	if err != nil {
		return err
	}
	defer a.Close()
	health.SetLoaded(a.Registry.Len())

	// Create gRPC server with request logging and AuthInterceptor
	grpcServer := grpclib.NewServer(
		grpclib.ChainUnaryInterceptor(
			grpcadapter.LoggingInterceptor(),
			grpcadapter.AuthInterceptor(cfg.Server.APIToken),
		),
	)
	grpcadapter.RegisterPriceServiceServer(grpcServer, grpcadapter.NewServer(a.Registry, a.Pricing, a.Average))
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Server.GRPCAddr, err)
	}

	metricsServer := metrics.NewServer(cfg.Server.MetricsAddr, a.Gatherer, health)
	metricsServer.Start()

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("gRPC server listening", "addr", cfg.Server.GRPCAddr)
		serveErr <- grpcServer.Serve(lis)
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		slog.Info("shutting down gracefully", "signal", sig.String())
	case err := <-serveErr:
		return fmt.Errorf("gRPC server stopped: %w", err)
	}

	grpcServer.GracefulStop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	metricsServer.Stop(shutdownCtx)
	slog.Info("servers stopped")

	return nil
}
