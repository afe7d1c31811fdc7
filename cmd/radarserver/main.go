// Package main provides the radar server binary that resolves attack targets
// over HTTP and gRPC.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/cory-johannsen/radar/internal/config"
	"github.com/cory-johannsen/radar/internal/observability"
	"github.com/cory-johannsen/radar/internal/radarserver"
	"github.com/cory-johannsen/radar/internal/server"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file; empty = defaults and RADAR_ environment only")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting radar server",
		zap.String("http_addr", cfg.HTTP.Addr()),
		zap.Bool("grpc_enabled", cfg.GRPC.Enabled),
		zap.Bool("metrics_enabled", cfg.Metrics.Enabled),
	)

	var (
		metrics        *observability.Metrics
		metricsHandler http.Handler
	)
	if cfg.Metrics.Enabled {
		metrics = observability.NewMetrics(cfg.Metrics, nil)
		metricsHandler = metrics.Handler()
	}

	svc := radarserver.NewService(logger, metrics)
	handler := radarserver.NewHTTPHandler(svc, logger, cfg.HTTP.MaxBodyBytes, cfg.Metrics.Path, metricsHandler)

	httpServer := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		ErrorLog:     zap.NewStdLog(logger.Named("http")),
	}

	lifecycle := server.NewLifecycle(logger, cfg.HTTP.ShutdownTimeout)

	lifecycle.Add("http", &server.FuncService{
		ServeFn: func() error {
			lis, err := net.Listen("tcp", httpServer.Addr)
			if err != nil {
				return fmt.Errorf("listening on %s: %w", httpServer.Addr, err)
			}
			logger.Info("HTTP server listening", zap.String("addr", lis.Addr().String()))
			if err := httpServer.Serve(lis); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
		ShutdownFn: httpServer.Shutdown,
	})

	if cfg.GRPC.Enabled {
		grpcServer := grpc.NewServer()
		radarserver.RegisterRadarServer(grpcServer, radarserver.NewGRPCService(svc))

		lifecycle.Add("grpc", &server.FuncService{
			ServeFn: func() error {
				lis, err := net.Listen("tcp", cfg.GRPC.Addr())
				if err != nil {
					return fmt.Errorf("listening on %s: %w", cfg.GRPC.Addr(), err)
				}
				logger.Info("gRPC server listening", zap.String("addr", lis.Addr().String()))
				return grpcServer.Serve(lis)
			},
			ShutdownFn: func(ctx context.Context) error {
				stopped := make(chan struct{})
				go func() {
					grpcServer.GracefulStop()
					close(stopped)
				}()
				select {
				case <-stopped:
					return nil
				case <-ctx.Done():
					grpcServer.Stop()
					return ctx.Err()
				}
			},
		})
	}

	logger.Info("radar server initialized", zap.Duration("startup", time.Since(start)))

	if err := lifecycle.Run(context.Background()); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
