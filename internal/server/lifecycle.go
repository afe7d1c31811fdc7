// Package server runs the radar service's listeners under one lifecycle with
// signal-driven graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Service is a long-running listener.
type Service interface {
	// Serve blocks until the service stops. Returning nil after Shutdown is
	// a clean exit.
	Serve() error
	// Shutdown stops the service, waiting for in-flight work until ctx expires.
	Shutdown(ctx context.Context) error
}

// FuncService adapts a serve/shutdown function pair into the Service interface.
type FuncService struct {
	ServeFn    func() error
	ShutdownFn func(ctx context.Context) error
}

// Serve calls the underlying serve function.
func (f *FuncService) Serve() error { return f.ServeFn() }

// Shutdown calls the underlying shutdown function.
func (f *FuncService) Shutdown(ctx context.Context) error { return f.ShutdownFn(ctx) }

// Lifecycle starts named services together and shuts them down in reverse
// registration order.
type Lifecycle struct {
	logger          *zap.Logger
	shutdownTimeout time.Duration
	services        []namedService
	signals         []os.Signal
}

type namedService struct {
	name    string
	service Service
}

// NewLifecycle creates a Lifecycle that allows each service shutdownTimeout
// to drain.
//
// Precondition: logger must be non-nil; shutdownTimeout must be > 0.
func NewLifecycle(logger *zap.Logger, shutdownTimeout time.Duration) *Lifecycle {
	return &Lifecycle{
		logger:          logger,
		shutdownTimeout: shutdownTimeout,
		signals:         []os.Signal{syscall.SIGINT, syscall.SIGTERM},
	}
}

// Add registers a named service. Add must not be called once Run has started.
//
// Precondition: name must be non-empty; svc must be non-nil.
func (l *Lifecycle) Add(name string, svc Service) {
	l.services = append(l.services, namedService{name: name, service: svc})
}

// Run starts all services and blocks until a termination signal, ctx
// cancellation, or the first service failure, then shuts every service down.
//
// Postcondition: All services have been shut down when Run returns. The
// returned error is the service failure that triggered shutdown, if any,
// joined with any shutdown errors.
func (l *Lifecycle) Run(ctx context.Context) error {
	start := time.Now()

	ctx, stop := signal.NotifyContext(ctx, l.signals...)
	defer stop()

	errCh := make(chan error, len(l.services))
	for _, ns := range l.services {
		go func() {
			l.logger.Info("starting service", zap.String("service", ns.name))
			err := ns.service.Serve()
			if err != nil {
				l.logger.Error("service failed",
					zap.String("service", ns.name),
					zap.Error(err),
					zap.Duration("uptime", time.Since(start)),
				)
				errCh <- fmt.Errorf("service %s: %w", ns.name, err)
			}
		}()
	}

	l.logger.Info("all services started",
		zap.Int("count", len(l.services)),
		zap.Duration("startup", time.Since(start)),
	)

	var cause error
	select {
	case err := <-errCh:
		cause = err
		l.logger.Error("service error, shutting down", zap.Error(err))
	case <-ctx.Done():
		l.logger.Info("shutting down", zap.NamedError("reason", context.Cause(ctx)))
	}

	err := errors.Join(cause, l.shutdown())
	l.logger.Info("shutdown complete", zap.Duration("total_uptime", time.Since(start)))
	return err
}

func (l *Lifecycle) shutdown() error {
	var errs []error
	for i := len(l.services) - 1; i >= 0; i-- {
		ns := l.services[i]
		svcStart := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), l.shutdownTimeout)
		err := ns.service.Shutdown(ctx)
		cancel()
		if err != nil {
			l.logger.Warn("service shutdown failed",
				zap.String("service", ns.name),
				zap.Error(err),
			)
			errs = append(errs, fmt.Errorf("stopping %s: %w", ns.name, err))
			continue
		}
		l.logger.Info("service stopped",
			zap.String("service", ns.name),
			zap.Duration("elapsed", time.Since(svcStart)),
		)
	}
	return errors.Join(errs...)
}
