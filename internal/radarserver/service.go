package radarserver

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/radar/internal/observability"
	"github.com/cory-johannsen/radar/internal/radar"
)

// Transport labels.
const (
	TransportHTTP = "http"
	TransportGRPC = "grpc"
)

// Service validates requests, resolves them, and records the outcome.
//
// Service holds no per-request state and is safe for concurrent use.
type Service struct {
	resolver *radar.LoggedResolver
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewService creates a Service.
//
// Precondition: logger must be non-nil. metrics may be nil (no metrics recorded).
func NewService(logger *zap.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		resolver: radar.NewLoggedResolver(logger.Named("resolver")),
		metrics:  metrics,
		logger:   logger,
	}
}

// Resolve validates req and selects its attack coordinate.
//
// Postcondition: Returns the Resolution, or an error wrapping
// ErrMalformedRequest, radar.ErrInvalidProtocol, radar.ErrExhaustedCandidateSet,
// or ctx's error when ctx is already done.
func (s *Service) Resolve(ctx context.Context, transport string, req Request) (radar.Resolution, error) {
	if err := ctx.Err(); err != nil {
		return radar.Resolution{}, err
	}

	start := time.Now()
	logger := s.logger.With(
		zap.String("request_id", uuid.New().String()),
		zap.String("transport", transport),
	)

	scan, protocols, err := req.Domain()
	if err != nil {
		s.reject(logger, transport, err)
		return radar.Resolution{}, err
	}

	res, err := s.resolver.Resolve(scan, protocols)
	elapsed := time.Since(start)
	outcome := observability.OutcomeResolved
	if err != nil {
		outcome = observability.OutcomeExhausted
		if errors.Is(err, radar.ErrInvalidProtocol) {
			outcome = observability.OutcomeInvalid
		}
	}
	if s.metrics != nil {
		s.metrics.RecordResolution(transport, outcome, elapsed, len(scan), req.Protocols)
	}

	if err != nil {
		logger.Info("resolution failed",
			zap.Strings("protocols", req.Protocols),
			zap.Int("scan_size", len(scan)),
			zap.Error(err),
			zap.Duration("elapsed", elapsed),
		)
		return radar.Resolution{}, err
	}

	logger.Info("target resolved",
		zap.Strings("protocols", req.Protocols),
		zap.Int("scan_size", len(scan)),
		zap.Int("stages", len(res.Stages)),
		zap.Float64("x", res.Target.X),
		zap.Float64("y", res.Target.Y),
		zap.Duration("elapsed", elapsed),
	)
	return res, nil
}

// Reject records a request that could not be decoded.
func (s *Service) Reject(transport string, err error) {
	s.reject(s.logger.With(zap.String("transport", transport)), transport, err)
}

func (s *Service) reject(logger *zap.Logger, transport string, err error) {
	logger.Info("request rejected", zap.Error(err))
	if s.metrics != nil {
		s.metrics.RecordRejected(transport)
	}
}
