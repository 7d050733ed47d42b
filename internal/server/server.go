package server

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vestatus/gomail/internal/logger"
	"github.com/vestatus/gomail/internal/service"
)

type Server struct {
	Config
	service *service.Service
}

func New(config Config, svc *service.Service) *Server {
	return &Server{
		Config:  config,
		service: svc,
	}
}

func (s *Server) sendBatches(ctx context.Context) error {
	log := logger.FromContext(ctx)

	for {
		start := time.Now()

		n, err := s.sendBatch(ctx)

		if service.IsFatal(err) {
			return err
		}
		if err != nil {
			log.WithError(err).Error("failed to send batch")
		}
		if n > 0 {
			log.WithField("messages", n).WithField("duration", time.Since(start).String()).Debug("batch done")
		}

		// iterations never start more often than MinIterationDuration
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.MinIterationDuration - time.Since(start)):
		}
	}
}

func (s *Server) sendBatch(ctx context.Context) (int, error) {
	if s.IterationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.IterationTimeout)
		defer cancel()
	}

	return s.service.SendNextBatch(ctx)
}

func (s *Server) reportHealth(ctx context.Context) error {
	ticker := time.NewTicker(s.HealthReportInterval)
	defer ticker.Stop()

	log := logger.FromContext(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			log.WithField("primary", s.service.Primary.Healthy()).
				WithField("secondary", s.service.Secondary.Healthy()).
				Info("provider health")
		}
	}
}

// Run drains the queues until ctx is done or a fatal error occurs.
func (s *Server) Run(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		return s.sendBatches(ctx)
	})
	if s.HealthReportInterval > 0 {
		eg.Go(func() error {
			return s.reportHealth(ctx)
		})
	}

	return eg.Wait()
}
