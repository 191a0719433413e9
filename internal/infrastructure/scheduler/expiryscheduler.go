// Package scheduler runs periodic background maintenance tasks.
package scheduler

import (
	"context"
	"sync"
	"time"

	subscriptionUsecases "invitio/internal/application/subscription/usecases"
	"invitio/internal/shared/logger"
)

const defaultSweepInterval = 30 * time.Minute

// ExpiryScheduler periodically reverts cancelled subscriptions whose paid
// period has run out. Reads also expire lazily; the sweep keeps stored rows
// consistent for reporting.
type ExpiryScheduler struct {
	expireUC *subscriptionUsecases.ExpireSubscriptionsUseCase
	logger   logger.Interface
	interval time.Duration
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewExpiryScheduler creates a new ExpiryScheduler
func NewExpiryScheduler(
	expireUC *subscriptionUsecases.ExpireSubscriptionsUseCase,
	interval time.Duration,
	logger logger.Interface,
) *ExpiryScheduler {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return &ExpiryScheduler{
		expireUC: expireUC,
		logger:   logger,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start starts the scheduler
func (s *ExpiryScheduler) Start(ctx context.Context) {
	s.logger.Infow("starting expiry scheduler", "interval", s.interval)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runLoop(ctx)
	}()
}

// Stop stops the scheduler gracefully
func (s *ExpiryScheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Infow("stopping expiry scheduler")
		close(s.stopChan)
		s.wg.Wait()
		s.logger.Infow("expiry scheduler stopped")
	})
}

func (s *ExpiryScheduler) runLoop(ctx context.Context) {
	// Sweep once on startup to clear anything that expired while down
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Infow("expiry scheduler stopped due to context cancellation")
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *ExpiryScheduler) sweep(ctx context.Context) {
	startTime := time.Now()

	expired, err := s.expireUC.Execute(ctx)
	if err != nil {
		s.logger.Errorw("expiry sweep failed",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if expired > 0 {
		s.logger.Infow("expiry sweep reverted subscriptions",
			"count", expired,
			"duration", time.Since(startTime),
		)
	} else {
		s.logger.Debugw("expiry sweep found nothing due",
			"duration", time.Since(startTime),
		)
	}
}
