package cmd

import (
	"context"
	"fmt"
	"time"

	"backoffice/internal/usecase"
	"backoffice/pkg/middleware"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// sessionRetention is how long expired or revoked sessions are kept.
const sessionRetention = 7 * 24 * time.Hour

// Scheduler runs housekeeping jobs in the background.
type Scheduler struct {
	cron    *cron.Cron
	auth    usecase.AuthService
	limiter *middleware.RateLimiter
	log     *zap.Logger
}

func NewScheduler(auth usecase.AuthService, limiter *middleware.RateLimiter, log *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		auth:    auth,
		limiter: limiter,
		log:     log.With(zap.String("component", "scheduler")),
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("@hourly", s.cleanSessions); err != nil {
		return fmt.Errorf("add session cleanup job: %w", err)
	}
	if _, err := s.cron.AddFunc("@every 10m", s.sweepLimiter); err != nil {
		return fmt.Errorf("add rate limiter sweep job: %w", err)
	}

	s.cron.Start()
	s.log.Info("Scheduler started", zap.Int("jobs", len(s.cron.Entries())))
	return nil
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("Scheduler stopped")
}

func (s *Scheduler) cleanSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := s.auth.CleanExpiredSessions(ctx, sessionRetention)
	if err != nil {
		s.log.Error("Session cleanup failed", zap.Error(err))
		return
	}
	s.log.Info("Session cleanup done", zap.Int64("removed", n))
}

func (s *Scheduler) sweepLimiter() {
	if n := s.limiter.Sweep(); n > 0 {
		s.log.Debug("Rate limiter swept", zap.Int("clients", n))
	}
}
