package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/outletdesk/internal/config"
	"github.com/mamadbah2/outletdesk/internal/service/digest"
)

// DigestBuilder produces the expiry digest.
type DigestBuilder interface {
	Build(ctx context.Context) (digest.Digest, error)
}

// Poster delivers digest text. A nil poster means the digest is only logged.
type Poster interface {
	PostText(ctx context.Context, text string) error
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron    *cron.Cron
	builder DigestBuilder
	poster  Poster
	cfg     config.DigestConfig
	logger  *zap.Logger
}

// NewScheduler creates a new scheduler instance running in the configured timezone.
func NewScheduler(cfg config.DigestConfig, builder DigestBuilder, poster Poster, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", cfg.Timezone, err)
	}

	// robfig/cron/v3 default parser is standard cron (5 fields: min, hour, dom, month, dow).
	c := cron.New(cron.WithLocation(loc))

	return &Scheduler{
		cron:    c,
		builder: builder,
		poster:  poster,
		cfg:     cfg,
		logger:  logger,
	}, nil
}

// Enabled reports whether a digest schedule is configured.
func (s *Scheduler) Enabled() bool {
	schedule := strings.TrimSpace(strings.ToLower(s.cfg.CronSchedule))
	return schedule != "" && schedule != "off"
}

// Start registers the digest job and starts the scheduler.
func (s *Scheduler) Start() error {
	if !s.Enabled() {
		s.logger.Info("expiry digest disabled")
		return nil
	}

	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule))
	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.sendDigest); err != nil {
		return fmt.Errorf("schedule expiry digest: %w", err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) sendDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.RunOnce(ctx); err != nil {
		s.logger.Error("expiry digest failed", zap.Error(err))
	}
}

// RunOnce builds the digest and delivers it immediately.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	s.logger.Info("generating expiry digest")

	d, err := s.builder.Build(ctx)
	if err != nil {
		return fmt.Errorf("build digest: %w", err)
	}

	text := d.Text()
	if s.poster == nil {
		s.logger.Info("expiry digest", zap.Int("items", d.Total()), zap.String("text", text))
		return nil
	}

	if err := s.poster.PostText(ctx, text); err != nil {
		return fmt.Errorf("post digest: %w", err)
	}

	s.logger.Info("expiry digest sent", zap.Int("items", d.Total()))
	return nil
}
