// Package scheduler runs the periodic revenue digest.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/Dan9191/bizpulse/internal/models"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// digestTimeout bounds a single digest run
const digestTimeout = 30 * time.Second

// OverviewSource builds the summary sent in the digest
type OverviewSource interface {
	Overview(ctx context.Context) (*models.DashboardOverview, error)
}

// DigestSender delivers the digest
type DigestSender interface {
	SendForecastDigest(to []string, overview *models.DashboardOverview) error
}

// Scheduler emails the revenue digest on a cron schedule
type Scheduler struct {
	cron       *cron.Cron
	source     OverviewSource
	sender     DigestSender
	recipients []string
	log        *logrus.Logger
}

// New registers the digest job. schedule is a standard five-field cron spec.
func New(schedule string, source OverviewSource, sender DigestSender, recipients []string, log *logrus.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:       cron.New(),
		source:     source,
		sender:     sender,
		recipients: recipients,
		log:        log,
	}
	if _, err := s.cron.AddFunc(schedule, func() { s.RunDigest(context.Background()) }); err != nil {
		return nil, fmt.Errorf("invalid digest schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start runs the scheduler in its own goroutine
func (s *Scheduler) Start() {
	s.log.Infof("Digest scheduler started for %d recipients", len(s.recipients))
	s.cron.Start()
}

// Stop halts the scheduler and waits for a running digest to finish or ctx to expire
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn("Digest scheduler stop timed out")
	}
}

// RunDigest builds the overview and emails it. Failures are logged only.
func (s *Scheduler) RunDigest(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, digestTimeout)
	defer cancel()

	overview, err := s.source.Overview(ctx)
	if err != nil {
		s.log.Errorf("Digest skipped: failed to build overview: %v", err)
		return err
	}
	if err := s.sender.SendForecastDigest(s.recipients, overview); err != nil {
		s.log.Errorf("Digest delivery failed: %v", err)
		return err
	}
	return nil
}
