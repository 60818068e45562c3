package rent

import (
	"context"
	"log/slog"
	"time"

	"github.com/josh-kwaku/rentbook/internal/logging"
	"github.com/josh-kwaku/rentbook/internal/period"
)

type expiredCleaner interface {
	CleanExpired(ctx context.Context) (int64, error)
}

// Scheduler periodically posts charges and then late fees for the current
// UTC period and prunes expired idempotency records.
type Scheduler struct {
	rent     *Service
	cleaner  expiredCleaner
	logger   *slog.Logger
	interval time.Duration
}

// NewScheduler builds a Scheduler. cleaner may be nil.
func NewScheduler(rent *Service, cleaner expiredCleaner, logger *slog.Logger, interval time.Duration) *Scheduler {
	return &Scheduler{
		rent:     rent,
		cleaner:  cleaner,
		logger:   logger,
		interval: interval,
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("rent scheduler started", "interval", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("rent scheduler stopped")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single pass. Failures are logged, never returned.
func (s *Scheduler) RunOnce(ctx context.Context) {
	ctx = logging.WithLogger(ctx, s.logger)
	p := period.FromDate(s.rent.clock())

	charges, err := s.rent.GenerateCharges(ctx, p)
	if err != nil {
		s.logger.Error("scheduled charge generation failed", "period", p, "error", err)
	} else {
		s.logger.Info("scheduled charges generated",
			"period", p,
			"created", charges.CreatedCount(),
			"skipped", len(charges.Skipped),
			"failed", len(charges.Failed),
		)
	}

	fees, err := s.rent.GenerateLateFees(ctx, p)
	if err != nil {
		s.logger.Error("scheduled late fee generation failed", "period", p, "error", err)
	} else {
		s.logger.Info("scheduled late fees generated",
			"period", p,
			"created", fees.CreatedCount(),
			"skipped", len(fees.Skipped),
			"failed", len(fees.Failed),
		)
	}

	if s.cleaner == nil {
		return
	}
	n, err := s.cleaner.CleanExpired(ctx)
	if err != nil {
		s.logger.Error("failed to clean expired idempotency records", "error", err)
		return
	}
	if n > 0 {
		s.logger.Info("expired idempotency records removed", "count", n)
	}
}
