package backup

import (
	"context"
	"time"

	"tokopos/pkg/logger"
)

// RunScheduler re-checks the daily backup at the given interval until
// the context is canceled. Intended to run in its own goroutine; the
// startup AutoBackupDaily call covers the common case, the scheduler
// covers terminals that stay up across midnight.
func (s *Service) RunScheduler(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info(ctx, "backup scheduler started", "interval", interval.String())
	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "backup scheduler stopped")
			return
		case <-ticker.C:
			if path, err := s.AutoBackupDaily(ctx); err != nil {
				logger.Error(ctx, "scheduled backup failed", "error", err)
			} else if path != "" {
				logger.Info(ctx, "scheduled backup taken", "path", path)
			}
		}
	}
}
