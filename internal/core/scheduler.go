package core

// scheduler.go runs the background refresh of file-based schedule sources.
//
// Every interval the job stats each configured source and re-parses the
// ones whose size or modification time changed since the last successful
// load. Failures are logged and retried on the next tick; the previously
// loaded schedule keeps being served.

import (
	"context"
	"log/slog"
	"time"
)

// RefreshConfig holds configuration for the refresh scheduler.
type RefreshConfig struct {
	Sources  []Source
	Interval time.Duration // How often to check (default: 10m)
}

// StartRefreshScheduler blocks, refreshing changed sources every interval
// until ctx is cancelled. Run it in its own goroutine.
func (s *Service) StartRefreshScheduler(ctx context.Context, cfg RefreshConfig) {
	if len(cfg.Sources) == 0 {
		return
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 10 * time.Minute
	}

	slog.Info("refresh scheduler started",
		"sources", len(cfg.Sources),
		"interval", cfg.Interval.String(),
	)

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("refresh scheduler stopped")
			return
		case <-ticker.C:
			s.runRefreshJob(ctx, cfg.Sources)
		}
	}
}

// runRefreshJob performs one pass over the sources and returns how many
// were reloaded.
func (s *Service) runRefreshJob(ctx context.Context, sources []Source) int {
	start := time.Now()
	reloaded := 0

	for _, src := range sources {
		if ctx.Err() != nil {
			break
		}
		changed, err := s.changed(src)
		if err != nil {
			slog.Warn("stat schedule source failed", "plan", src.Name, "path", src.Path, "error", err)
			continue
		}
		if !changed {
			continue
		}
		if err := s.loadSource(ctx, src); err != nil {
			slog.Error("refresh schedule source failed", "plan", src.Name, "error", err)
			continue
		}
		reloaded++
	}

	slog.Debug("refresh job completed",
		"reloaded", reloaded,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return reloaded
}
