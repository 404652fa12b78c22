package worker

import (
	"context"
	"log/slog"
	"time"
)

// runPeriodic calls tick once immediately and then every interval until ctx is cancelled.
func runPeriodic(ctx context.Context, name string, interval time.Duration, tick func(context.Context) error) {
	slog.Info(name + ": starting")

	if err := tick(ctx); err != nil {
		slog.Error(name+": initial run failed", "error", err)
	} else {
		slog.Info(name + ": initial run completed")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info(name + ": shutting down")
			return
		case <-ticker.C:
			if err := tick(ctx); err != nil {
				slog.Error(name+": run failed", "error", err)
			} else {
				slog.Info(name + ": run completed")
			}
		}
	}
}
