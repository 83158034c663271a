package session

import (
	"context"
	"log/slog"
	"time"
)

// RunJanitor sweeps expired sessions every interval until ctx is done.
func RunJanitor(ctx context.Context, m Manager, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := m.Sweep(ctx)
			if err != nil {
				logger.Error("session sweep failed", slog.String("error", err.Error()))
				continue
			}
			if removed > 0 {
				logger.Info("expired sessions removed", slog.Int("count", removed))
			}
		}
	}
}
