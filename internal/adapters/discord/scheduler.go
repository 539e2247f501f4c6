package discord

import (
	"context"
	"time"

	"hangoutbot/internal/application"
)

// RunAutoClose sweeps for overdue events on a fixed interval until ctx is
// cancelled.
func RunAutoClose(ctx context.Context, job *application.AutoCloseService, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			job.Sweep(ctx, time.Now().UTC())
		}
	}
}
