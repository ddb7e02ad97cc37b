package jobs

import (
	"context"
	"fmt"
	"time"

	"yrhacks/hackbot/internal/db/repositories"
	"yrhacks/hackbot/internal/logging"
	"yrhacks/hackbot/internal/metrics"
)

// InviteExpiryJob marks pending invites past their expiry as expired.
type InviteExpiryJob struct {
	invites *repositories.InviteRepositoryGORM
	metrics *metrics.MetricsRegistry
}

func NewInviteExpiryJob(invites *repositories.InviteRepositoryGORM, m *metrics.MetricsRegistry) *InviteExpiryJob {
	return &InviteExpiryJob{invites: invites, metrics: m}
}

// Run expires stale invites once and returns how many were touched.
func (j *InviteExpiryJob) Run(ctx context.Context) (int64, error) {
	start := time.Now()

	n, err := j.invites.ExpireStale(ctx)
	if err != nil {
		return 0, fmt.Errorf("invite expiry failed: %w", err)
	}

	if n > 0 {
		logging.Info("Expired stale invites", "count", n, "duration", time.Since(start).String())
		if j.metrics != nil {
			j.metrics.ExpiredInvitesTotal.Add(float64(n))
		}
	}
	return n, nil
}

// RunScheduled runs the job immediately and then on every tick until ctx is done.
func (j *InviteExpiryJob) RunScheduled(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if _, err := j.Run(ctx); err != nil {
		logging.Error("Error in initial invite expiry run", "error", err)
	}

	for {
		select {
		case <-ticker.C:
			if _, err := j.Run(ctx); err != nil {
				logging.Error("Error in scheduled invite expiry run", "error", err)
			}
		case <-ctx.Done():
			logging.Info("Shutting down invite expiry job")
			return
		}
	}
}
