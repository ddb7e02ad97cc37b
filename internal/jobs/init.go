package jobs

import (
	"context"
	"time"

	"yrhacks/hackbot/internal/db/repositories"
	"yrhacks/hackbot/internal/logging"
	"yrhacks/hackbot/internal/metrics"
)

// InitializeJobs starts the background jobs. Invites only expire when a TTL
// is configured, so the expiry job is skipped otherwise.
func InitializeJobs(
	ctx context.Context,
	invites *repositories.InviteRepositoryGORM,
	m *metrics.MetricsRegistry,
	inviteTTL time.Duration,
) *InviteExpiryJob {
	if inviteTTL <= 0 {
		logging.Info("Invite TTL disabled, expiry job not started")
		return nil
	}

	expiry := NewInviteExpiryJob(invites, m)
	go expiry.RunScheduled(ctx, expiryInterval(inviteTTL))
	return expiry
}

// expiryInterval sweeps a few times per TTL, bounded to [1m, 1h].
func expiryInterval(ttl time.Duration) time.Duration {
	interval := ttl / 4
	if interval < time.Minute {
		return time.Minute
	}
	if interval > time.Hour {
		return time.Hour
	}
	return interval
}
