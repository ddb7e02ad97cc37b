package workers

import (
	"context"
	"time"

	"yrhacks/hackbot/internal/common"
	"yrhacks/hackbot/internal/metrics"
)

type WorkersContainer struct {
	Notifications *NotificationWorker
	Monitor       *QueueMonitor
}

// QueueBackend is a notification queue whose backlog can be observed.
type QueueBackend interface {
	common.NotificationQueue
	QueueLength
}

// InitWorkers starts the notification consumers and the backlog monitor.
// Both stop when ctx is cancelled.
func InitWorkers(
	ctx context.Context,
	queue QueueBackend,
	messenger common.DiscordMessenger,
	embeds *common.EmbedBuilder,
	logChannelID string,
	m *metrics.MetricsRegistry,
) *WorkersContainer {
	worker := NewNotificationWorker("notifications", queue, messenger, embeds, logChannelID, m)
	monitor := NewQueueMonitor(queue, 500)

	go worker.Start(ctx, 2)
	go monitor.Start(ctx, 30*time.Second)

	return &WorkersContainer{
		Notifications: worker,
		Monitor:       monitor,
	}
}
