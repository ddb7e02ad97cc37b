package workers

import (
	"context"
	"time"

	"yrhacks/hackbot/internal/logging"
)

// QueueLength is implemented by both notification queues.
type QueueLength interface {
	Length(ctx context.Context) (int64, error)
}

// QueueMonitor logs the notification backlog and warns when it grows.
type QueueMonitor struct {
	queue     QueueLength
	threshold int64
}

func NewQueueMonitor(queue QueueLength, threshold int64) *QueueMonitor {
	return &QueueMonitor{queue: queue, threshold: threshold}
}

func (m *QueueMonitor) Start(ctx context.Context, interval time.Duration) {
	logging.Info("Starting queue monitoring", "interval", interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Info("Queue monitor shutting down")
			return
		case <-ticker.C:
			m.check(ctx)
		}
	}
}

// check returns the observed backlog, or -1 if it could not be read.
func (m *QueueMonitor) check(ctx context.Context) int64 {
	n, err := m.queue.Length(ctx)
	if err != nil {
		logging.Error("Error reading notification queue length", "error", err)
		return -1
	}
	if n >= m.threshold {
		logging.Warn("Notification backlog is high", "length", n, "threshold", m.threshold)
	} else if n > 0 {
		logging.Debug("Notification backlog", "length", n)
	}
	return n
}
