package workers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"yrhacks/hackbot/internal/common"
	"yrhacks/hackbot/internal/logging"
	"yrhacks/hackbot/internal/metrics"
)

// NotificationWorker drains the notification queue and talks to Discord.
type NotificationWorker struct {
	workerID     string
	queue        common.NotificationQueue
	messenger    common.DiscordMessenger
	embeds       *common.EmbedBuilder
	logChannelID string
	metrics      *metrics.MetricsRegistry
	block        time.Duration
}

func NewNotificationWorker(
	workerID string,
	queue common.NotificationQueue,
	messenger common.DiscordMessenger,
	embeds *common.EmbedBuilder,
	logChannelID string,
	m *metrics.MetricsRegistry,
) *NotificationWorker {
	return &NotificationWorker{
		workerID:     workerID,
		queue:        queue,
		messenger:    messenger,
		embeds:       embeds,
		logChannelID: logChannelID,
		metrics:      m,
		block:        5 * time.Second,
	}
}

// Start runs numWorkers consumers and returns once ctx is cancelled and all have stopped.
func (w *NotificationWorker) Start(ctx context.Context, numWorkers int) {
	logging.Info("Starting notification workers", "count", numWorkers, "worker_id", w.workerID)

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			w.processQueue(ctx, name)
		}(fmt.Sprintf("%s-%d", w.workerID, i))
	}
	wg.Wait()
	logging.Info("All notification workers stopped", "worker_id", w.workerID)
}

func (w *NotificationWorker) processQueue(ctx context.Context, workerName string) {
	processed, failed := 0, 0

	for {
		select {
		case <-ctx.Done():
			logging.Info("Notification worker shutting down", "worker", workerName, "processed", processed, "errors", failed)
			return
		default:
		}

		note, id, err := w.queue.Dequeue(ctx, w.block)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			logging.Error("Error dequeuing notification", "worker", workerName, "error", err)
			time.Sleep(time.Second)
			continue
		}
		if note == nil {
			continue
		}

		if err := w.deliver(ctx, note); err != nil {
			failed++
			logging.Warn("Failed to deliver notification", "worker", workerName, "kind", note.Kind, "user_id", note.UserID, "error", err)
		} else {
			processed++
		}

		// delivery is best-effort, a failed one is not retried
		if err := w.queue.Ack(ctx, id); err != nil {
			logging.Error("Error acknowledging notification", "worker", workerName, "id", id, "error", err)
		}
	}
}

func (w *NotificationWorker) deliver(ctx context.Context, note *common.Notification) error {
	switch note.Kind {
	case common.NotificationAudit:
		err := w.audit(ctx, note.Message)
		w.observe(note.Kind, outcome(err))
		return err

	case common.NotificationDM:
		err := w.messenger.SendDM(ctx, note.UserID, note.Embed)
		if errors.Is(err, common.ErrDMForbidden) {
			w.observe(note.Kind, "forbidden")
			if note.OnForbidden == "" {
				return nil
			}
			return w.audit(ctx, note.OnForbidden)
		}
		w.observe(note.Kind, outcome(err))
		return err
	}

	w.observe(note.Kind, "unknown")
	return fmt.Errorf("unknown notification kind %q", note.Kind)
}

func (w *NotificationWorker) audit(ctx context.Context, message string) error {
	if w.logChannelID == "" {
		logging.Warn("Log channel not configured, dropping audit line", "message", message)
		return nil
	}
	return w.messenger.SendChannelMessage(ctx, w.logChannelID, w.embeds.Info("", message))
}

func (w *NotificationWorker) observe(kind common.NotificationKind, result string) {
	if w.metrics != nil {
		w.metrics.NotificationsTotal.WithLabelValues(string(kind), result).Inc()
	}
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
