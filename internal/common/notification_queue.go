package common

import (
	"context"
	"errors"
	"time"

	"yrhacks/hackbot/internal/logging"
	"yrhacks/hackbot/internal/metrics"
	"yrhacks/hackbot/internal/models/dtos"
)

type NotificationKind string

const (
	NotificationAudit NotificationKind = "audit"
	NotificationDM    NotificationKind = "dm"
)

// Notification is a fire-and-forget side effect: a log channel line or a DM.
type Notification struct {
	Kind    NotificationKind `json:"kind"`
	UserID  string           `json:"user_id,omitempty"`
	Message string           `json:"message,omitempty"`
	Embed   *dtos.Embed      `json:"embed,omitempty"`
	// OnForbidden is posted to the log channel when the DM cannot be delivered.
	OnForbidden string    `json:"on_forbidden,omitempty"`
	QueuedAt    time.Time `json:"queued_at"`
}

var ErrQueueFull = errors.New("notification queue is full")

// NotificationQueue is drained by workers.NotificationWorker.
type NotificationQueue interface {
	Enqueue(ctx context.Context, n Notification) error
	// Dequeue blocks up to block and returns (nil, "", nil) when nothing arrived.
	Dequeue(ctx context.Context, block time.Duration) (*Notification, string, error)
	Ack(ctx context.Context, id string) error
}

// ChannelQueue is a bounded in-process queue.
type ChannelQueue struct {
	ch chan Notification
}

var _ NotificationQueue = (*ChannelQueue)(nil)

func NewChannelQueue(size int) *ChannelQueue {
	return &ChannelQueue{ch: make(chan Notification, size)}
}

func (q *ChannelQueue) Enqueue(_ context.Context, n Notification) error {
	select {
	case q.ch <- n:
		return nil
	default:
		return ErrQueueFull
	}
}

func (q *ChannelQueue) Dequeue(ctx context.Context, block time.Duration) (*Notification, string, error) {
	timer := time.NewTimer(block)
	defer timer.Stop()

	select {
	case n := <-q.ch:
		return &n, "", nil
	case <-timer.C:
		return nil, "", nil
	case <-ctx.Done():
		return nil, "", ctx.Err()
	}
}

func (q *ChannelQueue) Ack(context.Context, string) error { return nil }

func (q *ChannelQueue) Len() int { return len(q.ch) }

// Length matches RedisQueueService.Length so both can be monitored.
func (q *ChannelQueue) Length(context.Context) (int64, error) { return int64(len(q.ch)), nil }

// Notifier is what services use to queue side effects. It never fails the caller.
type Notifier struct {
	queue   NotificationQueue
	metrics *metrics.MetricsRegistry
}

func NewNotifier(queue NotificationQueue, m *metrics.MetricsRegistry) *Notifier {
	return &Notifier{queue: queue, metrics: m}
}

// Audit queues a line for the log channel.
func (n *Notifier) Audit(ctx context.Context, message string) {
	n.enqueue(ctx, Notification{Kind: NotificationAudit, Message: message})
}

// DirectMessage queues a best-effort DM. onForbidden, when set, is posted to
// the log channel if the user has DMs disabled.
func (n *Notifier) DirectMessage(ctx context.Context, userID string, embed *dtos.Embed, onForbidden string) {
	n.enqueue(ctx, Notification{Kind: NotificationDM, UserID: userID, Embed: embed, OnForbidden: onForbidden})
}

func (n *Notifier) enqueue(ctx context.Context, note Notification) {
	if n == nil || n.queue == nil {
		return
	}
	note.QueuedAt = time.Now().UTC()

	// the request context may already be cancelled once the response is written
	if err := n.queue.Enqueue(context.WithoutCancel(ctx), note); err != nil {
		logging.Warn("Dropping notification", "kind", note.Kind, "user_id", note.UserID, "error", err)
		if n.metrics != nil {
			n.metrics.NotificationsDropped.Inc()
		}
	}
}
