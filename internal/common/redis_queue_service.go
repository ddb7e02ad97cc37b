package common

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	NotificationStream = "hackbot:notifications"
	NotificationGroup  = "notification-workers"
)

// RedisQueueService is a NotificationQueue backed by a Redis stream and
// consumer group, so queued side effects survive a restart.
type RedisQueueService struct {
	client   *redis.Client
	stream   string
	group    string
	consumer string
	maxLen   int64
}

var _ NotificationQueue = (*RedisQueueService)(nil)

func NewRedisQueueService(client *redis.Client, consumer string, maxLen int64) *RedisQueueService {
	return &RedisQueueService{
		client:   client,
		stream:   NotificationStream,
		group:    NotificationGroup,
		consumer: consumer,
		maxLen:   maxLen,
	}
}

// Enqueue adds a notification; the stream is trimmed to roughly maxLen entries.
func (s *RedisQueueService) Enqueue(ctx context.Context, n Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: s.stream,
		MaxLen: s.maxLen,
		Approx: true,
		Values: map[string]interface{}{"data": string(data)},
	}
	if err := s.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("failed to add to stream: %w", err)
	}
	return nil
}

func (s *RedisQueueService) Dequeue(ctx context.Context, block time.Duration) (*Notification, string, error) {
	streams, err := s.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    s.group,
		Consumer: s.consumer,
		Streams:  []string{s.stream, ">"},
		Count:    1,
		Block:    block,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("failed to read from stream: %w", err)
	}

	if len(streams) == 0 || len(streams[0].Messages) == 0 {
		return nil, "", nil
	}
	msg := streams[0].Messages[0]

	dataStr, ok := msg.Values["data"].(string)
	if !ok {
		// ack it so a malformed entry is not redelivered forever
		_ = s.Ack(ctx, msg.ID)
		return nil, "", fmt.Errorf("invalid message format: data field missing")
	}

	var n Notification
	if err := json.Unmarshal([]byte(dataStr), &n); err != nil {
		_ = s.Ack(ctx, msg.ID)
		return nil, "", fmt.Errorf("failed to unmarshal notification: %w", err)
	}
	return &n, msg.ID, nil
}

func (s *RedisQueueService) Ack(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return s.client.XAck(ctx, s.stream, s.group, id).Err()
}

// CreateConsumerGroup creates the group and stream if they don't exist.
func (s *RedisQueueService) CreateConsumerGroup(ctx context.Context) error {
	err := s.client.XGroupCreateMkStream(ctx, s.stream, s.group, "0").Err()
	if err != nil && strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return nil
	}
	return err
}

// Length reports the number of entries in the stream.
func (s *RedisQueueService) Length(ctx context.Context) (int64, error) {
	n, err := s.client.XLen(ctx, s.stream).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get queue length: %w", err)
	}
	return n, nil
}
