package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"yrhacks/hackbot/internal/common"
	"yrhacks/hackbot/internal/config"
	"yrhacks/hackbot/internal/logging"
	"yrhacks/hackbot/internal/metrics"
	"yrhacks/hackbot/internal/models/dtos"
)

type fakeMessenger struct {
	mu       sync.Mutex
	channel  []string
	dms      []string
	dmErr    error
	dmCalled chan struct{}
}

func (f *fakeMessenger) SendDM(_ context.Context, userID string, _ *dtos.Embed) error {
	defer func() {
		if f.dmCalled != nil {
			f.dmCalled <- struct{}{}
		}
	}()
	if f.dmErr != nil {
		return f.dmErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dms = append(f.dms, userID)
	return nil
}

func (f *fakeMessenger) SendChannelMessage(_ context.Context, _ string, embed *dtos.Embed) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.channel = append(f.channel, embed.Description)
	return nil
}

func (f *fakeMessenger) AddRole(context.Context, string, string, string) error    { return nil }
func (f *fakeMessenger) RemoveRole(context.Context, string, string, string) error { return nil }
func (f *fakeMessenger) SetNickname(context.Context, string, string, string) error {
	return nil
}

func newWorker(t *testing.T, fm *fakeMessenger, logChannel string) (*NotificationWorker, *metrics.MetricsRegistry) {
	t.Helper()
	logging.SetLogger(zap.NewNop().Sugar())
	m := metrics.NewMetricsRegistry(prometheus.NewRegistry())
	embeds := common.NewEmbedBuilder(config.EmbedConfig{InfoColor: 1})
	return NewNotificationWorker("test", common.NewChannelQueue(8), fm, embeds, logChannel, m), m
}

func TestDeliver_Audit(t *testing.T) {
	fm := &fakeMessenger{}
	w, _ := newWorker(t, fm, "log-1")

	if err := w.deliver(context.Background(), &common.Notification{Kind: common.NotificationAudit, Message: "hello"}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(fm.channel) != 1 || fm.channel[0] != "hello" {
		t.Errorf("Expected audit line posted, got %v", fm.channel)
	}
}

func TestDeliver_AuditWithoutChannel(t *testing.T) {
	fm := &fakeMessenger{}
	w, _ := newWorker(t, fm, "")

	if err := w.deliver(context.Background(), &common.Notification{Kind: common.NotificationAudit, Message: "hello"}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(fm.channel) != 0 {
		t.Error("Expected nothing posted")
	}
}

func TestDeliver_ForbiddenDMFallsBackToAudit(t *testing.T) {
	fm := &fakeMessenger{dmErr: common.ErrDMForbidden}
	w, _ := newWorker(t, fm, "log-1")

	note := &common.Notification{Kind: common.NotificationDM, UserID: "42", Embed: &dtos.Embed{}, OnForbidden: "User <@42> has DMs disabled."}
	if err := w.deliver(context.Background(), note); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(fm.channel) != 1 || fm.channel[0] != note.OnForbidden {
		t.Errorf("Expected fallback audit, got %v", fm.channel)
	}

	note.OnForbidden = ""
	if err := w.deliver(context.Background(), note); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(fm.channel) != 1 {
		t.Error("Expected no audit without a fallback line")
	}
}

func TestDeliver_OtherErrorsReturned(t *testing.T) {
	fm := &fakeMessenger{dmErr: errors.New("boom")}
	w, _ := newWorker(t, fm, "log-1")

	err := w.deliver(context.Background(), &common.Notification{Kind: common.NotificationDM, UserID: "1", Embed: &dtos.Embed{}})
	if err == nil {
		t.Fatal("Expected error")
	}
	if err := w.deliver(context.Background(), &common.Notification{Kind: "carrier-pigeon"}); err == nil {
		t.Error("Expected error for unknown kind")
	}
}

func TestStart_DrainsQueueUntilCancelled(t *testing.T) {
	fm := &fakeMessenger{dmCalled: make(chan struct{}, 4)}
	w, _ := newWorker(t, fm, "log-1")
	w.block = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx, 2)
		close(done)
	}()

	for _, id := range []string{"1", "2"} {
		if err := w.queue.Enqueue(ctx, common.Notification{Kind: common.NotificationDM, UserID: id, Embed: &dtos.Embed{}}); err != nil {
			t.Fatal(err)
		}
	}
	for i := 0; i < 2; i++ {
		select {
		case <-fm.dmCalled:
		case <-time.After(2 * time.Second):
			t.Fatal("Timed out waiting for delivery")
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Workers did not stop")
	}

	fm.mu.Lock()
	defer fm.mu.Unlock()
	if len(fm.dms) != 2 {
		t.Errorf("Expected 2 DMs, got %v", fm.dms)
	}
}

func TestQueueMonitor_Check(t *testing.T) {
	logging.SetLogger(zap.NewNop().Sugar())
	q := common.NewChannelQueue(4)
	q.Enqueue(context.Background(), common.Notification{Kind: common.NotificationAudit})

	if got := NewQueueMonitor(q, 10).check(context.Background()); got != 1 {
		t.Errorf("Expected backlog of 1, got %d", got)
	}
}
