package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"go.uber.org/zap"

	"yrhacks/hackbot/internal/constants"
	"yrhacks/hackbot/internal/db/dbtest"
	"yrhacks/hackbot/internal/db/repositories"
	"yrhacks/hackbot/internal/logging"
	"yrhacks/hackbot/internal/metrics"
)

func TestInviteExpiryJob_Run(t *testing.T) {
	logging.SetLogger(zap.NewNop().Sugar())
	gdb, _ := dbtest.Open(t)
	ctx := context.Background()

	dbtest.SeedUser(t, gdb, "1", "Owner")
	dbtest.SeedUser(t, gdb, "2", "Late")
	dbtest.SeedUser(t, gdb, "3", "Early")

	teams := repositories.NewTeamRepositoryGORM(gdb)
	invites := repositories.NewInviteRepositoryGORM(gdb)
	team, _, err := teams.Create(ctx, "Alpha", "1")
	if err != nil {
		t.Fatal(err)
	}

	past := time.Now().UTC().Add(-time.Hour)
	future := time.Now().UTC().Add(time.Hour)
	stale, err := invites.CreateOrReuse(ctx, team.ID, "1", "2", &past)
	if err != nil {
		t.Fatal(err)
	}
	live, err := invites.CreateOrReuse(ctx, team.ID, "1", "3", &future)
	if err != nil {
		t.Fatal(err)
	}

	m := metrics.NewMetricsRegistry(prometheus.NewRegistry())
	n, err := NewInviteExpiryJob(invites, m).Run(ctx)
	if err != nil || n != 1 {
		t.Fatalf("Expected one expired invite, got %d %v", n, err)
	}

	got, _ := invites.GetByID(ctx, stale.ID)
	if got.Status != constants.InviteStatusExpired {
		t.Errorf("Expected stale invite expired, got %s", got.Status)
	}
	got, _ = invites.GetByID(ctx, live.ID)
	if got.Status != constants.InviteStatusPending {
		t.Errorf("Expected live invite pending, got %s", got.Status)
	}

	var metric dto.Metric
	if err := m.ExpiredInvitesTotal.Write(&metric); err != nil {
		t.Fatal(err)
	}
	if metric.GetCounter().GetValue() != 1 {
		t.Errorf("Expected counter at 1, got %v", metric.GetCounter().GetValue())
	}
}

func TestExpiryInterval(t *testing.T) {
	tests := []struct {
		ttl  time.Duration
		want time.Duration
	}{
		{time.Minute, time.Minute},
		{time.Hour, 15 * time.Minute},
		{48 * time.Hour, time.Hour},
	}
	for _, tt := range tests {
		if got := expiryInterval(tt.ttl); got != tt.want {
			t.Errorf("expiryInterval(%s) = %s, want %s", tt.ttl, got, tt.want)
		}
	}
}

func TestInitializeJobs_DisabledWithoutTTL(t *testing.T) {
	logging.SetLogger(zap.NewNop().Sugar())
	if job := InitializeJobs(context.Background(), nil, nil, 0); job != nil {
		t.Error("Expected no job without a TTL")
	}
}
