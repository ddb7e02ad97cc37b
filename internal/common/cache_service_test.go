package common

import (
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"yrhacks/hackbot/internal/metrics"
)

func TestCacheService_GetOrSet(t *testing.T) {
	m := metrics.NewMetricsRegistry(prometheus.NewRegistry())
	c := NewCacheService(time.Minute, time.Minute, m)

	calls := 0
	loader := func() (any, error) {
		calls++
		return []string{"Alpha"}, nil
	}

	for i := 0; i < 3; i++ {
		val, err := c.GetOrSet("TEAMS_WITH_COUNTS", time.Minute, loader)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		names, err := CachedAs[[]string](val)
		if err != nil || len(names) != 1 {
			t.Fatalf("Unexpected cached value %v %v", names, err)
		}
	}

	if calls != 1 {
		t.Errorf("Expected loader called once, got %d", calls)
	}
	if hits := counterValue(t, m.CacheHitsTotal.WithLabelValues("TEAMS_WITH_COUNTS")); hits != 2 {
		t.Errorf("Expected 2 hits, got %v", hits)
	}
}

func TestCacheService_LoaderErrorNotCached(t *testing.T) {
	c := NewCacheService(time.Minute, time.Minute, nil)

	_, err := c.GetOrSet("k", time.Minute, func() (any, error) { return nil, errors.New("boom") })
	if err == nil {
		t.Fatal("Expected loader error")
	}
	if _, found := c.Get("k"); found {
		t.Error("Expected failed load not to be cached")
	}
}

func TestCacheService_CollapsesConcurrentLoads(t *testing.T) {
	c := NewCacheService(time.Minute, time.Minute, nil)

	var calls int32
	release := make(chan struct{})
	loader := func() (any, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return 42, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.GetOrSet("answer", time.Minute, loader)
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := atomic.LoadInt32(&calls); n < 1 || n > 5 {
		t.Fatalf("Unexpected loader calls %d", n)
	}
	if val, found := c.Get("answer"); !found || val.(int) != 42 {
		t.Errorf("Expected cached 42, got %v", val)
	}
}

func TestCachedAs_DecodesJSON(t *testing.T) {
	type row struct {
		Name string `json:"name"`
	}
	rows, err := CachedAs[[]row](json.RawMessage(`[{"name":"Alpha"}]`))
	if err != nil || len(rows) != 1 || rows[0].Name != "Alpha" {
		t.Fatalf("Unexpected decode %v %v", rows, err)
	}
	if _, err := CachedAs[[]row](3); err == nil {
		t.Error("Expected error for mismatched type")
	}
}

func TestKeyPattern(t *testing.T) {
	if got := keyPattern("PENDING_INVITES_12345"); got != "PENDING_INVITES_" {
		t.Errorf("Unexpected pattern %s", got)
	}
	if got := keyPattern("TEAMS_WITH_COUNTS"); got != "TEAMS_WITH_COUNTS" {
		t.Errorf("Unexpected pattern %s", got)
	}
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var out dto.Metric
	if err := c.Write(&out); err != nil {
		t.Fatalf("Failed to read counter: %v", err)
	}
	return out.GetCounter().GetValue()
}
