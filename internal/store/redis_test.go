package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"fluxline/internal/models"
)

func setupTestRedis(t *testing.T) (*RedisGateway, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	gw := NewRedisGateway(client, "")
	t.Cleanup(func() { _ = gw.Close() })
	return gw, mr
}

func TestRedisGateway_LoadMissingKey(t *testing.T) {
	gw, _ := setupTestRedis(t)

	data, err := gw.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if data != nil {
		t.Errorf("expected nil for missing key, got %q", data)
	}
}

func TestRedisGateway_SaveThenLoad(t *testing.T) {
	gw, mr := setupTestRedis(t)
	ctx := context.Background()
	gw.now = func() time.Time { return time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC) }

	if err := gw.Save(ctx, sampleState()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if !mr.Exists(DefaultKey) {
		t.Fatalf("expected key %q to exist", DefaultKey)
	}
	if ttl := mr.TTL(DefaultKey); ttl != 0 {
		t.Errorf("expected no expiry, got %v", ttl)
	}

	data, err := gw.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	var got models.State
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("stored document is not JSON: %v", err)
	}
	if len(got.Tasks) != 1 || got.Tasks[0].Title != "Write report" {
		t.Errorf("expected task to round-trip, got %+v", got.Tasks)
	}
	if got.UI.Filters.Due != models.DueWeek {
		t.Errorf("expected due filter to round-trip, got %q", got.UI.Filters.Due)
	}
}

func TestRedisGateway_LoadFailsWhenServerDown(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	gw := NewRedisGateway(client, "")
	t.Cleanup(func() { _ = gw.Close() })
	mr.Close()

	if _, err := gw.Load(context.Background()); err == nil {
		t.Fatal("expected error when redis is unavailable")
	}
}

func TestRedisGateway_Clear(t *testing.T) {
	gw, mr := setupTestRedis(t)
	ctx := context.Background()

	if err := gw.Put(ctx, []byte(`[]`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := gw.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if mr.Exists(DefaultKey) {
		t.Error("expected key to be deleted")
	}
}
