package indexing

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestMemoryQuotaStore(t *testing.T) {
	store := NewMemoryQuotaStore()
	ctx := context.Background()

	used, err := store.Used(ctx)
	if err != nil {
		t.Fatalf("Used() error = %v", err)
	}
	if used != 0 {
		t.Errorf("Used() = %d, want 0", used)
	}

	total, err := store.Add(ctx, 5)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if total != 5 {
		t.Errorf("Add(5) = %d, want 5", total)
	}

	if total, _ = store.Add(ctx, 3); total != 8 {
		t.Errorf("Add(3) = %d, want 8", total)
	}
	if used, _ = store.Used(ctx); used != 8 {
		t.Errorf("Used() = %d, want 8", used)
	}
}

func TestMemoryQuotaStore_ResetsOnDateChange(t *testing.T) {
	store := NewMemoryQuotaStore()
	ctx := context.Background()

	day1 := time.Date(2026, 8, 30, 23, 50, 0, 0, time.UTC)
	store.now = func() time.Time { return day1 }

	if _, err := store.Add(ctx, 9999); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	// No timer fires at midnight; the counter resets on next access.
	store.now = func() time.Time { return day1.Add(time.Hour) }

	used, err := store.Used(ctx)
	if err != nil {
		t.Fatalf("Used() error = %v", err)
	}
	if used != 0 {
		t.Errorf("Used() after UTC date change = %d, want 0", used)
	}

	if total, _ := store.Add(ctx, 2); total != 2 {
		t.Errorf("Add(2) on the new day = %d, want 2", total)
	}
	if len(store.days) != 1 {
		t.Errorf("retained day entries = %d, want 1 (old day purged)", len(store.days))
	}
}

func TestMemoryQuotaStore_LocalTimezoneDoesNotSplitDays(t *testing.T) {
	store := NewMemoryQuotaStore()
	ctx := context.Background()

	// Same UTC day viewed from two zones on either side of local midnight.
	zone := time.FixedZone("UTC+10", 10*60*60)
	store.now = func() time.Time { return time.Date(2026, 8, 31, 1, 0, 0, 0, zone) }
	if _, err := store.Add(ctx, 4); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	store.now = func() time.Time { return time.Date(2026, 8, 30, 20, 0, 0, 0, time.UTC) }
	used, _ := store.Used(ctx)
	if used != 4 {
		t.Errorf("Used() = %d, want 4 (quota day is keyed by UTC)", used)
	}
}

func TestRedisQuotaStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := NewRedisQuotaStore(client)
	ctx := context.Background()

	used, err := store.Used(ctx)
	if err != nil {
		t.Fatalf("Used() error = %v", err)
	}
	if used != 0 {
		t.Errorf("Used() = %d, want 0 for a missing key", used)
	}

	total, err := store.Add(ctx, 15)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if total != 15 {
		t.Errorf("Add(15) = %d, want 15", total)
	}

	if total, _ = store.Add(ctx, 5); total != 20 {
		t.Errorf("Add(5) = %d, want 20", total)
	}
	if used, _ = store.Used(ctx); used != 20 {
		t.Errorf("Used() = %d, want 20", used)
	}

	// The counter key carries a TTL so stale days expire on their own.
	key := quotaKeyPrefix + quotaDay(time.Now())
	if mr.TTL(key) <= 0 {
		t.Errorf("TTL(%s) = %v, want a positive expiry", key, mr.TTL(key))
	}
}

func TestRedisQuotaStore_ResetsOnDateChange(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := NewRedisQuotaStore(client)
	ctx := context.Background()

	day1 := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return day1 }
	if _, err := store.Add(ctx, 100); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	store.now = func() time.Time { return day1.Add(24 * time.Hour) }
	used, err := store.Used(ctx)
	if err != nil {
		t.Fatalf("Used() error = %v", err)
	}
	if used != 0 {
		t.Errorf("Used() on the next day = %d, want 0", used)
	}
}
