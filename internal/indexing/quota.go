package indexing

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultDailyQuota is the daily submission-unit ceiling. One unit is one
// URL announced to one engine.
const DefaultDailyQuota = 10000

const (
	quotaKeyPrefix = "indexing:quota:"
	quotaDayFormat = "2006-01-02"

	// quotaKeyTTL keeps yesterday's Redis counter around long enough for
	// inspection before it expires on its own.
	quotaKeyTTL = 48 * time.Hour
)

// QuotaStore tracks submission units consumed for the current UTC day.
// Implementations reset automatically when the date changes; there is no
// midnight timer to miss.
type QuotaStore interface {
	// Used returns the number of units consumed today.
	Used(ctx context.Context) (int, error)

	// Add charges n units against today and returns the new total.
	Add(ctx context.Context, n int) (int, error)
}

func quotaDay(now time.Time) string {
	return now.UTC().Format(quotaDayFormat)
}

// MemoryQuotaStore keeps the daily counter in process memory. Entries for
// days other than today are purged on access, so at most one live entry
// exists at steady state.
type MemoryQuotaStore struct {
	mu   sync.Mutex
	days map[string]int
	now  func() time.Time
}

// NewMemoryQuotaStore creates an in-memory quota store.
func NewMemoryQuotaStore() *MemoryQuotaStore {
	return &MemoryQuotaStore{
		days: make(map[string]int),
		now:  time.Now,
	}
}

// Used returns the units consumed today.
func (s *MemoryQuotaStore) Used(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.days[s.sweep()], nil
}

// Add charges n units against today and returns the new total.
func (s *MemoryQuotaStore) Add(_ context.Context, n int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	day := s.sweep()
	s.days[day] += n
	return s.days[day], nil
}

// sweep drops counters for days other than today and returns today's key.
// Caller must hold the mutex.
func (s *MemoryQuotaStore) sweep() string {
	today := quotaDay(s.now())
	for day := range s.days {
		if day != today {
			delete(s.days, day)
		}
	}
	return today
}

// RedisQuotaStore keeps the daily counter in Redis so the ceiling holds
// across restarts and multiple instances. Counters are keyed by UTC date
// and expire on their own.
type RedisQuotaStore struct {
	client redis.UniversalClient
	now    func() time.Time
}

// NewRedisQuotaStore creates a Redis-backed quota store.
func NewRedisQuotaStore(client redis.UniversalClient) *RedisQuotaStore {
	return &RedisQuotaStore{
		client: client,
		now:    time.Now,
	}
}

func (s *RedisQuotaStore) key() string {
	return quotaKeyPrefix + quotaDay(s.now())
}

// Used returns the units consumed today.
func (s *RedisQuotaStore) Used(ctx context.Context) (int, error) {
	val, err := s.client.Get(ctx, s.key()).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get quota counter: %w", err)
	}

	used, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("parse quota counter: %w", err)
	}
	return used, nil
}

// Add charges n units against today and returns the new total.
func (s *RedisQuotaStore) Add(ctx context.Context, n int) (int, error) {
	key := s.key()

	pipe := s.client.Pipeline()
	incr := pipe.IncrBy(ctx, key, int64(n))
	pipe.Expire(ctx, key, quotaKeyTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("increment quota counter: %w", err)
	}
	return int(incr.Val()), nil
}
