package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/adamn1225/adam-noahs-stuff/internal/platform/logger"
)

// Limiter is a fixed-window counter keyed by caller identity.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type Rule struct {
	Limit  int
	Window time.Duration
}

// Off reports whether the rule disables limiting.
func (r Rule) Off() bool { return r.Limit <= 0 || r.Window <= 0 }

// ---------- Redis ----------

type redisLimiter struct {
	log    *logger.Logger
	rdb    goredis.UniversalClient
	prefix string
	rule   Rule
}

// NewRedis counts hits with INCR and lets the key expire at the end of the
// window, so limits hold across replicas.
func NewRedis(rdb goredis.UniversalClient, prefix string, rule Rule, log *logger.Logger) Limiter {
	if log == nil {
		log = logger.NewNop()
	}
	return &redisLimiter{
		log:    log.With("service", "RedisRateLimiter", "prefix", prefix),
		rdb:    rdb,
		prefix: prefix,
		rule:   rule,
	}
}

func (l *redisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if l.rule.Off() {
		return true, nil
	}
	window := time.Now().UnixNano() / int64(l.rule.Window)
	k := fmt.Sprintf("ratelimit:%s:%s:%d", l.prefix, key, window)

	pipe := l.rdb.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, l.rule.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}
	return incr.Val() <= int64(l.rule.Limit), nil
}

// Connect dials Redis and verifies it with a PING.
func Connect(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: 5 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// ---------- in-process ----------

type memoryLimiter struct {
	rule Rule
	now  func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket
}

type bucket struct {
	start time.Time
	count int
}

// NewMemory keeps counters in process memory. Used when Redis is not configured.
func NewMemory(rule Rule, now func() time.Time) Limiter {
	if now == nil {
		now = time.Now
	}
	return &memoryLimiter{rule: rule, now: now, buckets: map[string]*bucket{}}
}

func (l *memoryLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if l.rule.Off() {
		return true, nil
	}
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok || now.Sub(b.start) >= l.rule.Window {
		// drop stale buckets opportunistically so the map stays small
		if len(l.buckets) > 10_000 {
			for k, old := range l.buckets {
				if now.Sub(old.start) >= l.rule.Window {
					delete(l.buckets, k)
				}
			}
		}
		b = &bucket{start: now}
		l.buckets[key] = b
	}
	b.count++
	return b.count <= l.rule.Limit, nil
}
