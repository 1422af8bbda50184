package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable wraps transport failures from RedisBackend.
var ErrRedisUnavailable = errors.New("session redis unavailable")

const redisKeyPrefix = "hrps"

// RedisBackend persists records in Redis, mapping record expiry to key TTL.
// It is meant for deployments where several client processes share one
// session, e.g. a fleet of workers acting as the same account.
type RedisBackend struct {
	redis  *redis.Client
	prefix string
	now    func() time.Time
}

// NewRedisBackend returns a backend writing under prefix. An empty prefix
// falls back to the package default.
func NewRedisBackend(client *redis.Client, prefix string) *RedisBackend {
	if prefix == "" {
		prefix = redisKeyPrefix
	}
	return &RedisBackend{redis: client, prefix: prefix, now: time.Now}
}

func (b *RedisBackend) key(name string) string {
	return b.prefix + ":" + name
}

func (b *RedisBackend) ttl(rec Record) time.Duration {
	if rec.Expires.IsZero() {
		return 0
	}
	ttl := rec.Expires.Sub(b.now())
	if ttl <= 0 {
		ttl = time.Millisecond
	}
	return ttl
}

// Put stores rec, replacing any existing record of the same name.
func (b *RedisBackend) Put(ctx context.Context, rec Record) error {
	encoded, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if err := b.redis.Set(ctx, b.key(rec.Name), encoded, b.ttl(rec)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// PutPair writes both records in one transactional pipeline so a concurrent
// reader sees either the old pair or the new pair, never a mix.
func (b *RedisBackend) PutPair(ctx context.Context, a, rec Record) error {
	encodedA, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	encodedB, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	pipe := b.redis.TxPipeline()
	pipe.Set(ctx, b.key(a.Name), encodedA, b.ttl(a))
	pipe.Set(ctx, b.key(rec.Name), encodedB, b.ttl(rec))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Get returns the named record, or ErrNotFound when absent or expired.
func (b *RedisBackend) Get(ctx context.Context, name string) (Record, error) {
	raw, err := b.redis.Get(ctx, b.key(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Record{}, ErrNotFound
	}
	if rec.expired(b.now()) {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

// Delete removes the named record. Deleting a missing record is a no-op.
func (b *RedisBackend) Delete(ctx context.Context, name string) error {
	if err := b.redis.Del(ctx, b.key(name)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}
