package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// compareAndDelete removes the key only while it still holds the caller's
// value, so a lock that expired and was re-acquired elsewhere is left alone.
var compareAndDelete = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisLock is a best-effort distributed lock over a single key.
type RedisLock struct {
	rdb   *redis.Client
	key   string
	ttl   time.Duration
	value string
}

func NewRedisLock(rdb *redis.Client, key string, ttl time.Duration) *RedisLock {
	return &RedisLock{rdb: rdb, key: key, ttl: ttl}
}

// Acquire takes the lock for the TTL. The stored value identifies this holder
// so Release cannot drop a lock taken over by another replica.
func (l *RedisLock) Acquire(ctx context.Context) (bool, error) {
	l.value = uuid.NewString()
	return l.rdb.SetNX(ctx, l.key, l.value, l.ttl).Result()
}

// Release drops the lock if this holder still owns it.
func (l *RedisLock) Release(ctx context.Context) error {
	return compareAndDelete.Run(ctx, l.rdb, []string{l.key}, l.value).Err()
}
