package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("session")

// RedisBackend stores sessions as "session:<sid>" keys with a TTL.
type RedisBackend struct {
	rdb *redis.Client
}

// NewRedisBackend creates a Redis-based Backend.
func NewRedisBackend(rdb *redis.Client) *RedisBackend {
	return &RedisBackend{rdb: rdb}
}

func sessionKey(sid string) string {
	return fmt.Sprintf("session:%s", sid)
}

func (b *RedisBackend) Save(ctx context.Context, sid string, userID int64, ttl time.Duration) error {
	ctx, span := tracer.Start(ctx, "RedisBackend.Save")
	defer span.End()

	return b.rdb.Set(ctx, sessionKey(sid), userID, ttl).Err()
}

func (b *RedisBackend) Load(ctx context.Context, sid string) (int64, bool, error) {
	ctx, span := tracer.Start(ctx, "RedisBackend.Load")
	defer span.End()

	val, err := b.rdb.Get(ctx, sessionKey(sid)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		span.RecordError(err)
		return 0, false, err
	}

	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt session %s: %w", sid, err)
	}
	return userID, true, nil
}

func (b *RedisBackend) Delete(ctx context.Context, sid string) error {
	ctx, span := tracer.Start(ctx, "RedisBackend.Delete")
	defer span.End()

	return b.rdb.Del(ctx, sessionKey(sid)).Err()
}
