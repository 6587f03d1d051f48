package store

import (
	"context"

	"errors"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "exchange:credentials"

// RedisStore keeps the credential pair in redis under "<prefix>:<name>",
// letting several processes on one profile share a session.
type RedisStore struct {
	backend
	rdb    redis.UniversalClient
	prefix string
}

// NewRedisStore creates a redis backed store; an empty prefix uses the default.
func NewRedisStore(rdb redis.UniversalClient, prefix string, options ...Option) *RedisStore {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisStore{backend: newBackend(options), rdb: rdb, prefix: prefix}
}

func (r *RedisStore) key(name Name) string {
	return r.prefix + ":" + string(name)
}

// Get treats redis.Nil and connection failures alike: both mean no session.
// Failures other than a missing key are logged.
func (r *RedisStore) Get(ctx context.Context, name Name) (string, bool) {
	value, err := r.rdb.Get(ctx, r.key(name)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.WithError(err).WithField("key", r.key(name)).Warn("failed to read credential")
		}
		return "", false
	}
	return value, true
}

func (r *RedisStore) Set(ctx context.Context, name Name, value string) error {
	return r.rdb.Set(ctx, r.key(name), value, 0).Err()
}

func (r *RedisStore) Clear(ctx context.Context, name Name) error {
	return r.rdb.Del(ctx, r.key(name)).Err()
}
