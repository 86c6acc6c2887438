package infra

import (
	"context"
	"errors"

	"outbound-dispatcher/outbound/dispatch/domain"

	"github.com/redis/go-redis/v9"
)

// RedisListTransport entrega cada payload com RPUSH numa lista do Redis.
// Um consumidor do outro lado (BLPOP) faz o papel do destino.
type RedisListTransport struct {
	rdb *redis.Client
	key string
}

var _ domain.Transport = (*RedisListTransport)(nil)

func NewRedisListTransport(rdb *redis.Client, key string) *RedisListTransport {
	if key == "" {
		key = "dispatch:outbox"
	}
	return &RedisListTransport{rdb: rdb, key: key}
}

func (t *RedisListTransport) Key() string { return t.key }

func (t *RedisListTransport) Send(ctx context.Context, payload []byte) error {
	if t == nil || t.rdb == nil {
		return errors.New("redis transport not initialized")
	}
	return t.rdb.RPush(ctx, t.key, payload).Err()
}
