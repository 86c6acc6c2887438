package infra

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"outbound-dispatcher/outbound/dispatch/domain"

	"github.com/redis/go-redis/v9"
)

// RedisOutcomeMirror espelha os resultados por lane em hashes do Redis.
//
// É só um feed de observabilidade: o dispatcher nunca lê esses dados de volta.
type RedisOutcomeMirror struct {
	rdb *redis.Client

	prefix string
	// ttl aplica apenas nas chaves de série temporal.
	// total e por lane são cumulativos e não expiram.
	ttl time.Duration

	bucket string // "minute" (padrão) ou "none"
}

type RedisMirrorOption func(*RedisOutcomeMirror)

func WithMirrorPrefix(prefix string) RedisMirrorOption {
	return func(m *RedisOutcomeMirror) {
		m.prefix = strings.Trim(prefix, ":")
	}
}

func WithMirrorTTL(d time.Duration) RedisMirrorOption {
	return func(m *RedisOutcomeMirror) { m.ttl = d }
}

func WithMirrorBucket(bucket string) RedisMirrorOption {
	return func(m *RedisOutcomeMirror) { m.bucket = strings.ToLower(strings.TrimSpace(bucket)) }
}

func NewRedisOutcomeMirror(rdb *redis.Client, opts ...RedisMirrorOption) *RedisOutcomeMirror {
	m := &RedisOutcomeMirror{
		rdb:    rdb,
		prefix: "dispatch:trace",
		ttl:    24 * time.Hour,
		bucket: "minute",
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// LaneKey retorna a chave do hash de uma lane (campos "requests" e "succeeded").
func (m *RedisOutcomeMirror) LaneKey(lane domain.LaneID) string {
	return m.prefix + ":lane:" + strconv.FormatUint(uint64(lane), 10)
}

func (m *RedisOutcomeMirror) Record(ctx context.Context, ev domain.OutcomeEvent) error {
	if m == nil || m.rdb == nil {
		return nil
	}

	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}

	pipe := m.rdb.Pipeline()

	totalKey := m.prefix + ":total"
	pipe.HIncrBy(ctx, totalKey, "requests", 1)
	laneKey := m.LaneKey(ev.Lane)
	pipe.HIncrBy(ctx, laneKey, "requests", 1)
	if ev.Succeeded {
		pipe.HIncrBy(ctx, totalKey, "succeeded", 1)
		pipe.HIncrBy(ctx, laneKey, "succeeded", 1)
	}

	if m.bucket == "minute" {
		field := "failed"
		if ev.Succeeded {
			field = "succeeded"
		}
		bucketKey := fmt.Sprintf("%s:minute:%s", m.prefix, at.UTC().Format("200601021504"))
		pipe.HIncrBy(ctx, bucketKey, field, 1)
		if m.ttl > 0 {
			pipe.Expire(ctx, bucketKey, m.ttl)
		}
	}

	_, err := pipe.Exec(ctx)
	return err
}
