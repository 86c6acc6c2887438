package infra

import (
	"context"
	"testing"
	"time"

	"outbound-dispatcher/outbound/dispatch/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRedisOutcomeMirror_NilClientIsNoop(t *testing.T) {
	m := NewRedisOutcomeMirror(nil)
	if err := m.Record(context.Background(), domain.OutcomeEvent{Lane: 1, Succeeded: true}); err != nil {
		t.Fatalf("expected nil error for nil client, got %v", err)
	}

	var nilMirror *RedisOutcomeMirror
	if err := nilMirror.Record(context.Background(), domain.OutcomeEvent{}); err != nil {
		t.Fatalf("expected nil error for nil mirror, got %v", err)
	}
}

func TestRedisOutcomeMirror_Options(t *testing.T) {
	m := NewRedisOutcomeMirror(nil,
		WithMirrorPrefix(":svc:trace:"),
		WithMirrorTTL(time.Hour),
		WithMirrorBucket(" NONE "),
	)
	if m.LaneKey(5) != "svc:trace:lane:5" {
		t.Fatalf("unexpected lane key %q", m.LaneKey(5))
	}
	if m.ttl != time.Hour {
		t.Fatalf("unexpected ttl %s", m.ttl)
	}
	if m.bucket != "none" {
		t.Fatalf("unexpected bucket %q", m.bucket)
	}
}

func TestRedisListTransport_NotInitialized(t *testing.T) {
	tr := NewRedisListTransport(nil, "")
	if tr.Key() != "dispatch:outbox" {
		t.Fatalf("unexpected default key %q", tr.Key())
	}
	if err := tr.Send(context.Background(), []byte("x")); err == nil {
		t.Fatalf("expected error without client")
	}
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestRedisOutcomeMirror_RecordCountsTotalsAndLanes(t *testing.T) {
	mr, rdb := newTestRedis(t)
	m := NewRedisOutcomeMirror(rdb, WithMirrorPrefix("svc"), WithMirrorTTL(time.Hour))
	at := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	ctx := context.Background()

	events := []domain.OutcomeEvent{
		{Lane: 0, Succeeded: true, At: at},
		{Lane: 0, Succeeded: false, At: at},
		{Lane: 2, Succeeded: false, At: at},
	}
	for _, ev := range events {
		if err := m.Record(ctx, ev); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := mr.HGet("svc:total", "requests"); got != "3" {
		t.Fatalf("expected 3 total requests, got %q", got)
	}
	if got := mr.HGet("svc:total", "succeeded"); got != "1" {
		t.Fatalf("expected 1 total succeeded, got %q", got)
	}
	if got := mr.HGet("svc:lane:0", "requests"); got != "2" {
		t.Fatalf("expected 2 requests on lane 0, got %q", got)
	}
	if got := mr.HGet("svc:lane:0", "succeeded"); got != "1" {
		t.Fatalf("expected 1 succeeded on lane 0, got %q", got)
	}
	if got := mr.HGet("svc:lane:2", "requests"); got != "1" {
		t.Fatalf("expected 1 request on lane 2, got %q", got)
	}
	if mr.HGet("svc:lane:2", "succeeded") != "" {
		t.Fatalf("expected no succeeded field on a lane that only failed")
	}

	bucketKey := "svc:minute:202405060708"
	if got := mr.HGet(bucketKey, "succeeded"); got != "1" {
		t.Fatalf("expected 1 succeeded in minute bucket, got %q", got)
	}
	if got := mr.HGet(bucketKey, "failed"); got != "2" {
		t.Fatalf("expected 2 failed in minute bucket, got %q", got)
	}
	if ttl := mr.TTL(bucketKey); ttl != time.Hour {
		t.Fatalf("expected bucket ttl 1h, got %s", ttl)
	}
	if ttl := mr.TTL("svc:lane:0"); ttl != 0 {
		t.Fatalf("expected lane hash to never expire, got %s", ttl)
	}
	if ttl := mr.TTL("svc:total"); ttl != 0 {
		t.Fatalf("expected total hash to never expire, got %s", ttl)
	}
}

func TestRedisOutcomeMirror_NoBucketWhenDisabled(t *testing.T) {
	mr, rdb := newTestRedis(t)
	m := NewRedisOutcomeMirror(rdb, WithMirrorPrefix("svc"), WithMirrorBucket("none"))

	if err := m.Record(context.Background(), domain.OutcomeEvent{Lane: 1, Succeeded: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, k := range mr.Keys() {
		if k != "svc:total" && k != "svc:lane:1" {
			t.Fatalf("unexpected key %q with bucket=none", k)
		}
	}
	if got := mr.HGet("svc:lane:1", "succeeded"); got != "1" {
		t.Fatalf("expected 1 succeeded on lane 1, got %q", got)
	}
}

func TestRedisOutcomeMirror_NoExpireWithoutTTL(t *testing.T) {
	mr, rdb := newTestRedis(t)
	m := NewRedisOutcomeMirror(rdb, WithMirrorPrefix("svc"), WithMirrorTTL(0))
	at := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	if err := m.Record(context.Background(), domain.OutcomeEvent{Lane: 0, At: at}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := mr.HGet("svc:minute:202405060708", "failed"); got != "1" {
		t.Fatalf("expected 1 failed in minute bucket, got %q", got)
	}
	if ttl := mr.TTL("svc:minute:202405060708"); ttl != 0 {
		t.Fatalf("expected no ttl, got %s", ttl)
	}
}

func TestRedisOutcomeMirror_RecordFailsWhenServerIsDown(t *testing.T) {
	mr, rdb := newTestRedis(t)
	m := NewRedisOutcomeMirror(rdb)
	mr.Close()

	if err := m.Record(context.Background(), domain.OutcomeEvent{Lane: 0}); err == nil {
		t.Fatalf("expected error with redis down")
	}
}

func TestRedisListTransport_PushesPayloadsInOrder(t *testing.T) {
	mr, rdb := newTestRedis(t)
	tr := NewRedisListTransport(rdb, "jobs")

	for _, p := range []string{`{"seq":0}`, `{"seq":1}`} {
		if err := tr.Send(context.Background(), []byte(p)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	got, err := mr.List("jobs")
	if err != nil {
		t.Fatalf("read list: %v", err)
	}
	if len(got) != 2 || got[0] != `{"seq":0}` || got[1] != `{"seq":1}` {
		t.Fatalf("unexpected list contents %q", got)
	}
}

func TestRedisListTransport_FailsWhenServerIsDown(t *testing.T) {
	mr, rdb := newTestRedis(t)
	tr := NewRedisListTransport(rdb, "jobs")
	mr.Close()

	if err := tr.Send(context.Background(), []byte("x")); err == nil {
		t.Fatalf("expected error with redis down")
	}
}
