package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"quoting-system/internal/config"
	"quoting-system/internal/logger"

	miniredis "github.com/alicebob/miniredis/v2"
	redislib "github.com/go-redis/redis/v8"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis, context.Context) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redislib.NewClient(&redislib.Options{Addr: mr.Addr()})
	log := logger.New(&config.LoggerConfig{Level: "error", Format: "json"})
	return &Client{client: rdb, log: log}, mr, context.Background()
}

func TestConnectSuccess(t *testing.T) {
	mr := miniredis.RunT(t)
	defer mr.Close()
	log := logger.New(&config.LoggerConfig{Level: "error", Format: "json"})
	cfg := &config.RedisConfig{Host: "127.0.0.1", Port: mr.Port(), DB: 0}

	client, err := Connect(cfg, log)
	if err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
}

func TestConnectFailure(t *testing.T) {
	log := logger.New(&config.LoggerConfig{Level: "error", Format: "json"})
	cfg := &config.RedisConfig{Host: "127.0.0.1", Port: "0", DB: 0}
	if _, err := Connect(cfg, log); err == nil {
		t.Fatalf("expected connect error")
	}
}

func TestCloseNil(t *testing.T) {
	var client *Client
	if err := client.Close(); err != nil {
		t.Fatalf("expected nil error on nil client close, got %v", err)
	}
}

func TestGenerateKey(t *testing.T) {
	key := GenerateKey(KeyPrefixDistance, "1,2,3,4")
	if key != "distance:1,2,3,4" {
		t.Fatalf("unexpected key: %s", key)
	}
}

func TestSetGetExistsDelete(t *testing.T) {
	client, _, ctx := newTestClient(t)

	type payload struct {
		Value string
	}

	val := payload{Value: "data"}
	if err := client.Set(ctx, "key1", val, time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	var got payload
	if err := client.Get(ctx, "key1", &got); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Value != val.Value {
		t.Fatalf("unexpected value: %+v", got)
	}

	exists, err := client.Exists(ctx, "key1")
	if err != nil || !exists {
		t.Fatalf("expected key to exist, err=%v", err)
	}

	if err := client.Delete(ctx, "key1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	exists, err = client.Exists(ctx, "key1")
	if err != nil || exists {
		t.Fatalf("expected key to be removed, err=%v", err)
	}
}

func TestGet_MissingKeyWrapsNotFound(t *testing.T) {
	client, _, ctx := newTestClient(t)

	var dest string
	err := client.Get(ctx, "missing", &dest)
	if err == nil {
		t.Fatalf("expected error for missing key")
	}
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSet_NoExpiration(t *testing.T) {
	client, mr, ctx := newTestClient(t)

	if err := client.Set(ctx, "distance:1,2,3,4", 12.34, 0); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	// ttl=0 означает бессрочный ключ
	if mr.TTL("distance:1,2,3,4") != 0 {
		t.Fatalf("expected key without expiration")
	}
}

func TestIncrExpireTTLGetInt(t *testing.T) {
	client, _, ctx := newTestClient(t)

	n, err := client.Incr(ctx, "counter")
	if err != nil || n != 1 {
		t.Fatalf("incr failed: n=%d err=%v", n, err)
	}
	if err := client.Expire(ctx, "counter", time.Minute); err != nil {
		t.Fatalf("expire failed: %v", err)
	}
	ttl, err := client.TTL(ctx, "counter")
	if err != nil || ttl <= 0 {
		t.Fatalf("ttl failed: ttl=%v err=%v", ttl, err)
	}
	got, err := client.GetInt(ctx, "counter")
	if err != nil || got != 1 {
		t.Fatalf("getint failed: got=%d err=%v", got, err)
	}
}
