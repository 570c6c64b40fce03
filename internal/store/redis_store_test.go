package store

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupTestRedisBackend(t *testing.T) (*RedisBackend, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	backend := NewRedisBackend(client, "lanes:")
	t.Cleanup(func() { backend.Close() })
	return backend, mr
}

func TestRedisBackend_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	backend, mr := setupTestRedisBackend(t)

	if _, err := backend.Get(ctx, "boardData"); err != ErrKeyNotFound {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}

	if err := backend.Set(ctx, "boardData", []byte(`[]`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	raw, err := mr.Get("lanes:boardData")
	if err != nil {
		t.Fatalf("expected prefixed key in redis: %v", err)
	}
	if raw != "[]" {
		t.Errorf("unexpected raw value %q", raw)
	}

	got, err := backend.Get(ctx, "boardData")
	if err != nil || string(got) != "[]" {
		t.Errorf("Get = %q, %v", got, err)
	}

	if err := backend.Delete(ctx, "boardData"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if mr.Exists("lanes:boardData") {
		t.Error("expected key removed from redis")
	}
}

func TestRedisBackend_ServerDownSurfacesError(t *testing.T) {
	ctx := context.Background()
	backend, mr := setupTestRedisBackend(t)
	mr.Close()

	if _, err := backend.Get(ctx, "k"); err == nil || err == ErrKeyNotFound {
		t.Errorf("expected connection error, got %v", err)
	}
}
