package redis

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
)

// idempotencyFixture is an IdempotencyStore backed by an in-process Redis.
type idempotencyFixture struct {
	ctx    context.Context
	server *miniredis.Miniredis
	client *redislib.Client
	store  *IdempotencyStore
}

func newIdempotencyFixture(t *testing.T) *idempotencyFixture {
	t.Helper()

	server := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return &idempotencyFixture{
		ctx:    context.Background(),
		server: server,
		client: client,
		store:  NewIdempotencyStore(client),
	}
}

// stored returns the raw value kept for an idempotency key.
func (f *idempotencyFixture) stored(t *testing.T, key string) string {
	t.Helper()
	val, err := f.server.Get(f.store.prefix + key)
	if err != nil {
		t.Fatalf("key %q not stored: %v", key, err)
	}
	return val
}
