package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

// exerciseCache runs the shared Cache contract against a live backend.
func exerciseCache(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()
	key := NewScopedKeyer(nil, "test:"+t.Name()+":").CountKey(9, 3, CountKeyOpts{})
	t.Cleanup(func() { _ = c.Delete(ctx, key) })

	if _, hit, err := c.Get(ctx, key); err != nil || hit {
		t.Fatalf("Get before Set = hit %v, err %v; want miss", hit, err)
	}
	if err := c.Set(ctx, key, []byte("8"), time.Hour); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(data) != "8" {
		t.Fatalf("Get after Set = %q, hit %v, err %v", data, hit, err)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, key); hit {
		t.Error("entry should be gone after Delete")
	}
}

func TestRedisCacheIntegration(t *testing.T) {
	addr := os.Getenv("CRACKFREE_REDIS_ADDR")
	if addr == "" {
		t.Skip("CRACKFREE_REDIS_ADDR not set")
	}
	c, err := NewRedisCache(context.Background(), addr)
	if err != nil {
		t.Fatalf("NewRedisCache() error: %v", err)
	}
	defer c.Close()
	exerciseCache(t, c)
}

func TestMongoCacheIntegration(t *testing.T) {
	uri := os.Getenv("CRACKFREE_MONGO_URI")
	if uri == "" {
		t.Skip("CRACKFREE_MONGO_URI not set")
	}
	c, err := NewMongoCache(context.Background(), uri, "crackfree_test")
	if err != nil {
		t.Fatalf("NewMongoCache() error: %v", err)
	}
	defer c.Close()
	exerciseCache(t, c)
}

func TestNetworkErrorClassification(t *testing.T) {
	if networkError(nil) != nil {
		t.Error("networkError(nil) should be nil")
	}
	if IsRetryable(networkError(context.Canceled)) {
		t.Error("cancellation should not be retried")
	}
	if !IsRetryable(networkError(errors.New("connection reset by peer"))) {
		t.Error("connection failures should be retried")
	}
}
