//go:build integration

package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

// exercise runs the common Cache contract against a live backend.
func exercise(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()
	key := "layout:integration-" + time.Now().Format("150405.000000")

	if _, hit, err := c.Get(ctx, key); err != nil || hit {
		t.Fatalf("fresh Get = %v, %v", hit, err)
	}
	if err := c.Set(ctx, key, []byte("payload"), time.Minute); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(data) != "payload" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, key); hit {
		t.Error("deleted key still present")
	}
}

func TestRedisCache_Integration(t *testing.T) {
	addr := os.Getenv("THREADMAP_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("THREADMAP_TEST_REDIS_ADDR not set")
	}
	c, err := NewRedisCache(context.Background(), RedisConfig{Addr: addr})
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	exercise(t, c)
}

func TestMongoCache_Integration(t *testing.T) {
	uri := os.Getenv("THREADMAP_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("THREADMAP_TEST_MONGO_URI not set")
	}
	c, err := NewMongoCache(context.Background(), MongoConfig{URI: uri, Collection: "cache_test"})
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	exercise(t, c)

	t.Run("ExpiredIsMiss", func(t *testing.T) {
		ctx := context.Background()
		now := time.Now()
		c.now = func() time.Time { return now }
		if err := c.Set(ctx, "layout:expiring", []byte("x"), time.Second); err != nil {
			t.Fatal(err)
		}
		c.now = func() time.Time { return now.Add(time.Hour) }
		if _, hit, _ := c.Get(ctx, "layout:expiring"); hit {
			t.Error("expired document returned")
		}
	})
}
