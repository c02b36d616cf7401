// Package testutil holds helpers shared by tests across packages.
package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// SetupTestRedis returns a client against the test Redis instance, or
// skips the test when none is reachable. Set TEST_REDIS_ADDR to point at a
// non-default instance; set TEST_REDIS_REQUIRED=1 to fail instead of skip.
func SetupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	// DB 15 keeps test keys away from any local dev data.
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		if os.Getenv("TEST_REDIS_REQUIRED") == "1" {
			t.Fatalf("redis not available at %s: %v", addr, err)
		}
		t.Skipf("redis not available at %s: %v", addr, err)
	}

	if err := client.FlushDB(ctx).Err(); err != nil {
		client.Close()
		t.Fatalf("flush test redis db: %v", err)
	}

	t.Cleanup(func() { client.Close() })
	return client
}
