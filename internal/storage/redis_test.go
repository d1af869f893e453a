package storage

import (
	"context"
	"os"
	"testing"
	"time"

	redis "github.com/redis/go-redis/v9"
)

func testRedis(t *testing.T) *Redis {
	t.Helper()
	addr := os.Getenv("SCRIVENER_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("SCRIVENER_TEST_REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { rdb.Close() })
	return NewRedis(rdb, "scrivener-test:"+t.Name()+":", 2, time.Second)
}

func TestRedisSaveAndHistory(t *testing.T) {
	r := testRedis(t)
	ctx := context.Background()
	t.Cleanup(func() {
		r.rdb.Del(ctx, r.Key("doc"), r.historyKey("doc"))
	})

	doc := r.Scope("doc")
	for _, v := range []string{"one", "two", "three"} {
		if err := doc.Save(v); err != nil {
			t.Fatalf("Save(%q): %v", v, err)
		}
	}
	got, err := r.Latest(ctx, "doc")
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if got != "three" {
		t.Errorf("latest = %q, want three", got)
	}
	hist, err := r.rdb.LRange(ctx, r.historyKey("doc"), 0, -1).Result()
	if err != nil {
		t.Fatalf("LRange: %v", err)
	}
	if len(hist) != 2 || hist[0] != "three" {
		t.Errorf("history = %v", hist)
	}
}

func TestRedisSaveUnreachable(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	defer rdb.Close()
	r := NewRedis(rdb, "x:", 1, 500*time.Millisecond)
	if err := r.Save("data"); err == nil {
		t.Error("expected error for unreachable server")
	}
}
