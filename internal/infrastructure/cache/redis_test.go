package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestOpenRedis_Success(t *testing.T) {
	s := miniredis.RunT(t)

	c, err := OpenRedis(context.Background(), s.Addr(), 2)
	if err != nil {
		t.Fatalf("OpenRedis returned error: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	if got := c.Options().DB; got != 2 {
		t.Fatalf("client DB = %d, want 2", got)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := c.Set(ctx, "idem:k", "v", time.Minute).Err(); err != nil {
		t.Fatalf("SET err: %v", err)
	}
	s.Select(2)
	if !s.Exists("idem:k") {
		t.Fatal("key not written to db 2")
	}
}

func TestOpenRedis_Failure(t *testing.T) {
	// unresolvable host fails fast
	if _, err := OpenRedis(context.Background(), "not-a-real-host:6379", 0); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestOpenRedis_CancelledContext(t *testing.T) {
	s := miniredis.RunT(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := OpenRedis(ctx, s.Addr(), 0); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
