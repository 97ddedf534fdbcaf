package rate

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	redrepo "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/repo/redis"
)

func newTestLimiter(t *testing.T, perMinute, per10Sec int) (*Limiter, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewLimiter(redrepo.NewRateRepo(client), perMinute, per10Sec), mr
}

func TestAllowLikeUnderLimit(t *testing.T) {
	limiter, _ := newTestLimiter(t, 5, 0)

	for i := 0; i < 5; i++ {
		retryAfter, allowed, err := limiter.AllowLike(context.Background(), 101)
		if err != nil {
			t.Fatalf("allow like %d: %v", i+1, err)
		}
		if !allowed {
			t.Fatalf("like %d must be allowed under the limit", i+1)
		}
		if retryAfter != 0 {
			t.Fatalf("retry after: got %d want 0", retryAfter)
		}
	}
}

func TestAllowLikeBlocksOverMinuteLimit(t *testing.T) {
	limiter, _ := newTestLimiter(t, 2, 0)

	for i := 0; i < 2; i++ {
		if _, allowed, err := limiter.AllowLike(context.Background(), 101); err != nil || !allowed {
			t.Fatalf("warmup like %d: allowed=%v err=%v", i+1, allowed, err)
		}
	}

	retryAfter, allowed, err := limiter.AllowLike(context.Background(), 101)
	if err != nil {
		t.Fatalf("allow like: %v", err)
	}
	if allowed {
		t.Fatal("third like within a minute must be blocked")
	}
	if retryAfter <= 0 || retryAfter > 60 {
		t.Fatalf("retry after out of range: %d", retryAfter)
	}
}

func TestAllowLikeRecoversAfterWindowExpires(t *testing.T) {
	limiter, mr := newTestLimiter(t, 0, 2)

	for i := 0; i < 2; i++ {
		if _, allowed, err := limiter.AllowLike(context.Background(), 101); err != nil || !allowed {
			t.Fatalf("warmup like %d: allowed=%v err=%v", i+1, allowed, err)
		}
	}
	if _, allowed, _ := limiter.AllowLike(context.Background(), 101); allowed {
		t.Fatal("like over the 10s window must be blocked")
	}

	mr.FastForward(11 * time.Second)

	if _, allowed, err := limiter.AllowLike(context.Background(), 101); err != nil || !allowed {
		t.Fatalf("like after window expiry: allowed=%v err=%v", allowed, err)
	}
}

func TestAllowLikeIsolatesUsers(t *testing.T) {
	limiter, _ := newTestLimiter(t, 1, 0)

	if _, allowed, _ := limiter.AllowLike(context.Background(), 101); !allowed {
		t.Fatal("first like for user 101 must pass")
	}
	if _, allowed, _ := limiter.AllowLike(context.Background(), 101); allowed {
		t.Fatal("second like for user 101 must be blocked")
	}
	if _, allowed, _ := limiter.AllowLike(context.Background(), 202); !allowed {
		t.Fatal("user 202 must not share user 101's window")
	}
}

func TestAllowLikeRejectsInvalidUser(t *testing.T) {
	limiter, _ := newTestLimiter(t, 1, 1)

	if _, _, err := limiter.AllowLike(context.Background(), 0); err == nil {
		t.Fatal("expected error for invalid user id")
	}
}
