package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/redis/go-redis/v9"
)

func managersUnderTest(t *testing.T, ttl time.Duration) map[string]Manager {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return map[string]Manager{
		"memory": NewMemoryManager(ttl),
		"redis":  NewRedisManager(client, ttl),
	}
}

func TestProperty_CreatedSessionsResolveToTheirUser(t *testing.T) {
	for name, mgr := range managersUnderTest(t, time.Hour) {
		t.Run(name, func(t *testing.T) {
			properties := gopter.NewProperties(nil)
			ctx := context.Background()

			properties.Property("Get returns the user id the token was created for", prop.ForAll(
				func(userID int) bool {
					token, err := mgr.Create(ctx, userID)
					if err != nil {
						return false
					}
					got, err := mgr.Get(ctx, token)
					return err == nil && got == userID
				},
				gen.IntRange(1, 1_000_000),
			))

			properties.Property("distinct sessions get distinct tokens", prop.ForAll(
				func(userID int) bool {
					first, err := mgr.Create(ctx, userID)
					if err != nil {
						return false
					}
					second, err := mgr.Create(ctx, userID)
					if err != nil {
						return false
					}
					return first != second
				},
				gen.IntRange(1, 1_000_000),
			))

			properties.TestingRun(t, gopter.ConsoleReporter(false))
		})
	}
}

func TestDestroyedSessionsStopResolving(t *testing.T) {
	ctx := context.Background()

	for name, mgr := range managersUnderTest(t, time.Hour) {
		t.Run(name, func(t *testing.T) {
			token, err := mgr.Create(ctx, 42)
			if err != nil {
				t.Fatal(err)
			}

			if err := mgr.Destroy(ctx, token); err != nil {
				t.Fatalf("Destroy failed: %v", err)
			}
			if _, err := mgr.Get(ctx, token); err != ErrSessionNotFound {
				t.Errorf("Get after Destroy: got %v, want ErrSessionNotFound", err)
			}

			// Destroy is idempotent
			if err := mgr.Destroy(ctx, token); err != nil {
				t.Errorf("second Destroy failed: %v", err)
			}
		})
	}
}

func TestUnknownTokensAreNotFound(t *testing.T) {
	ctx := context.Background()

	for name, mgr := range managersUnderTest(t, time.Hour) {
		t.Run(name, func(t *testing.T) {
			if _, err := mgr.Get(ctx, "no-such-token"); err != ErrSessionNotFound {
				t.Errorf("Get on unknown token: got %v, want ErrSessionNotFound", err)
			}
		})
	}
}

func TestExpiredMemorySessionsAreNotFound(t *testing.T) {
	ctx := context.Background()
	mgr := NewMemoryManager(time.Millisecond)

	token, err := mgr.Create(ctx, 7)
	if err != nil {
		t.Fatal(err)
	}

	time.Sleep(5 * time.Millisecond)

	if _, err := mgr.Get(ctx, token); err != ErrSessionNotFound {
		t.Errorf("Get on expired token: got %v, want ErrSessionNotFound", err)
	}
}

func TestExpiredRedisSessionsAreNotFound(t *testing.T) {
	ctx := context.Background()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	mgr := NewRedisManager(client, time.Minute)
	token, err := mgr.Create(ctx, 7)
	if err != nil {
		t.Fatal(err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := mgr.Get(ctx, token); err != ErrSessionNotFound {
		t.Errorf("Get on expired token: got %v, want ErrSessionNotFound", err)
	}
}
