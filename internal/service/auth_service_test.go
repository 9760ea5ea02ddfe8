package service

import (
	"context"
	"strings"
	"testing"

	"storefront/internal/store"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestProperty_RegistrationHashesPasswords(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 10 // scrypt is deliberately slow

	properties := gopter.NewProperties(parameters)
	ctx := context.Background()

	properties.Property("stored passwords are scrypt hashes, never plaintext", prop.ForAll(
		func(username string, password string) bool {
			svc := NewAuthService(store.NewMemoryStore())

			user, err := svc.Register(ctx, username, password)
			if err != nil {
				return false
			}

			if user.Password == password {
				return false
			}
			// hash.salt format
			return strings.Count(user.Password, ".") == 1
		},
		gen.Identifier(),
		gen.Identifier(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	memStore := store.NewMemoryStore()
	svc := NewAuthService(memStore)

	if _, err := svc.Register(ctx, "alice", "pw123"); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}

	if _, err := svc.Register(ctx, "alice", "other"); err != ErrUsernameTaken {
		t.Fatalf("duplicate registration: got %v, want ErrUsernameTaken", err)
	}

	// The rejected attempt must not have created a row
	if _, err := memStore.GetUser(ctx, 2); err != store.ErrUserNotFound {
		t.Errorf("rejected registration left a user row behind")
	}
}

func TestRegisterIsCaseSensitive(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(store.NewMemoryStore())

	if _, err := svc.Register(ctx, "alice", "pw123"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Register(ctx, "Alice", "pw123"); err != nil {
		t.Errorf("differently-cased username was rejected: %v", err)
	}
}

func TestLoginFailsGenericallyForUnknownUserAndBadPassword(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(store.NewMemoryStore())

	if _, err := svc.Register(ctx, "alice", "pw123"); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Login(ctx, "nobody", "pw123"); err != ErrInvalidCredentials {
		t.Errorf("unknown user: got %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(ctx, "alice", "wrong"); err != ErrInvalidCredentials {
		t.Errorf("bad password: got %v, want ErrInvalidCredentials", err)
	}

	user, err := svc.Login(ctx, "alice", "pw123")
	if err != nil {
		t.Fatalf("valid login failed: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("login returned wrong user %q", user.Username)
	}
}
