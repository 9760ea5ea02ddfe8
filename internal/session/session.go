package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

// Manager associates opaque browser-held tokens with user ids. Get on a
// missing or expired token fails with ErrSessionNotFound; Destroy is
// idempotent.
type Manager interface {
	Create(ctx context.Context, userID int) (string, error)
	Get(ctx context.Context, token string) (int, error)
	Destroy(ctx context.Context, token string) error
}

type record struct {
	userID    int
	expiresAt time.Time
}

// MemoryManager holds sessions in process memory. Expired records are
// dropped lazily on lookup.
type MemoryManager struct {
	mu       sync.Mutex
	sessions map[string]record
	ttl      time.Duration
}

// NewMemoryManager creates an in-memory session manager with the given TTL
func NewMemoryManager(ttl time.Duration) *MemoryManager {
	return &MemoryManager{
		sessions: make(map[string]record),
		ttl:      ttl,
	}
}

var _ Manager = (*MemoryManager)(nil)

func (m *MemoryManager) Create(ctx context.Context, userID int) (string, error) {
	token := uuid.NewString()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[token] = record{
		userID:    userID,
		expiresAt: time.Now().Add(m.ttl),
	}
	return token, nil
}

func (m *MemoryManager) Get(ctx context.Context, token string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.sessions[token]
	if !ok {
		return 0, ErrSessionNotFound
	}
	if time.Now().After(rec.expiresAt) {
		delete(m.sessions, token)
		return 0, ErrSessionNotFound
	}
	return rec.userID, nil
}

func (m *MemoryManager) Destroy(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, token)
	return nil
}
