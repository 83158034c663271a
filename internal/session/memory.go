package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	userID    uint64
	createdAt time.Time
	expiresAt time.Time
}

// MemoryManager keeps sessions in process memory. Sessions do not survive
// a restart.
type MemoryManager struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	ttl      time.Duration
	now      Clock
}

// NewMemoryManager creates a MemoryManager whose sessions live for ttl.
func NewMemoryManager(ttl time.Duration) *MemoryManager {
	return NewMemoryManagerWithClock(ttl, time.Now)
}

// NewMemoryManagerWithClock is NewMemoryManager with an explicit clock.
func NewMemoryManagerWithClock(ttl time.Duration, now Clock) *MemoryManager {
	return &MemoryManager{
		sessions: make(map[string]memoryEntry),
		ttl:      ttl,
		now:      now,
	}
}

func (m *MemoryManager) Create(ctx context.Context, userID uint64) (string, error) {
	if userID == 0 {
		return "", ErrInvalidUser
	}

	id, err := newID()
	if err != nil {
		return "", err
	}

	now := m.now()
	m.mu.Lock()
	m.sessions[id] = memoryEntry{
		userID:    userID,
		createdAt: now,
		expiresAt: now.Add(m.ttl),
	}
	m.mu.Unlock()

	return id, nil
}

func (m *MemoryManager) Resolve(ctx context.Context, id string) (uint64, bool, error) {
	if !validID(id) {
		return 0, false, nil
	}

	m.mu.RLock()
	entry, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return 0, false, nil
	}

	if !m.now().Before(entry.expiresAt) {
		m.mu.Lock()
		delete(m.sessions, id)
		m.mu.Unlock()
		return 0, false, nil
	}

	return entry.userID, true, nil
}

func (m *MemoryManager) Destroy(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

func (m *MemoryManager) Sweep(ctx context.Context) (int, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, entry := range m.sessions {
		if !now.Before(entry.expiresAt) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed, nil
}

// Len reports the number of stored sessions, expired ones included.
func (m *MemoryManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

var _ Manager = (*MemoryManager)(nil)
