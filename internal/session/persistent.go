package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/todo-api/internal/models"
	"github.com/yukikurage/todo-api/internal/repository"
)

// PersistentManager stores sessions in the database so they survive
// restarts of a single instance.
type PersistentManager struct {
	repo repository.SessionRepository
	ttl  time.Duration
	now  Clock
}

// NewPersistentManager creates a PersistentManager whose sessions live for ttl.
func NewPersistentManager(repo repository.SessionRepository, ttl time.Duration) *PersistentManager {
	return NewPersistentManagerWithClock(repo, ttl, time.Now)
}

// NewPersistentManagerWithClock is NewPersistentManager with an explicit clock.
func NewPersistentManagerWithClock(repo repository.SessionRepository, ttl time.Duration, now Clock) *PersistentManager {
	return &PersistentManager{
		repo: repo,
		ttl:  ttl,
		now:  func() time.Time { return now().UTC() },
	}
}

func (m *PersistentManager) Create(ctx context.Context, userID uint64) (string, error) {
	if userID == 0 {
		return "", ErrInvalidUser
	}

	id, err := newID()
	if err != nil {
		return "", err
	}

	now := m.now()
	s := &models.Session{
		ID:        id,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.repo.Create(ctx, s); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	return id, nil
}

func (m *PersistentManager) Resolve(ctx context.Context, id string) (uint64, bool, error) {
	if !validID(id) {
		return 0, false, nil
	}

	s, err := m.repo.FindActive(ctx, id, m.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to resolve session: %w", err)
	}

	return s.UserID, true, nil
}

func (m *PersistentManager) Destroy(ctx context.Context, id string) error {
	if !validID(id) {
		return nil
	}
	if err := m.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}

func (m *PersistentManager) Sweep(ctx context.Context) (int, error) {
	removed, err := m.repo.DeleteExpired(ctx, m.now())
	if err != nil {
		return 0, fmt.Errorf("failed to sweep sessions: %w", err)
	}
	return int(removed), nil
}

var _ Manager = (*PersistentManager)(nil)
