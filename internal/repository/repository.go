package repository

import (
	"context"
	"errors"
	"time"

	"github.com/yukikurage/todo-api/internal/models"
)

// ErrNotFound is returned when a lookup matches no row. Task lookups also
// return it when the row exists but belongs to another owner.
var ErrNotFound = errors.New("repository: record not found")

// ErrDuplicateEmail is returned when the unique email index rejects an insert.
var ErrDuplicateEmail = errors.New("repository: email already registered")

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByEmail finds a user by normalized email
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// TaskRepository defines the interface for task data access. Every method
// is scoped by the owning user.
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *models.Task) error

	// FindOwned finds a task by ID that belongs to ownerID
	FindOwned(ctx context.Context, id, ownerID uint64) (*models.Task, error)

	// ListByOwner retrieves the owner's tasks, newest first
	ListByOwner(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error)

	// Update saves a task, keeping its owner
	Update(ctx context.Context, task *models.Task) error

	// DeleteOwned soft deletes a task that belongs to ownerID
	DeleteOwned(ctx context.Context, id, ownerID uint64) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	OwnerID  uint64
	Page     int
	PageSize int
}

// SessionRepository defines the interface for persisted sessions
type SessionRepository interface {
	// Create stores a new session
	Create(ctx context.Context, session *models.Session) error

	// FindActive returns the session if it exists and expires after now
	FindActive(ctx context.Context, id string, now time.Time) (*models.Session, error)

	// Delete removes a session; deleting a missing session is not an error
	Delete(ctx context.Context, id string) error

	// DeleteExpired removes sessions that expired at or before now
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
