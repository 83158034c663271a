// Package session owns the server-side session table that binds opaque
// session identifiers to user ids.
//
// A session is Active from Create until either Destroy or its expiry, after
// which Resolve reports it as absent forever.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/yukikurage/todo-api/internal/constants"
	"github.com/yukikurage/todo-api/internal/utils"
)

// ErrInvalidUser is returned by Create for the zero user id.
var ErrInvalidUser = errors.New("session: user id is required")

// Manager issues, resolves and destroys sessions.
type Manager interface {
	// Create binds a new unguessable identifier to userID.
	Create(ctx context.Context, userID uint64) (string, error)

	// Resolve returns the user bound to id. ok is false when the id is
	// unknown, malformed, destroyed or expired.
	Resolve(ctx context.Context, id string) (userID uint64, ok bool, err error)

	// Destroy invalidates id immediately. Destroying an unknown id is a no-op.
	Destroy(ctx context.Context, id string) error

	// Sweep removes expired sessions and reports how many were removed.
	Sweep(ctx context.Context) (int, error)
}

// Clock returns the current time. Tests replace it to drive expiry.
type Clock func() time.Time

func newID() (string, error) {
	return utils.GenerateToken(constants.SessionTokenBytes)
}

func validID(id string) bool {
	return utils.IsHexToken(id, constants.SessionTokenBytes)
}
