package middleware

import (
	"context"
	"log/slog"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/todo-api/internal/constants"
	apierrors "github.com/yukikurage/todo-api/internal/errors"
)

// SessionResolver maps a session id to the user it belongs to.
type SessionResolver interface {
	ResolveSession(ctx context.Context, sessionID string) (uint64, bool, error)
}

// SessionID returns the opaque session id carried by the request cookie,
// or "" when there is none.
func SessionID(c *gin.Context) string {
	id, _ := sessions.Default(c).Get(constants.SessionKeyID).(string)
	return id
}

// RequireAuth resolves the session cookie on every request and rejects the
// request with 401 unless it maps to a live session.
func RequireAuth(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := SessionID(c)
		if sessionID == "" {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		userID, ok, err := resolver.ResolveSession(c.Request.Context(), sessionID)
		if err != nil {
			slog.ErrorContext(c.Request.Context(), "failed to resolve session",
				slog.String("error", err.Error()),
			)
			apierrors.InternalError(c)
			c.Abort()
			return
		}
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		// Store user ID in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, v != 0
	case uint:
		return uint64(v), v != 0
	case int:
		if v <= 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
