package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/todo-api/internal/constants"
	"github.com/yukikurage/todo-api/internal/models"
	"github.com/yukikurage/todo-api/internal/repository"
	"github.com/yukikurage/todo-api/internal/session"
)

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

// AuthService handles authentication related business logic. It is the
// only writer of session state.
type AuthService struct {
	credentials *CredentialStore
	sessions    session.Manager
	userRepo    repository.UserRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(credentials *CredentialStore, sessions session.Manager, userRepo repository.UserRepository) *AuthService {
	return &AuthService{
		credentials: credentials,
		sessions:    sessions,
		userRepo:    userRepo,
	}
}

// SignupInput represents the required information to create a new user.
type SignupInput struct {
	Email    string
	Password string
}

// Signup creates a new user and logs them in, returning the new session id.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (string, error) {
	if len(input.Password) < constants.MinPasswordLength {
		return "", ErrInvalidPassword
	}
	if len(input.Password) > maxPasswordBytes {
		return "", ErrPasswordTooLong
	}

	user, err := s.credentials.CreateUser(ctx, input.Email, input.Password)
	if err != nil {
		return "", err
	}

	return s.startSession(ctx, user.ID)
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns a new session id. An unknown email
// and a wrong password produce the same ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (string, error) {
	user, err := s.credentials.FindByEmail(ctx, input.Email)
	if err != nil {
		return "", err
	}

	if !s.credentials.VerifyPassword(user, input.Password) {
		return "", ErrInvalidCredentials
	}

	return s.startSession(ctx, user.ID)
}

// Logout destroys the session. Empty, unknown and already destroyed ids are
// accepted.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Destroy(ctx, sessionID); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreFailure, err)
	}
	return nil
}

// CheckSession reports whether sessionID resolves to a live user.
func (s *AuthService) CheckSession(ctx context.Context, sessionID string) (bool, error) {
	_, ok, err := s.ResolveSession(ctx, sessionID)
	return ok, err
}

// ResolveSession returns the user bound to sessionID.
func (s *AuthService) ResolveSession(ctx context.Context, sessionID string) (uint64, bool, error) {
	if sessionID == "" {
		return 0, false, nil
	}
	userID, ok, err := s.sessions.Resolve(ctx, sessionID)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %v", ErrStoreFailure, err)
	}
	return userID, ok, nil
}

// CurrentUser retrieves the user behind an authenticated request.
func (s *AuthService) CurrentUser(ctx context.Context, userID uint64) (*models.User, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: find user: %v", ErrStoreFailure, err)
	}

	return user, nil
}

func (s *AuthService) startSession(ctx context.Context, userID uint64) (string, error) {
	sessionID, err := s.sessions.Create(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("%w: create session: %v", ErrStoreFailure, err)
	}
	return sessionID, nil
}
