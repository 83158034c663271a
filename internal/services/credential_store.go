package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yukikurage/todo-api/internal/models"
	"github.com/yukikurage/todo-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against when the email is unknown so that a failed
// login costs the same whether or not the account exists.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), bcrypt.DefaultCost)

var validate = validator.New()

// CredentialStore is the only place where passwords are hashed or checked.
type CredentialStore struct {
	userRepo repository.UserRepository
	cost     int
}

// NewCredentialStore creates a CredentialStore hashing with bcrypt.DefaultCost.
func NewCredentialStore(userRepo repository.UserRepository) *CredentialStore {
	return &CredentialStore{
		userRepo: userRepo,
		cost:     bcrypt.DefaultCost,
	}
}

// WithCost returns a copy of the store that hashes with the given bcrypt
// cost. Tests use bcrypt.MinCost.
func (s *CredentialStore) WithCost(cost int) *CredentialStore {
	return &CredentialStore{userRepo: s.userRepo, cost: cost}
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser registers a new user with a bcrypt hash of password.
func (s *CredentialStore) CreateUser(ctx context.Context, email, password string) (*models.User, error) {
	email = NormalizeEmail(email)
	if err := validate.Var(email, "required,email"); err != nil {
		return nil, ErrInvalidEmail
	}

	existing, err := s.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("%w: create user: %v", ErrStoreFailure, err)
	}

	return user, nil
}

// FindByEmail returns the user registered under email, or nil.
func (s *CredentialStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: find user: %v", ErrStoreFailure, err)
	}
	return user, nil
}

// VerifyPassword reports whether candidate matches the user's stored hash.
// A nil user is checked against a dummy hash and always fails.
func (s *CredentialStore) VerifyPassword(user *models.User, candidate string) bool {
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(candidate))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(candidate)) == nil
}
