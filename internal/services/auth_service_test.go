package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/todo-api/internal/models"
)

func TestAuthService_SignupThenCheck(t *testing.T) {
	ctx := context.Background()
	env := setupServiceTestEnv(t)

	sessionID, err := env.authService.Signup(ctx, SignupInput{Email: "a@x.com", Password: "abcdef"})
	require.NoError(t, err)
	require.NotEmpty(t, sessionID)

	loggedIn, err := env.authService.CheckSession(ctx, sessionID)
	require.NoError(t, err)
	assert.True(t, loggedIn)
}

func TestAuthService_SignupStoresHashedNormalizedEmail(t *testing.T) {
	ctx := context.Background()
	env := setupServiceTestEnv(t)

	_, err := env.authService.Signup(ctx, SignupInput{Email: "  Mixed.Case@Example.COM ", Password: "abcdef"})
	require.NoError(t, err)

	var user models.User
	require.NoError(t, env.db.Where("email = ?", "mixed.case@example.com").First(&user).Error)
	assert.NotEqual(t, "abcdef", user.PasswordHash)
	assert.True(t, strings.HasPrefix(user.PasswordHash, "$2"))
}

func TestAuthService_SignupValidation(t *testing.T) {
	ctx := context.Background()
	env := setupServiceTestEnv(t)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "password too short", email: "a@x.com", password: "abcde", wantErr: ErrInvalidPassword},
		{name: "empty password", email: "a@x.com", password: "", wantErr: ErrInvalidPassword},
		{name: "password too long", email: "a@x.com", password: strings.Repeat("p", 73), wantErr: ErrPasswordTooLong},
		{name: "invalid email", email: "not-an-email", password: "abcdef", wantErr: ErrInvalidEmail},
		{name: "display name form", email: "Alice <a@x.com>", password: "abcdef", wantErr: ErrInvalidEmail},
		{name: "empty email", email: "   ", password: "abcdef", wantErr: ErrInvalidEmail},
		{name: "missing domain", email: "alice@", password: "abcdef", wantErr: ErrInvalidEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.authService.Signup(ctx, SignupInput{Email: tt.email, Password: tt.password})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAuthService_DuplicateEmailAnyCase(t *testing.T) {
	ctx := context.Background()
	env := setupServiceTestEnv(t)

	_, err := env.authService.Signup(ctx, SignupInput{Email: "dup@example.com", Password: "abcdef"})
	require.NoError(t, err)

	for _, email := range []string{"dup@example.com", "DUP@example.com", " Dup@Example.Com "} {
		_, err := env.authService.Signup(ctx, SignupInput{Email: email, Password: "different"})
		assert.ErrorIs(t, err, ErrDuplicateEmail, email)
	}
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	env := setupServiceTestEnv(t)

	_, err := env.authService.Signup(ctx, SignupInput{Email: "login@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	sessionID, err := env.authService.Login(ctx, LoginInput{Email: "LOGIN@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	loggedIn, err := env.authService.CheckSession(ctx, sessionID)
	require.NoError(t, err)
	assert.True(t, loggedIn)
}

func TestAuthService_LoginFailuresAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	env := setupServiceTestEnv(t)

	_, err := env.authService.Signup(ctx, SignupInput{Email: "known@example.com", Password: "abcdef"})
	require.NoError(t, err)

	_, wrongPassword := env.authService.Login(ctx, LoginInput{Email: "known@example.com", Password: "nope!!"})
	_, unknownEmail := env.authService.Login(ctx, LoginInput{Email: "ghost@example.com", Password: "abcdef"})

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestAuthService_LogoutIsIdempotent(t *testing.T) {
	ctx := context.Background()
	env := setupServiceTestEnv(t)

	sessionID, err := env.authService.Signup(ctx, SignupInput{Email: "bye@example.com", Password: "abcdef"})
	require.NoError(t, err)

	require.NoError(t, env.authService.Logout(ctx, sessionID))
	require.NoError(t, env.authService.Logout(ctx, sessionID))
	require.NoError(t, env.authService.Logout(ctx, ""))

	loggedIn, err := env.authService.CheckSession(ctx, sessionID)
	require.NoError(t, err)
	assert.False(t, loggedIn)
}

func TestAuthService_CheckSessionDoesNotMutate(t *testing.T) {
	ctx := context.Background()
	env := setupServiceTestEnv(t)

	loggedIn, err := env.authService.CheckSession(ctx, "")
	require.NoError(t, err)
	assert.False(t, loggedIn)

	before := env.sessions.Len()
	_, err = env.authService.CheckSession(ctx, "unknown")
	require.NoError(t, err)
	assert.Equal(t, before, env.sessions.Len())
}

func TestAuthService_CurrentUser(t *testing.T) {
	ctx := context.Background()
	env := setupServiceTestEnv(t)

	sessionID, err := env.authService.Signup(ctx, SignupInput{Email: "me@example.com", Password: "abcdef"})
	require.NoError(t, err)
	userID, ok, err := env.authService.ResolveSession(ctx, sessionID)
	require.NoError(t, err)
	require.True(t, ok)

	user, err := env.authService.CurrentUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", user.Email)

	_, err = env.authService.CurrentUser(ctx, 0)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = env.authService.CurrentUser(ctx, userID+100)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
