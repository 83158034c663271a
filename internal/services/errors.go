package services

import "errors"

var (
	ErrDuplicateEmail     = errors.New("user already exists")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidPassword    = errors.New("password too short")
	ErrPasswordTooLong    = errors.New("password too long")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrUserNotFound       = errors.New("user not found")
	ErrTaskNotFound       = errors.New("task not found")
	ErrInvalidTitle       = errors.New("title cannot be empty")
	ErrTitleTooLong       = errors.New("title is too long")
	ErrEmptyText          = errors.New("text is required")

	// ErrStoreFailure wraps every persistence error. Its cause must not be
	// shown to clients.
	ErrStoreFailure = errors.New("store failure")

	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
	ErrAINoValidTasks         = errors.New("no valid tasks could be created from AI output")
)
