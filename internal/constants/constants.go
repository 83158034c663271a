package constants

import "time"

// Context and session keys
const (
	ContextKeyUserID    = "user_id"
	ContextKeyRequestID = "request_id"
	SessionKeyID        = "sid"
	SessionCookieName   = "task_session"
)

// Authentication
const (
	MinPasswordLength = 6
	DefaultSessionTTL = 7 * 24 * time.Hour
	SessionTokenBytes = 32
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
	MaxPage         = 1_000_000 // keeps (page-1)*limit far from overflow
)

// Tasks
const (
	MaxTitleLength      = 255
	MaxAIGeneratedTasks = 20
)
