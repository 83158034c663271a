package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/yukikurage/todo-api/internal/constants"
	"github.com/yukikurage/todo-api/internal/dto"
	apierrors "github.com/yukikurage/todo-api/internal/errors"
	"github.com/yukikurage/todo-api/internal/metrics"
	"github.com/yukikurage/todo-api/internal/middleware"
	"github.com/yukikurage/todo-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService   *services.AuthService
	metrics       metrics.Recorder
	cookieOptions sessions.Options
}

// NewAuthHandler creates a new AuthHandler. rec may be nil.
func NewAuthHandler(authService *services.AuthService, rec metrics.Recorder) *AuthHandler {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &AuthHandler{
		authService: authService,
		metrics:     rec,
		cookieOptions: sessions.Options{
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		},
	}
}

// WithCookieOptions sets the attributes the session store issues cookies
// with. Logout expires the cookie with the same attributes.
func (h *AuthHandler) WithCookieOptions(opts sessions.Options) *AuthHandler {
	h.cookieOptions = opts
	return h
}

// credentialsRequest carries no binding tags so that empty login fields
// fail exactly like a wrong password.
type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password"`
}

// Signup registers a new user and logs them in.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		message := "Invalid request body"
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			message = "Invalid email address"
		}
		h.metrics.RecordAuthEvent(metrics.EventSignup, metrics.ResultFailure)
		apierrors.AuthFailure(c, http.StatusBadRequest, apierrors.ErrCodeInvalidInput, message)
		return
	}

	sessionID, err := h.authService.Signup(c.Request.Context(), services.SignupInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.respondAuthError(c, metrics.EventSignup, err)
		return
	}

	h.establishSession(c, metrics.EventSignup, sessionID)
}

// Login authenticates a user and initializes the session.
func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.AuthFailure(c, http.StatusBadRequest, apierrors.ErrCodeInvalidInput, "Invalid request body")
		return
	}

	sessionID, err := h.authService.Login(c.Request.Context(), services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.respondAuthError(c, metrics.EventLogin, err)
		return
	}

	h.establishSession(c, metrics.EventLogin, sessionID)
}

// Logout destroys the server-side session and clears the cookie. It
// succeeds even when the caller has no valid session.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), middleware.SessionID(c)); err != nil {
		_ = c.Error(err)
		h.metrics.RecordAuthEvent(metrics.EventLogout, metrics.ResultError)
		apierrors.AuthFailure(c, http.StatusInternalServerError, apierrors.ErrCodeInternalError, "Failed to logout")
		return
	}

	session := sessions.Default(c)
	session.Clear()
	expired := h.cookieOptions
	expired.MaxAge = -1
	session.Options(expired)
	if err := session.Save(); err != nil {
		_ = c.Error(err)
		apierrors.AuthFailure(c, http.StatusInternalServerError, apierrors.ErrCodeInternalError, "Failed to logout")
		return
	}

	h.metrics.RecordAuthEvent(metrics.EventLogout, metrics.ResultSuccess)
	c.JSON(http.StatusOK, apierrors.AuthResponse{Success: true})
}

// Check reports whether the request carries a live session.
func (h *AuthHandler) Check(c *gin.Context) {
	loggedIn, err := h.authService.CheckSession(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		_ = c.Error(err)
		apierrors.InternalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"loggedIn": loggedIn})
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	user, err := h.authService.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnauthenticated), errors.Is(err, services.ErrUserNotFound):
			apierrors.Unauthorized(c, "")
		default:
			_ = c.Error(err)
			apierrors.InternalError(c)
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// establishSession stores the new session id in the cookie. Any session the
// client presented before is destroyed so ids are never reused across logins.
func (h *AuthHandler) establishSession(c *gin.Context, event, sessionID string) {
	ctx := c.Request.Context()

	if previous := middleware.SessionID(c); previous != "" && previous != sessionID {
		if err := h.authService.Logout(ctx, previous); err != nil {
			slog.WarnContext(ctx, "failed to destroy previous session", slog.String("error", err.Error()))
		}
	}

	session := sessions.Default(c)
	session.Set(constants.SessionKeyID, sessionID)
	if err := session.Save(); err != nil {
		_ = c.Error(err)
		_ = h.authService.Logout(ctx, sessionID)
		h.metrics.RecordAuthEvent(event, metrics.ResultError)
		apierrors.AuthFailure(c, http.StatusInternalServerError, apierrors.ErrCodeInternalError, "Failed to save session")
		return
	}

	h.metrics.RecordAuthEvent(event, metrics.ResultSuccess)
	c.JSON(http.StatusOK, apierrors.AuthResponse{Success: true})
}

func (h *AuthHandler) respondAuthError(c *gin.Context, event string, err error) {
	result := metrics.ResultFailure

	switch {
	case errors.Is(err, services.ErrInvalidPassword):
		apierrors.AuthFailure(c, http.StatusBadRequest, apierrors.ErrCodeInvalidPassword,
			fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrPasswordTooLong):
		apierrors.AuthFailure(c, http.StatusBadRequest, apierrors.ErrCodeInvalidPassword, "Password is too long")
	case errors.Is(err, services.ErrInvalidEmail):
		apierrors.AuthFailure(c, http.StatusBadRequest, apierrors.ErrCodeInvalidInput, "Invalid email address")
	case errors.Is(err, services.ErrDuplicateEmail):
		apierrors.AuthFailure(c, http.StatusBadRequest, apierrors.ErrCodeDuplicateEmail, "User already exists")
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.AuthFailure(c, http.StatusUnauthorized, apierrors.ErrCodeInvalidCredentials, "Invalid email or password")
	default:
		result = metrics.ResultError
		_ = c.Error(err)
		apierrors.AuthFailure(c, http.StatusInternalServerError, apierrors.ErrCodeInternalError, "Internal server error")
	}

	h.metrics.RecordAuthEvent(event, result)
}
