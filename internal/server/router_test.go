package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/todo-api/internal/config"
	"github.com/yukikurage/todo-api/internal/metrics"
	"github.com/yukikurage/todo-api/internal/repository"
	"github.com/yukikurage/todo-api/internal/services"
	"github.com/yukikurage/todo-api/internal/session"
	"github.com/yukikurage/todo-api/internal/testutil"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type routerTestEnv struct {
	db     *gorm.DB
	router *gin.Engine
}

func setupRouter(t *testing.T, ginMode string) routerTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewTestDB(t)
	userRepo := repository.NewUserRepository(db)
	authService := services.NewAuthService(
		services.NewCredentialStore(userRepo).WithCost(bcrypt.MinCost),
		session.NewPersistentManager(repository.NewSessionRepository(db), time.Hour),
		userRepo,
	)

	router := NewRouter(Dependencies{
		Config: &config.Config{
			GinMode:       ginMode,
			SessionSecret: "0123456789abcdef0123456789abcdef",
			SessionTTL:    time.Hour,
		},
		DB:          db,
		AuthService: authService,
		TaskService: services.NewTaskService(repository.NewTaskRepository(db), nil),
		Metrics:     metrics.NewCollector(prometheus.NewRegistry()),
		Logger:      slog.New(slog.NewJSONHandler(io.Discard, nil)),
	})

	return routerTestEnv{db: db, router: router}
}

func send(r http.Handler, method, path string, body interface{}, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var reader io.Reader = http.NoBody
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_Health(t *testing.T) {
	env := setupRouter(t, "debug")

	w := send(env.router, http.MethodGet, "/health", nil, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_HealthDatabaseDown(t *testing.T) {
	env := setupRouter(t, "debug")

	sqlDB, err := env.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	w := send(env.router, http.MethodGet, "/health", nil, nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRouter_SessionCookieAttributes(t *testing.T) {
	tests := []struct {
		mode       string
		wantSecure bool
	}{
		{mode: "debug", wantSecure: false},
		{mode: "release", wantSecure: true},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			env := setupRouter(t, tt.mode)

			w := send(env.router, http.MethodPost, "/api/auth/signup", map[string]string{
				"email":    "cookie@example.com",
				"password": "supersecret",
			}, nil)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			cookies := w.Result().Cookies()
			require.Len(t, cookies, 1)
			c := cookies[0]
			assert.Equal(t, "task_session", c.Name)
			assert.Equal(t, "/", c.Path)
			assert.True(t, c.HttpOnly)
			assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
			assert.Equal(t, tt.wantSecure, c.Secure)
			assert.Equal(t, 3600, c.MaxAge)
			assert.NotContains(t, c.Value, "cookie@example.com")

			logout := send(env.router, http.MethodPost, "/api/auth/logout", nil, cookies)
			require.Equal(t, http.StatusOK, logout.Code)
			cleared := logout.Result().Cookies()
			require.Len(t, cleared, 1)
			assert.True(t, cleared[0].MaxAge < 0)
			assert.Equal(t, "/", cleared[0].Path)
			assert.True(t, cleared[0].HttpOnly)
			assert.Equal(t, http.SameSiteLaxMode, cleared[0].SameSite)
			assert.Equal(t, tt.wantSecure, cleared[0].Secure)
		})
	}
}

func TestRouter_ScenarioWithPersistentSessions(t *testing.T) {
	env := setupRouter(t, "debug")

	signup := send(env.router, http.MethodPost, "/api/auth/signup", map[string]string{
		"email":    "flow@example.com",
		"password": "supersecret",
	}, nil)
	require.Equal(t, http.StatusOK, signup.Code)
	cookies := signup.Result().Cookies()

	me := send(env.router, http.MethodGet, "/api/auth/me", nil, cookies)
	require.Equal(t, http.StatusOK, me.Code)
	assert.Contains(t, me.Body.String(), "flow@example.com")

	created := send(env.router, http.MethodPost, "/api/tasks", map[string]string{"title": "Ship it"}, cookies)
	require.Equal(t, http.StatusCreated, created.Code)

	var task struct {
		ID        uint64 `json:"id"`
		Completed bool   `json:"completed"`
	}
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &task))

	toggled := send(env.router, http.MethodPatch, "/api/tasks/"+jsonNumber(task.ID), nil, cookies)
	require.Equal(t, http.StatusOK, toggled.Code)
	assert.Contains(t, toggled.Body.String(), `"completed":true`)

	var sessions int64
	require.NoError(t, env.db.Table("sessions").Count(&sessions).Error)
	assert.Equal(t, int64(1), sessions)

	logout := send(env.router, http.MethodPost, "/api/auth/logout", nil, cookies)
	require.Equal(t, http.StatusOK, logout.Code)

	require.NoError(t, env.db.Table("sessions").Count(&sessions).Error)
	assert.Equal(t, int64(0), sessions)

	assert.Equal(t, http.StatusUnauthorized, send(env.router, http.MethodGet, "/api/tasks", nil, cookies).Code)
}

func TestRouter_Metrics(t *testing.T) {
	env := setupRouter(t, "debug")

	send(env.router, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "whatever",
	}, nil)
	send(env.router, http.MethodGet, "/does-not-exist", nil, nil)

	w := send(env.router, http.MethodGet, "/metrics", nil, nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `todo_auth_events_total{event="login",result="failure"} 1`)
	assert.Contains(t, body, `todo_http_requests_total{method="POST",route="/api/auth/login",status_code="401"} 1`)
	assert.Contains(t, body, `route="unmatched"`)
}

func jsonNumber(n uint64) string {
	raw, _ := json.Marshal(n)
	return string(raw)
}
