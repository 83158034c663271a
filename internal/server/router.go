// Package server assembles the HTTP router.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/todo-api/internal/config"
	"github.com/yukikurage/todo-api/internal/constants"
	"github.com/yukikurage/todo-api/internal/database"
	"github.com/yukikurage/todo-api/internal/handlers"
	"github.com/yukikurage/todo-api/internal/metrics"
	"github.com/yukikurage/todo-api/internal/middleware"
	"github.com/yukikurage/todo-api/internal/services"
	"gorm.io/gorm"
)

const healthTimeout = 2 * time.Second

// Dependencies are the wired components the router serves.
type Dependencies struct {
	Config      *config.Config
	DB          *gorm.DB
	AuthService *services.AuthService
	TaskService *services.TaskService
	// Metrics is optional. Without it /metrics is not mounted.
	Metrics *metrics.Collector
	Logger  *slog.Logger
}

// NewRouter builds the gin engine with every API route mounted.
func NewRouter(deps Dependencies) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var rec metrics.Recorder = metrics.Nop{}
	if deps.Metrics != nil {
		rec = deps.Metrics
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logging(logger),
		metrics.Middleware(rec),
		gin.Recovery(),
	)

	cookieOptions := sessions.Options{
		Path:     "/",
		MaxAge:   int(deps.Config.SessionTTL / time.Second),
		HttpOnly: true,
		Secure:   deps.Config.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	}
	store := cookie.NewStore([]byte(deps.Config.SessionSecret))
	store.Options(cookieOptions)
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	authHandler := handlers.NewAuthHandler(deps.AuthService, rec).WithCookieOptions(cookieOptions)
	taskHandler := handlers.NewTaskHandler(deps.TaskService, rec)
	requireAuth := middleware.RequireAuth(deps.AuthService)

	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		if err := database.Ping(ctx, deps.DB); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/check", authHandler.Check)
			auth.GET("/me", requireAuth, authHandler.GetCurrentUser)
		}

		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.POST("/generate", taskHandler.GenerateTasks)
			tasks.PATCH("/:id", middleware.RequireTaskID(), taskHandler.ToggleTask)
			tasks.PUT("/:id", middleware.RequireTaskID(), taskHandler.UpdateTask)
			tasks.DELETE("/:id", middleware.RequireTaskID(), taskHandler.DeleteTask)
		}
	}

	return r
}
