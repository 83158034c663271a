package services

import (
	"testing"
	"time"

	"github.com/yukikurage/todo-api/internal/repository"
	"github.com/yukikurage/todo-api/internal/session"
	"github.com/yukikurage/todo-api/internal/testutil"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type serviceTestEnv struct {
	db          *gorm.DB
	sessions    *session.MemoryManager
	authService *AuthService
	taskService *TaskService
}

func setupServiceTestEnv(t *testing.T) serviceTestEnv {
	t.Helper()

	db := testutil.NewTestDB(t)
	userRepo := repository.NewUserRepository(db)
	sessions := session.NewMemoryManager(time.Hour)
	credentials := NewCredentialStore(userRepo).WithCost(bcrypt.MinCost)

	return serviceTestEnv{
		db:          db,
		sessions:    sessions,
		authService: NewAuthService(credentials, sessions, userRepo),
		taskService: NewTaskService(repository.NewTaskRepository(db), nil),
	}
}
