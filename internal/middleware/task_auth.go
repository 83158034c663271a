package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/todo-api/internal/errors"
)

const contextKeyTaskID = "task_id"

// RequireTaskID parses the :id path parameter. A malformed id is answered
// with the same 404 as a task that does not exist or belongs to someone else.
func RequireTaskID() gin.HandlerFunc {
	return func(c *gin.Context) {
		taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil || taskID == 0 {
			apierrors.NotFound(c, "Task not found")
			c.Abort()
			return
		}

		c.Set(contextKeyTaskID, taskID)
		c.Next()
	}
}

// GetTaskID retrieves the task ID parsed by RequireTaskID
func GetTaskID(c *gin.Context) (uint64, bool) {
	taskID, exists := c.Get(contextKeyTaskID)
	if !exists {
		return 0, false
	}
	v, ok := taskID.(uint64)
	return v, ok
}
