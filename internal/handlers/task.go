package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/todo-api/internal/constants"
	"github.com/yukikurage/todo-api/internal/dto"
	apierrors "github.com/yukikurage/todo-api/internal/errors"
	"github.com/yukikurage/todo-api/internal/metrics"
	"github.com/yukikurage/todo-api/internal/middleware"
	"github.com/yukikurage/todo-api/internal/services"
	"github.com/yukikurage/todo-api/internal/utils"
)

const totalCountHeader = "X-Total-Count"

type TaskHandler struct {
	taskService *services.TaskService
	metrics     metrics.Recorder
}

// NewTaskHandler creates a new TaskHandler. rec may be nil.
func NewTaskHandler(taskService *services.TaskService, rec metrics.Recorder) *TaskHandler {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &TaskHandler{
		taskService: taskService,
		metrics:     rec,
	}
}

// ListTasks returns the current user's tasks, newest first.
// Optional ?page=&limit= paginate the result; X-Total-Count always carries
// the total.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	input := services.ListTasksInput{UserID: userID}
	if params, ok := utils.GetPaginationParams(c); ok {
		input.Page = params.Page
		input.PageSize = params.Limit
	}

	tasks, total, err := h.taskService.ListTasks(c.Request.Context(), input)
	if err != nil {
		h.respondTaskError(c, "list", err)
		return
	}

	c.Header(totalCountHeader, strconv.FormatInt(total, 10))
	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// CreateTask creates a new task owned by the current user
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), userID, services.CreateTaskInput{
		Title:   req.Title,
		DueDate: req.DueDate.Value,
	})
	if err != nil {
		h.respondTaskError(c, "create", err)
		return
	}

	h.metrics.RecordTaskOperation("create", metrics.ResultSuccess)
	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// ToggleTask flips the completion state of a task
func (h *TaskHandler) ToggleTask(c *gin.Context) {
	userID, taskID, ok := h.taskTarget(c)
	if !ok {
		return
	}

	task, err := h.taskService.ToggleComplete(c.Request.Context(), userID, taskID)
	if err != nil {
		h.respondTaskError(c, "toggle", err)
		return
	}

	h.metrics.RecordTaskOperation("toggle", metrics.ResultSuccess)
	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateTask updates the title and/or due date of a task
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, taskID, ok := h.taskTarget(c)
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if req.Title.IsNull() {
		h.respondTaskError(c, "update", services.ErrInvalidTitle)
		return
	}

	input := services.UpdateTaskInput{Title: req.Title.Value}
	if req.DueDate.Set {
		if req.DueDate.Value == nil {
			input.ClearDueDate = true
		} else {
			input.DueDate = req.DueDate.Value
		}
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), userID, taskID, input)
	if err != nil {
		h.respondTaskError(c, "update", err)
		return
	}

	h.metrics.RecordTaskOperation("update", metrics.ResultSuccess)
	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, taskID, ok := h.taskTarget(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), userID, taskID); err != nil {
		h.respondTaskError(c, "delete", err)
		return
	}

	h.metrics.RecordTaskOperation("delete", metrics.ResultSuccess)
	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

// GenerateTasks extracts tasks from free text and stores them
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req dto.GenerateTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	tasks, err := h.taskService.GenerateTasks(c.Request.Context(), userID, req.Text)
	if err != nil {
		h.respondTaskError(c, "generate", err)
		return
	}

	h.metrics.RecordTaskOperation("generate", metrics.ResultSuccess)
	c.JSON(http.StatusCreated, dto.ToTaskDTOs(tasks))
}

// taskTarget returns the caller and the task id parsed by RequireTaskID.
func (h *TaskHandler) taskTarget(c *gin.Context) (uint64, uint64, bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return 0, 0, false
	}

	taskID, exists := middleware.GetTaskID(c)
	if !exists {
		apierrors.NotFound(c, "Task not found")
		return 0, 0, false
	}

	return userID, taskID, true
}

func (h *TaskHandler) respondTaskError(c *gin.Context, operation string, err error) {
	result := metrics.ResultFailure

	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		apierrors.Unauthorized(c, "")
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrInvalidTitle):
		apierrors.BadRequestWithCode(c, apierrors.ErrCodeInvalidTitle, "Title is required")
	case errors.Is(err, services.ErrTitleTooLong):
		apierrors.BadRequestWithCode(c, apierrors.ErrCodeInvalidTitle,
			fmt.Sprintf("Title must be at most %d characters", constants.MaxTitleLength))
	case errors.Is(err, services.ErrEmptyText),
		errors.Is(err, services.ErrAINoTasksGenerated),
		errors.Is(err, services.ErrAINoValidTasks):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, "Task generation is not available")
	case errors.Is(err, services.ErrStoreFailure):
		result = metrics.ResultError
		_ = c.Error(err)
		apierrors.InternalError(c)
	case operation == "generate":
		result = metrics.ResultError
		_ = c.Error(err)
		apierrors.ServiceUnavailable(c, "Task generation failed")
	default:
		result = metrics.ResultError
		_ = c.Error(err)
		apierrors.InternalError(c)
	}

	h.metrics.RecordTaskOperation(operation, result)
}
