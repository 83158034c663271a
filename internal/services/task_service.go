package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yukikurage/todo-api/internal/constants"
	"github.com/yukikurage/todo-api/internal/models"
	"github.com/yukikurage/todo-api/internal/repository"
)

// TaskService handles task business logic. Every method takes the id of
// the authenticated caller and only ever touches that user's tasks.
type TaskService struct {
	taskRepo  repository.TaskRepository
	generator TaskGenerator
	now       func() time.Time
}

// NewTaskService creates a new TaskService. generator may be nil, in which
// case GenerateTasks reports ErrAIServiceNotConfigured.
func NewTaskService(taskRepo repository.TaskRepository, generator TaskGenerator) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		generator: generator,
		now:       time.Now,
	}
}

// ListTasksInput represents the options for listing tasks
type ListTasksInput struct {
	UserID   uint64
	Page     int
	PageSize int
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title   string
	DueDate *time.Time
}

// UpdateTaskInput represents a partial update. Nil fields are left alone;
// ClearDueDate removes the due date.
type UpdateTaskInput struct {
	Title        *string
	DueDate      *time.Time
	ClearDueDate bool
}

// ListTasks returns the caller's tasks, newest first, and the total count.
func (s *TaskService) ListTasks(ctx context.Context, input ListTasksInput) ([]models.Task, int64, error) {
	if input.UserID == 0 {
		return nil, 0, ErrUnauthenticated
	}

	tasks, total, err := s.taskRepo.ListByOwner(ctx, repository.TaskFilter{
		OwnerID:  input.UserID,
		Page:     input.Page,
		PageSize: input.PageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("%w: list tasks: %v", ErrStoreFailure, err)
	}

	return tasks, total, nil
}

// CreateTask creates a task owned by userID.
func (s *TaskService) CreateTask(ctx context.Context, userID uint64, input CreateTaskInput) (*models.Task, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}

	title, err := validateTitle(input.Title)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:   title,
		DueDate: input.DueDate,
		OwnerID: userID,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("%w: create task: %v", ErrStoreFailure, err)
	}

	return task, nil
}

// ToggleComplete flips the completed flag of one of the caller's tasks.
func (s *TaskService) ToggleComplete(ctx context.Context, userID, taskID uint64) (*models.Task, error) {
	task, err := s.findOwned(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	task.Completed = !task.Completed

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("%w: toggle task: %v", ErrStoreFailure, err)
	}

	return task, nil
}

// UpdateTask applies a partial update to one of the caller's tasks.
func (s *TaskService) UpdateTask(ctx context.Context, userID, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.findOwned(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title, err := validateTitle(*input.Title)
		if err != nil {
			return nil, err
		}
		task.Title = title
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("%w: update task: %v", ErrStoreFailure, err)
	}

	return task, nil
}

// DeleteTask deletes one of the caller's tasks.
func (s *TaskService) DeleteTask(ctx context.Context, userID, taskID uint64) error {
	if userID == 0 {
		return ErrUnauthenticated
	}

	if err := s.taskRepo.DeleteOwned(ctx, taskID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("%w: delete task: %v", ErrStoreFailure, err)
	}

	return nil
}

// GenerateTasks extracts tasks from free text with the configured generator
// and stores them for userID.
func (s *TaskService) GenerateTasks(ctx context.Context, userID uint64, text string) ([]models.Task, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	if s.generator == nil {
		return nil, ErrAIServiceNotConfigured
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	generated, err := s.generator.GenerateTasksFromText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}

	if len(generated) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(generated) > constants.MaxAIGeneratedTasks {
		generated = generated[:constants.MaxAIGeneratedTasks]
	}

	cutoff := s.now().Add(-24 * time.Hour)
	inputs := make([]CreateTaskInput, 0, len(generated))
	for _, g := range generated {
		title, err := validateTitle(g.Title)
		if err != nil {
			continue
		}

		dueDate := g.DueDate
		if dueDate != nil && dueDate.Before(cutoff) {
			dueDate = nil
		}

		inputs = append(inputs, CreateTaskInput{Title: title, DueDate: dueDate})
	}

	if len(inputs) == 0 {
		return nil, ErrAINoValidTasks
	}

	tasks := make([]models.Task, 0, len(inputs))
	for _, in := range inputs {
		task, err := s.CreateTask(ctx, userID, in)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}

	return tasks, nil
}

// findOwned loads a task owned by userID. A task owned by someone else is
// reported exactly like a missing one.
func (s *TaskService) findOwned(ctx context.Context, userID, taskID uint64) (*models.Task, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}

	task, err := s.taskRepo.FindOwned(ctx, taskID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("%w: find task: %v", ErrStoreFailure, err)
	}

	return task, nil
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrInvalidTitle
	}
	if utf8.RuneCountInString(title) > constants.MaxTitleLength {
		return "", ErrTitleTooLong
	}
	return title, nil
}
