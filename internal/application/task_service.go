package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// TaskFilter restricts task listings. Zero values leave the dimension open.
type TaskFilter struct {
	Year  int
	Month time.Month
}

// TaskRepository captures the persistence operations needed by the task service.
type TaskRepository interface {
	CreateTask(ctx context.Context, task Task) (Task, error)
	GetTask(ctx context.Context, id string) (Task, error)
	UpdateTask(ctx context.Context, task Task) (Task, error)
	ListTasks(ctx context.Context, filter TaskFilter) ([]Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// TaskService orchestrates validation and persistence for calendar tasks.
type TaskService struct {
	tasks       TaskRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewTaskService wires dependencies for the task service.
func NewTaskService(tasks TaskRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *TaskService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &TaskService{
		tasks:       tasks,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func validateTaskFields(vErr *ValidationError, title, classification, dueDate string) {
	if title == "" {
		vErr.add("title", "title is required")
	}
	if classification == "" {
		vErr.add("classification", "classification is required")
	} else if !validClassification(classification) {
		vErr.add("classification", "classification is invalid")
	}
	if dueDate == "" {
		vErr.add("due_date", "due date is required")
	} else if !validDate(dueDate) {
		vErr.add("due_date", "due date is invalid")
	}
}

// CreateTask validates input and persists a new task.
func (s *TaskService) CreateTask(ctx context.Context, input TaskInput) (Task, error) {
	if s == nil || s.tasks == nil {
		return Task{}, fmt.Errorf("task repository not configured")
	}

	title := strings.TrimSpace(input.Title)

	vErr := &ValidationError{}
	validateTaskFields(vErr, title, input.Classification, input.DueDate)
	if vErr.HasErrors() {
		return Task{}, vErr
	}

	created := s.now()
	task := Task{
		ID:             s.idGenerator(),
		Title:          title,
		Description:    strings.TrimSpace(input.Description),
		Classification: input.Classification,
		DueDate:        input.DueDate,
		CreatedAt:      created,
		UpdatedAt:      created,
	}

	persisted, err := s.tasks.CreateTask(ctx, task)
	if err != nil {
		return Task{}, mapRepositoryError(err)
	}

	serviceLogger(ctx, s.logger, "task", "create").InfoContext(ctx, "task created",
		"task_id", persisted.ID, "due_date", persisted.DueDate)
	return persisted, nil
}

// GetTask loads a single task by id.
func (s *TaskService) GetTask(ctx context.Context, id string) (Task, error) {
	if s == nil || s.tasks == nil {
		return Task{}, fmt.Errorf("task repository not configured")
	}

	task, err := s.tasks.GetTask(ctx, id)
	if err != nil {
		return Task{}, mapRepositoryError(err)
	}
	return task, nil
}

// UpdateTask merges the supplied fields into an existing task.
func (s *TaskService) UpdateTask(ctx context.Context, id string, patch TaskPatch) (Task, error) {
	if s == nil || s.tasks == nil {
		return Task{}, fmt.Errorf("task repository not configured")
	}

	existing, err := s.tasks.GetTask(ctx, id)
	if err != nil {
		return Task{}, mapRepositoryError(err)
	}

	updated := existing
	if patch.Title != nil {
		updated.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		updated.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Classification != nil {
		updated.Classification = *patch.Classification
	}
	if patch.DueDate != nil {
		updated.DueDate = *patch.DueDate
	}

	vErr := &ValidationError{}
	validateTaskFields(vErr, updated.Title, updated.Classification, updated.DueDate)
	if vErr.HasErrors() {
		return Task{}, vErr
	}

	updated.UpdatedAt = s.now()

	persisted, err := s.tasks.UpdateTask(ctx, updated)
	if err != nil {
		return Task{}, mapRepositoryError(err)
	}
	return persisted, nil
}

// ListTasks enumerates tasks ordered by due date, optionally scoped to a
// year or a year and month.
func (s *TaskService) ListTasks(ctx context.Context, filter TaskFilter) ([]Task, error) {
	if s == nil || s.tasks == nil {
		return nil, fmt.Errorf("task repository not configured")
	}

	tasks, err := s.tasks.ListTasks(ctx, filter)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return tasks, nil
}

// DeleteTask removes a task.
func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	if s == nil || s.tasks == nil {
		return fmt.Errorf("task repository not configured")
	}

	if err := s.tasks.DeleteTask(ctx, id); err != nil {
		return mapRepositoryError(err)
	}
	return nil
}
