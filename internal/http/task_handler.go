package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/example/interview-scheduler/internal/application"
)

type taskService interface {
	CreateTask(ctx context.Context, input application.TaskInput) (application.Task, error)
	GetTask(ctx context.Context, id string) (application.Task, error)
	UpdateTask(ctx context.Context, id string, patch application.TaskPatch) (application.Task, error)
	ListTasks(ctx context.Context, filter application.TaskFilter) ([]application.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// TaskHandler exposes calendar task endpoints.
type TaskHandler struct {
	service   taskService
	responder responder
	logger    *slog.Logger
}

func NewTaskHandler(service taskService, logger *slog.Logger) *TaskHandler {
	base := defaultLogger(logger)
	return &TaskHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *TaskHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "TaskHandler", operation, attrs...)
}

// List returns tasks ordered by due date, optionally filtered with the year
// and month query parameters.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	filter, err := taskFilterFromQuery(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	tasks, err := h.service.ListTasks(r.Context(), filter)
	if err != nil {
		h.log(r.Context(), "List").ErrorContext(r.Context(), "failed to list tasks", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	payload := make([]taskResponse, 0, len(tasks))
	for _, task := range tasks {
		payload = append(payload, toTaskResponse(task))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, payload)
}

// Create registers a new task.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	created, err := h.service.CreateTask(r.Context(), application.TaskInput{
		Title:          req.Title,
		Description:    req.Description,
		Classification: req.Classification,
		DueDate:        req.DueDate,
	})
	if err != nil {
		h.log(r.Context(), "Create").ErrorContext(r.Context(), "failed to create task", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toTaskResponse(created))
}

// Get returns one task by id.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := ResourceIDFromContext(r.Context())
	if !ok || id == "" {
		http.NotFound(w, r)
		return
	}

	task, err := h.service.GetTask(r.Context(), id)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toTaskResponse(task))
}

// Update merges the supplied fields into an existing task.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := ResourceIDFromContext(r.Context())
	if !ok || id == "" {
		http.NotFound(w, r)
		return
	}

	var req taskPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	updated, err := h.service.UpdateTask(r.Context(), id, application.TaskPatch{
		Title:          req.Title,
		Description:    req.Description,
		Classification: req.Classification,
		DueDate:        req.DueDate,
	})
	if err != nil {
		h.log(r.Context(), "Update", "task_id", id).ErrorContext(r.Context(), "failed to update task", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toTaskResponse(updated))
}

// Delete removes a task.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := ResourceIDFromContext(r.Context())
	if !ok || id == "" {
		http.NotFound(w, r)
		return
	}

	if err := h.service.DeleteTask(r.Context(), id); err != nil {
		h.log(r.Context(), "Delete", "task_id", id).ErrorContext(r.Context(), "failed to delete task", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func taskFilterFromQuery(r *http.Request) (application.TaskFilter, error) {
	query := r.URL.Query()
	var filter application.TaskFilter

	if raw := query.Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil || year < 1 {
			return application.TaskFilter{}, errInvalidYearMonth
		}
		filter.Year = year
	}
	if raw := query.Get("month"); raw != "" {
		if filter.Year == 0 {
			return application.TaskFilter{}, errInvalidYearMonth
		}
		month, err := strconv.Atoi(raw)
		if err != nil || month < 1 || month > 12 {
			return application.TaskFilter{}, errInvalidYearMonth
		}
		filter.Month = time.Month(month)
	}
	return filter, nil
}

type taskRequest struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	Classification string `json:"classification"`
	DueDate        string `json:"due_date"`
}

type taskPatchRequest struct {
	Title          *string `json:"title"`
	Description    *string `json:"description"`
	Classification *string `json:"classification"`
	DueDate        *string `json:"due_date"`
}

type taskResponse struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	Classification string `json:"classification"`
	DueDate        string `json:"due_date"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

func toTaskResponse(task application.Task) taskResponse {
	return taskResponse{
		ID:             task.ID,
		Title:          task.Title,
		Description:    task.Description,
		Classification: task.Classification,
		DueDate:        task.DueDate,
		CreatedAt:      task.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:      task.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}
