package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/interview-scheduler/internal/application"
)

type employeeService interface {
	CreateEmployee(ctx context.Context, input application.EmployeeInput) (application.Employee, error)
	UpdateEmployee(ctx context.Context, id string, patch application.EmployeePatch) (application.Employee, error)
	ListEmployees(ctx context.Context, activeOnly bool) ([]application.Employee, error)
	DeleteEmployee(ctx context.Context, id string) error
}

// EmployeeHandler exposes employee management endpoints.
type EmployeeHandler struct {
	service   employeeService
	responder responder
	logger    *slog.Logger
}

func NewEmployeeHandler(service employeeService, logger *slog.Logger) *EmployeeHandler {
	base := defaultLogger(logger)
	return &EmployeeHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *EmployeeHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "EmployeeHandler", operation, attrs...)
}

// List returns active employees, the set shown in the booking picker.
func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

// ListAll returns every employee including deactivated ones.
func (h *EmployeeHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

func (h *EmployeeHandler) list(w http.ResponseWriter, r *http.Request, activeOnly bool) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	employees, err := h.service.ListEmployees(r.Context(), activeOnly)
	if err != nil {
		h.log(r.Context(), "List").ErrorContext(r.Context(), "failed to list employees", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	payload := make([]employeeResponse, 0, len(employees))
	for _, employee := range employees {
		payload = append(payload, toEmployeeResponse(employee))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, payload)
}

// Create registers a new employee.
func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req employeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	created, err := h.service.CreateEmployee(r.Context(), application.EmployeeInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		h.log(r.Context(), "Create").ErrorContext(r.Context(), "failed to create employee", "error", err, "error_kind", application.ErrorKind(err))
		h.writeEmployeeError(w, r, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toEmployeeResponse(created))
}

// Update merges the supplied fields into an existing employee.
func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := ResourceIDFromContext(r.Context())
	if !ok || id == "" {
		http.NotFound(w, r)
		return
	}

	var req employeePatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	updated, err := h.service.UpdateEmployee(r.Context(), id, application.EmployeePatch{
		Name:   req.Name,
		Email:  req.Email,
		Active: req.Active,
	})
	if err != nil {
		h.log(r.Context(), "Update", "employee_id", id).ErrorContext(r.Context(), "failed to update employee", "error", err, "error_kind", application.ErrorKind(err))
		h.writeEmployeeError(w, r, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toEmployeeResponse(updated))
}

// Delete removes an employee.
func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := ResourceIDFromContext(r.Context())
	if !ok || id == "" {
		http.NotFound(w, r)
		return
	}

	if err := h.service.DeleteEmployee(r.Context(), id); err != nil {
		h.log(r.Context(), "Delete", "employee_id", id).ErrorContext(r.Context(), "failed to delete employee", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// writeEmployeeError renders employee conflicts with their own message; every
// other error kind uses the shared mapping.
func (h *EmployeeHandler) writeEmployeeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, application.ErrConflict) {
		h.responder.writeJSON(r.Context(), w, http.StatusConflict, errorResponse{
			Message: "このメールアドレスは既に登録されています。",
		})
		return
	}
	h.responder.handleServiceError(r.Context(), w, err)
}

type employeeRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type employeePatchRequest struct {
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Active *bool   `json:"active"`
}

type employeeResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toEmployeeResponse(employee application.Employee) employeeResponse {
	return employeeResponse{
		ID:        employee.ID,
		Name:      employee.Name,
		Email:     employee.Email,
		Active:    employee.Active,
		CreatedAt: employee.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt: employee.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}
