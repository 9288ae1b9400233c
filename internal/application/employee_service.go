package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// EmployeeRepository captures the persistence operations needed by the employee service.
type EmployeeRepository interface {
	CreateEmployee(ctx context.Context, employee Employee) (Employee, error)
	GetEmployee(ctx context.Context, id string) (Employee, error)
	UpdateEmployee(ctx context.Context, employee Employee) (Employee, error)
	ListEmployees(ctx context.Context, activeOnly bool) ([]Employee, error)
	DeleteEmployee(ctx context.Context, id string) error
}

// EmployeeService orchestrates validation and persistence for employees.
type EmployeeService struct {
	employees   EmployeeRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewEmployeeService wires dependencies for the employee service.
func NewEmployeeService(employees EmployeeRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *EmployeeService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &EmployeeService{
		employees:   employees,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

// CreateEmployee validates input and persists a new, active employee.
func (s *EmployeeService) CreateEmployee(ctx context.Context, input EmployeeInput) (Employee, error) {
	if s == nil || s.employees == nil {
		return Employee{}, fmt.Errorf("employee repository not configured")
	}

	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)

	vErr := &ValidationError{}
	if name == "" {
		vErr.add("name", "name is required")
	}
	if email == "" {
		vErr.add("email", "email is required")
	} else if !validEmail(email) {
		vErr.add("email", "email is invalid")
	}
	if vErr.HasErrors() {
		return Employee{}, vErr
	}

	created := s.now()
	employee := Employee{
		ID:        s.idGenerator(),
		Name:      name,
		Email:     email,
		Active:    true,
		CreatedAt: created,
		UpdatedAt: created,
	}

	persisted, err := s.employees.CreateEmployee(ctx, employee)
	if err != nil {
		err = mapRepositoryError(err)
		serviceLogger(ctx, s.logger, "employee", "create").WarnContext(ctx, "employee create rejected", "kind", ErrorKind(err))
		return Employee{}, err
	}

	serviceLogger(ctx, s.logger, "employee", "create").InfoContext(ctx, "employee created", "employee_id", persisted.ID)
	return persisted, nil
}

// UpdateEmployee merges the supplied fields into an existing employee.
func (s *EmployeeService) UpdateEmployee(ctx context.Context, id string, patch EmployeePatch) (Employee, error) {
	if s == nil || s.employees == nil {
		return Employee{}, fmt.Errorf("employee repository not configured")
	}

	existing, err := s.employees.GetEmployee(ctx, id)
	if err != nil {
		return Employee{}, mapRepositoryError(err)
	}

	updated := existing
	vErr := &ValidationError{}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			vErr.add("name", "name is required")
		}
		updated.Name = name
	}
	if patch.Email != nil {
		email := strings.TrimSpace(*patch.Email)
		if !validEmail(email) {
			vErr.add("email", "email is invalid")
		}
		updated.Email = email
	}
	if patch.Active != nil {
		updated.Active = *patch.Active
	}
	if vErr.HasErrors() {
		return Employee{}, vErr
	}

	updated.UpdatedAt = s.now()

	persisted, err := s.employees.UpdateEmployee(ctx, updated)
	if err != nil {
		return Employee{}, mapRepositoryError(err)
	}
	return persisted, nil
}

// ListEmployees enumerates employees, optionally restricted to active ones.
func (s *EmployeeService) ListEmployees(ctx context.Context, activeOnly bool) ([]Employee, error) {
	if s == nil || s.employees == nil {
		return nil, fmt.Errorf("employee repository not configured")
	}

	employees, err := s.employees.ListEmployees(ctx, activeOnly)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return employees, nil
}

// DeleteEmployee removes an employee record. Reservations keep the employee
// name and email they were created with, so no cascade is needed.
func (s *EmployeeService) DeleteEmployee(ctx context.Context, id string) error {
	if s == nil || s.employees == nil {
		return fmt.Errorf("employee repository not configured")
	}

	if err := s.employees.DeleteEmployee(ctx, id); err != nil {
		return mapRepositoryError(err)
	}
	return nil
}
