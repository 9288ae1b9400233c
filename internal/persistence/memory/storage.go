// Package memory provides a mutex-guarded in-memory implementation of the
// persistence repositories. It backs unit tests and makes the single-writer
// discipline of the reservation collection explicit: the slot check and the
// write happen under one lock.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/example/interview-scheduler/internal/persistence"
)

// Storage holds every entity collection behind a single lock.
type Storage struct {
	mu           sync.RWMutex
	employees    map[string]persistence.Employee
	reservations map[string]persistence.Reservation
	tasks        map[string]persistence.Task
}

// NewStorage returns an empty in-memory storage.
func NewStorage() *Storage {
	return &Storage{
		employees:    make(map[string]persistence.Employee),
		reservations: make(map[string]persistence.Reservation),
		tasks:        make(map[string]persistence.Task),
	}
}

// --- EmployeeRepository implementation ---

// CreateEmployee stores a new employee, enforcing email uniqueness.
func (s *Storage) CreateEmployee(ctx context.Context, employee persistence.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.employees[employee.ID]; ok {
		return persistence.ErrDuplicate
	}
	if s.emailTakenLocked(employee.ID, employee.Email) {
		return persistence.ErrDuplicate
	}

	employee.Email = normalizeEmail(employee.Email)
	s.employees[employee.ID] = employee
	return nil
}

// UpdateEmployee replaces an existing employee record.
func (s *Storage) UpdateEmployee(ctx context.Context, employee persistence.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.employees[employee.ID]; !ok {
		return persistence.ErrNotFound
	}
	if s.emailTakenLocked(employee.ID, employee.Email) {
		return persistence.ErrDuplicate
	}

	employee.Email = normalizeEmail(employee.Email)
	s.employees[employee.ID] = employee
	return nil
}

// GetEmployee retrieves an employee by ID.
func (s *Storage) GetEmployee(ctx context.Context, id string) (persistence.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	employee, ok := s.employees[id]
	if !ok {
		return persistence.Employee{}, persistence.ErrNotFound
	}
	return employee, nil
}

// GetEmployeeByEmail retrieves an employee by email address.
func (s *Storage) GetEmployeeByEmail(ctx context.Context, email string) (persistence.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	normalized := normalizeEmail(email)
	for _, employee := range s.employees {
		if employee.Email == normalized {
			return employee, nil
		}
	}
	return persistence.Employee{}, persistence.ErrNotFound
}

// ListEmployees returns employees ordered by creation time ascending.
func (s *Storage) ListEmployees(ctx context.Context, filter persistence.EmployeeFilter) ([]persistence.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	employees := make([]persistence.Employee, 0, len(s.employees))
	for _, employee := range s.employees {
		if filter.ActiveOnly && !employee.Active {
			continue
		}
		employees = append(employees, employee)
	}

	sort.Slice(employees, func(i, j int) bool {
		if employees[i].CreatedAt.Equal(employees[j].CreatedAt) {
			return employees[i].ID < employees[j].ID
		}
		return employees[i].CreatedAt.Before(employees[j].CreatedAt)
	})
	return employees, nil
}

// DeleteEmployee removes an employee by ID.
func (s *Storage) DeleteEmployee(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.employees[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.employees, id)
	return nil
}

func (s *Storage) emailTakenLocked(id, email string) bool {
	normalized := normalizeEmail(email)
	for existingID, employee := range s.employees {
		if existingID == id {
			continue
		}
		if employee.Email == normalized {
			return true
		}
	}
	return false
}

// --- ReservationRepository implementation ---

// CreateReservation stores a new reservation; the slot check and the insert
// run under the same write lock, so racing writers serialize here.
func (s *Storage) CreateReservation(ctx context.Context, reservation persistence.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reservations[reservation.ID]; ok {
		return persistence.ErrDuplicate
	}
	if s.slotTakenLocked(reservation.ID, reservation.Date, reservation.Time) {
		return persistence.ErrDuplicate
	}

	s.reservations[reservation.ID] = cloneReservation(reservation)
	return nil
}

// UpdateReservation replaces an existing reservation, rejecting moves onto a
// slot held by a different reservation.
func (s *Storage) UpdateReservation(ctx context.Context, reservation persistence.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reservations[reservation.ID]; !ok {
		return persistence.ErrNotFound
	}
	if s.slotTakenLocked(reservation.ID, reservation.Date, reservation.Time) {
		return persistence.ErrDuplicate
	}

	s.reservations[reservation.ID] = cloneReservation(reservation)
	return nil
}

// GetReservation retrieves a reservation by ID.
func (s *Storage) GetReservation(ctx context.Context, id string) (persistence.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reservation, ok := s.reservations[id]
	if !ok {
		return persistence.Reservation{}, persistence.ErrNotFound
	}
	return cloneReservation(reservation), nil
}

// FindBySlot retrieves the reservation occupying the given slot.
func (s *Storage) FindBySlot(ctx context.Context, date, timeLabel string) (persistence.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, reservation := range s.reservations {
		if reservation.Date == date && reservation.Time == timeLabel {
			return cloneReservation(reservation), nil
		}
	}
	return persistence.Reservation{}, persistence.ErrNotFound
}

// ListReservations returns all reservations ordered by slot ascending.
func (s *Storage) ListReservations(ctx context.Context) ([]persistence.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reservations := make([]persistence.Reservation, 0, len(s.reservations))
	for _, reservation := range s.reservations {
		reservations = append(reservations, cloneReservation(reservation))
	}

	sort.Slice(reservations, func(i, j int) bool {
		if reservations[i].Date != reservations[j].Date {
			return reservations[i].Date < reservations[j].Date
		}
		if reservations[i].Time != reservations[j].Time {
			return reservations[i].Time < reservations[j].Time
		}
		return reservations[i].ID < reservations[j].ID
	})
	return reservations, nil
}

// DeleteReservation removes a reservation by ID.
func (s *Storage) DeleteReservation(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reservations[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.reservations, id)
	return nil
}

func (s *Storage) slotTakenLocked(id, date, timeLabel string) bool {
	for existingID, reservation := range s.reservations {
		if existingID == id {
			continue
		}
		if reservation.Date == date && reservation.Time == timeLabel {
			return true
		}
	}
	return false
}

// --- TaskRepository implementation ---

// CreateTask stores a new task.
func (s *Storage) CreateTask(ctx context.Context, task persistence.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[task.ID]; ok {
		return persistence.ErrDuplicate
	}
	s.tasks[task.ID] = cloneTask(task)
	return nil
}

// UpdateTask replaces an existing task.
func (s *Storage) UpdateTask(ctx context.Context, task persistence.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[task.ID]; !ok {
		return persistence.ErrNotFound
	}
	s.tasks[task.ID] = cloneTask(task)
	return nil
}

// GetTask retrieves a task by ID.
func (s *Storage) GetTask(ctx context.Context, id string) (persistence.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok {
		return persistence.Task{}, persistence.ErrNotFound
	}
	return cloneTask(task), nil
}

// ListTasks returns tasks ordered by due date ascending, optionally filtered
// by due-date year or year+month.
func (s *Storage) ListTasks(ctx context.Context, filter persistence.TaskFilter) ([]persistence.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]persistence.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		if !matchesTaskFilter(task, filter) {
			continue
		}
		tasks = append(tasks, cloneTask(task))
	}

	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].DueDate != tasks[j].DueDate {
			return tasks[i].DueDate < tasks[j].DueDate
		}
		return tasks[i].ID < tasks[j].ID
	})
	return tasks, nil
}

// DeleteTask removes a task by ID.
func (s *Storage) DeleteTask(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

func matchesTaskFilter(task persistence.Task, filter persistence.TaskFilter) bool {
	if filter.Year == 0 {
		return true
	}
	due, err := time.Parse("2006-01-02", task.DueDate)
	if err != nil {
		return false
	}
	if due.Year() != filter.Year {
		return false
	}
	if filter.Month != 0 && int(due.Month()) != filter.Month {
		return false
	}
	return true
}

func cloneReservation(reservation persistence.Reservation) persistence.Reservation {
	clone := reservation
	if reservation.UpdatedAt != nil {
		updated := *reservation.UpdatedAt
		clone.UpdatedAt = &updated
	}
	return clone
}

func cloneTask(task persistence.Task) persistence.Task {
	clone := task
	if task.Description != nil {
		description := *task.Description
		clone.Description = &description
	}
	return clone
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
