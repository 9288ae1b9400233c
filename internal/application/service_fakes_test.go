package application

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/example/interview-scheduler/internal/persistence"
)

// The fakes below back the service tests with map-based stores that honour
// the same sentinel contract as the real repositories.

type fakeEmployeeRepo struct {
	mu        sync.Mutex
	employees map[string]Employee
	failWith  error
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{employees: make(map[string]Employee)}
}

func (f *fakeEmployeeRepo) CreateEmployee(_ context.Context, employee Employee) (Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return Employee{}, f.failWith
	}
	for _, existing := range f.employees {
		if strings.EqualFold(existing.Email, employee.Email) {
			return Employee{}, persistence.ErrDuplicate
		}
	}
	f.employees[employee.ID] = employee
	return employee, nil
}

func (f *fakeEmployeeRepo) GetEmployee(_ context.Context, id string) (Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	employee, ok := f.employees[id]
	if !ok {
		return Employee{}, persistence.ErrNotFound
	}
	return employee, nil
}

func (f *fakeEmployeeRepo) UpdateEmployee(_ context.Context, employee Employee) (Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.employees[employee.ID]; !ok {
		return Employee{}, persistence.ErrNotFound
	}
	for id, existing := range f.employees {
		if id != employee.ID && strings.EqualFold(existing.Email, employee.Email) {
			return Employee{}, persistence.ErrDuplicate
		}
	}
	f.employees[employee.ID] = employee
	return employee, nil
}

func (f *fakeEmployeeRepo) ListEmployees(_ context.Context, activeOnly bool) ([]Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Employee
	for _, employee := range f.employees {
		if activeOnly && !employee.Active {
			continue
		}
		out = append(out, employee)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeEmployeeRepo) DeleteEmployee(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.employees[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(f.employees, id)
	return nil
}

type fakeReservationRepo struct {
	mu           sync.Mutex
	reservations map[string]Reservation
	failWith     error
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{reservations: make(map[string]Reservation)}
}

func (f *fakeReservationRepo) slotTakenLocked(date, timeLabel, excludeID string) bool {
	for id, existing := range f.reservations {
		if id != excludeID && existing.Date == date && existing.Time == timeLabel {
			return true
		}
	}
	return false
}

func (f *fakeReservationRepo) CreateReservation(_ context.Context, reservation Reservation) (Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return Reservation{}, f.failWith
	}
	if f.slotTakenLocked(reservation.Date, reservation.Time, "") {
		return Reservation{}, persistence.ErrDuplicate
	}
	f.reservations[reservation.ID] = reservation
	return reservation, nil
}

func (f *fakeReservationRepo) GetReservation(_ context.Context, id string) (Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	reservation, ok := f.reservations[id]
	if !ok {
		return Reservation{}, persistence.ErrNotFound
	}
	return reservation, nil
}

func (f *fakeReservationRepo) UpdateReservation(_ context.Context, reservation Reservation) (Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.reservations[reservation.ID]; !ok {
		return Reservation{}, persistence.ErrNotFound
	}
	if f.slotTakenLocked(reservation.Date, reservation.Time, reservation.ID) {
		return Reservation{}, persistence.ErrDuplicate
	}
	f.reservations[reservation.ID] = reservation
	return reservation, nil
}

func (f *fakeReservationRepo) FindBySlot(_ context.Context, date, timeLabel string) (Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return Reservation{}, f.failWith
	}
	for _, existing := range f.reservations {
		if existing.Date == date && existing.Time == timeLabel {
			return existing, nil
		}
	}
	return Reservation{}, persistence.ErrNotFound
}

func (f *fakeReservationRepo) ListReservations(_ context.Context) ([]Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	out := make([]Reservation, 0, len(f.reservations))
	for _, reservation := range f.reservations {
		out = append(out, reservation)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out, nil
}

func (f *fakeReservationRepo) DeleteReservation(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.reservations[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(f.reservations, id)
	return nil
}

type fakeTaskRepo struct {
	mu       sync.Mutex
	tasks    map[string]Task
	failWith error
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[string]Task)}
}

func (f *fakeTaskRepo) CreateTask(_ context.Context, task Task) (Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return Task{}, f.failWith
	}
	f.tasks[task.ID] = task
	return task, nil
}

func (f *fakeTaskRepo) GetTask(_ context.Context, id string) (Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	task, ok := f.tasks[id]
	if !ok {
		return Task{}, persistence.ErrNotFound
	}
	return task, nil
}

func (f *fakeTaskRepo) UpdateTask(_ context.Context, task Task) (Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tasks[task.ID]; !ok {
		return Task{}, persistence.ErrNotFound
	}
	f.tasks[task.ID] = task
	return task, nil
}

func (f *fakeTaskRepo) ListTasks(_ context.Context, filter TaskFilter) ([]Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	var out []Task
	for _, task := range f.tasks {
		if filter.Year != 0 {
			prefix := fmt.Sprintf("%04d-", filter.Year)
			if filter.Month != 0 {
				prefix = fmt.Sprintf("%04d-%02d-", filter.Year, int(filter.Month))
			}
			if !strings.HasPrefix(task.DueDate, prefix) {
				continue
			}
		}
		out = append(out, task)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate < out[j].DueDate })
	return out, nil
}

func (f *fakeTaskRepo) DeleteTask(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tasks[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(f.tasks, id)
	return nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	notified []Reservation
	failWith error
}

func (f *fakeNotifier) NotifyReservation(_ context.Context, reservation Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	f.notified = append(f.notified, reservation)
	return nil
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.notified)
}

type countingMetrics struct {
	mu               sync.Mutex
	created          int
	conflicts        int
	notifierFailures int
}

func (m *countingMetrics) ReservationCreated() {
	m.mu.Lock()
	m.created++
	m.mu.Unlock()
}

func (m *countingMetrics) SlotConflict() {
	m.mu.Lock()
	m.conflicts++
	m.mu.Unlock()
}

func (m *countingMetrics) NotifierFailure() {
	m.mu.Lock()
	m.notifierFailures++
	m.mu.Unlock()
}

func fixedNow() time.Time {
	return time.Date(2025, time.January, 15, 12, 0, 0, 0, time.UTC)
}

func sequentialIDs(prefix string) func() string {
	var mu sync.Mutex
	next := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		next++
		return fmt.Sprintf("%s-%d", prefix, next)
	}
}
