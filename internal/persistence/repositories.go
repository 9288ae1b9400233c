package persistence

import "context"

// EmployeeFilter narrows employee queries.
type EmployeeFilter struct {
	ActiveOnly bool
}

// EmployeeRepository exposes CRUD operations for employees. Implementations
// must reject a second employee with an email already on record (active or
// not) with ErrDuplicate.
type EmployeeRepository interface {
	CreateEmployee(ctx context.Context, employee Employee) error
	UpdateEmployee(ctx context.Context, employee Employee) error
	GetEmployee(ctx context.Context, id string) (Employee, error)
	GetEmployeeByEmail(ctx context.Context, email string) (Employee, error)
	ListEmployees(ctx context.Context, filter EmployeeFilter) ([]Employee, error)
	DeleteEmployee(ctx context.Context, id string) error
}

// ReservationRepository stores interview reservations and owns the slot
// uniqueness invariant: the check and the write form one atomic unit, so two
// writers racing for the same (date, time) cannot both succeed. A losing
// writer receives ErrDuplicate.
type ReservationRepository interface {
	CreateReservation(ctx context.Context, reservation Reservation) error
	UpdateReservation(ctx context.Context, reservation Reservation) error
	GetReservation(ctx context.Context, id string) (Reservation, error)
	FindBySlot(ctx context.Context, date, timeLabel string) (Reservation, error)
	ListReservations(ctx context.Context) ([]Reservation, error)
	DeleteReservation(ctx context.Context, id string) error
}

// TaskFilter narrows task queries to a due-date year or year+month. Zero
// values leave the dimension unconstrained.
type TaskFilter struct {
	Year  int
	Month int
}

// TaskRepository exposes CRUD operations for calendar tasks.
type TaskRepository interface {
	CreateTask(ctx context.Context, task Task) error
	UpdateTask(ctx context.Context, task Task) error
	GetTask(ctx context.Context, id string) (Task, error)
	ListTasks(ctx context.Context, filter TaskFilter) ([]Task, error)
	DeleteTask(ctx context.Context, id string) error
}
