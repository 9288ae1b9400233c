package application

import "time"

// Employee represents a bookable stakeholder. Deactivated employees stay on
// record and keep their reservation history; they are only hidden from
// booking pickers.
type Employee struct {
	ID        string
	Name      string
	Email     string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EmployeeInput captures caller provided fields for creating an employee.
type EmployeeInput struct {
	Name  string
	Email string
}

// EmployeePatch carries the optional fields of an employee update; nil fields
// are left untouched.
type EmployeePatch struct {
	Name   *string
	Email  *string
	Active *bool
}

// Reservation represents a booked interview slot. Date is "2006-01-02" and
// Time is "15:04"; together they identify the slot.
type Reservation struct {
	ID            string
	Date          string
	Time          string
	EmployeeName  string
	EmployeeEmail string
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

// ReservationInput captures caller provided fields for creating a reservation.
type ReservationInput struct {
	Date          string
	Time          string
	EmployeeName  string
	EmployeeEmail string
}

// ReservationPatch carries the optional fields of a reservation update; nil
// fields inherit the stored record's values.
type ReservationPatch struct {
	Date          *string
	Time          *string
	EmployeeName  *string
	EmployeeEmail *string
}

// Task classifications carry the canonical Japanese labels used throughout
// the calendar UI.
const (
	ClassificationInterview  = "面談"
	ClassificationSubmission = "提出物"
	ClassificationEvent      = "イベント"
)

// Task represents a calendar task with a due date and no slot constraint.
type Task struct {
	ID             string
	Title          string
	Description    string
	Classification string
	DueDate        string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TaskInput captures caller provided fields for creating a task.
type TaskInput struct {
	Title          string
	Description    string
	Classification string
	DueDate        string
}

// TaskPatch carries the optional fields of a task update.
type TaskPatch struct {
	Title          *string
	Description    *string
	Classification *string
	DueDate        *string
}

// EventKind distinguishes the two sources a calendar event can come from.
type EventKind string

const (
	// EventKindReservation marks events projected from interview reservations.
	EventKindReservation EventKind = "reservation"
	// EventKindTask marks events projected from tasks due on the date.
	EventKindTask EventKind = "task"
)

// Event is a read-only projection merging reservations and tasks for a
// calendar date. Events are never stored; they are recomputed on every read.
type Event struct {
	ID             string
	Date           string
	Time           string
	Title          string
	Kind           EventKind
	Classification string
	Description    string
}

// MonthItem is the task-shaped projection used by the month task list, where
// reservations appear alongside tasks and past items sink to the bottom.
type MonthItem struct {
	ID             string
	Title          string
	Description    string
	Classification string
	DueDate        string
	Kind           EventKind
	Past           bool
}

// Session represents an issued access token.
type Session struct {
	Token     string
	ExpiresAt time.Time
}
