package persistence

import "time"

// Employee represents a bookable stakeholder in the interview scheduler.
// Deactivated employees stay on record so reservation history keeps its
// context; they are only hidden from booking pickers.
type Employee struct {
	ID        string
	Name      string
	Email     string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Reservation represents a booked interview slot. Date and Time are civil
// values ("2006-01-02" and "15:04"); together they identify the slot, and at
// most one reservation may occupy a slot.
type Reservation struct {
	ID            string
	Date          string
	Time          string
	EmployeeName  string
	EmployeeEmail string
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

// Task represents a calendar task with a due date. Tasks carry no slot
// constraint; any number may share a due date.
type Task struct {
	ID             string
	Title          string
	Description    *string
	Classification string
	DueDate        string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
