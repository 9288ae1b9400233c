// Package testfixtures provides deterministic builders and harnesses shared
// by persistence and service tests.
package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/interview-scheduler/internal/application"
	"github.com/example/interview-scheduler/internal/persistence"
)

var (
	employeeCounter    uint64
	reservationCounter uint64
	taskCounter        uint64
)

var referenceTime = time.Date(2025, time.January, 15, 12, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// --------------------------- Employee fixtures ---------------------------

// EmployeeFixture represents a deterministic employee record that can be
// materialised for application or persistence tests.
type EmployeeFixture struct {
	ID        string
	Name      string
	Email     string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EmployeeOption configures the generated employee fixture.
type EmployeeOption func(*EmployeeFixture)

// NewEmployeeFixture returns a deterministic employee fixture with optional overrides.
func NewEmployeeFixture(opts ...EmployeeOption) EmployeeFixture {
	idx := atomic.AddUint64(&employeeCounter, 1)
	id := fmt.Sprintf("employee-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := EmployeeFixture{
		ID:        id,
		Name:      fmt.Sprintf("担当者%03d", idx),
		Email:     fmt.Sprintf("%s@example.com", id),
		Active:    true,
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithEmployeeID overrides the generated employee ID.
func WithEmployeeID(id string) EmployeeOption {
	return func(f *EmployeeFixture) {
		f.ID = id
	}
}

// WithEmployeeName overrides the generated name.
func WithEmployeeName(name string) EmployeeOption {
	return func(f *EmployeeFixture) {
		f.Name = name
	}
}

// WithEmployeeEmail overrides the generated email address.
func WithEmployeeEmail(email string) EmployeeOption {
	return func(f *EmployeeFixture) {
		f.Email = email
	}
}

// WithEmployeeActive sets the active flag on the generated fixture.
func WithEmployeeActive(active bool) EmployeeOption {
	return func(f *EmployeeFixture) {
		f.Active = active
	}
}

// WithEmployeeTimestamps sets both created and updated timestamps on the fixture.
func WithEmployeeTimestamps(created, updated time.Time) EmployeeOption {
	return func(f *EmployeeFixture) {
		f.CreatedAt = created
		f.UpdatedAt = updated
	}
}

// Application returns the fixture as an application.Employee value.
func (f EmployeeFixture) Application() application.Employee {
	return application.Employee{
		ID:        f.ID,
		Name:      f.Name,
		Email:     f.Email,
		Active:    f.Active,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// Persistence returns the fixture as a persistence.Employee value.
func (f EmployeeFixture) Persistence() persistence.Employee {
	return persistence.Employee{
		ID:        f.ID,
		Name:      f.Name,
		Email:     f.Email,
		Active:    f.Active,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// -------------------------- Reservation fixtures --------------------------

// ReservationFixture represents a deterministic interview booking.
type ReservationFixture struct {
	ID            string
	Date          string
	Time          string
	EmployeeName  string
	EmployeeEmail string
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

// ReservationOption configures the generated reservation fixture.
type ReservationOption func(*ReservationFixture)

// slotLabels mirrors the bookable evening slots so consecutive fixtures do
// not collide on the same slot.
var slotLabels = [...]string{"19:00", "19:30", "20:00", "20:30", "21:00"}

// NewReservationFixture returns a deterministic reservation fixture. Fixtures
// rotate through dates and slots so defaults never double-book.
func NewReservationFixture(opts ...ReservationOption) ReservationFixture {
	idx := atomic.AddUint64(&reservationCounter, 1)
	day := referenceTime.AddDate(0, 0, int(idx)/len(slotLabels))
	fixture := ReservationFixture{
		ID:            fmt.Sprintf("reservation-%03d", idx),
		Date:          day.Format("2006-01-02"),
		Time:          slotLabels[int(idx)%len(slotLabels)],
		EmployeeName:  fmt.Sprintf("担当者%03d", idx),
		EmployeeEmail: fmt.Sprintf("employee-%03d@example.com", idx),
		CreatedAt:     referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithReservationID overrides the generated reservation ID.
func WithReservationID(id string) ReservationOption {
	return func(f *ReservationFixture) {
		f.ID = id
	}
}

// WithReservationSlot sets the date and time of the booked slot.
func WithReservationSlot(date, timeLabel string) ReservationOption {
	return func(f *ReservationFixture) {
		f.Date = date
		f.Time = timeLabel
	}
}

// WithReservationEmployee sets the booked employee's name and email.
func WithReservationEmployee(name, email string) ReservationOption {
	return func(f *ReservationFixture) {
		f.EmployeeName = name
		f.EmployeeEmail = email
	}
}

// WithReservationCreatedAt sets the created timestamp on the fixture.
func WithReservationCreatedAt(t time.Time) ReservationOption {
	return func(f *ReservationFixture) {
		f.CreatedAt = t
	}
}

// WithReservationUpdatedAt sets the updated timestamp on the fixture.
func WithReservationUpdatedAt(t time.Time) ReservationOption {
	return func(f *ReservationFixture) {
		f.UpdatedAt = &t
	}
}

// Application returns the fixture as an application.Reservation value.
func (f ReservationFixture) Application() application.Reservation {
	return application.Reservation{
		ID:            f.ID,
		Date:          f.Date,
		Time:          f.Time,
		EmployeeName:  f.EmployeeName,
		EmployeeEmail: f.EmployeeEmail,
		CreatedAt:     f.CreatedAt,
		UpdatedAt:     f.UpdatedAt,
	}
}

// Persistence returns the fixture as a persistence.Reservation value.
func (f ReservationFixture) Persistence() persistence.Reservation {
	return persistence.Reservation{
		ID:            f.ID,
		Date:          f.Date,
		Time:          f.Time,
		EmployeeName:  f.EmployeeName,
		EmployeeEmail: f.EmployeeEmail,
		CreatedAt:     f.CreatedAt,
		UpdatedAt:     f.UpdatedAt,
	}
}

// ----------------------------- Task fixtures -----------------------------

// TaskFixture represents a deterministic calendar task.
type TaskFixture struct {
	ID             string
	Title          string
	Description    string
	Classification string
	DueDate        string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TaskOption configures the generated task fixture.
type TaskOption func(*TaskFixture)

// NewTaskFixture returns a deterministic task fixture with optional overrides.
func NewTaskFixture(opts ...TaskOption) TaskFixture {
	idx := atomic.AddUint64(&taskCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := TaskFixture{
		ID:             fmt.Sprintf("task-%03d", idx),
		Title:          fmt.Sprintf("提出物%03d", idx),
		Description:    fmt.Sprintf("提出物%03dの説明", idx),
		Classification: application.ClassificationSubmission,
		DueDate:        referenceTime.AddDate(0, 0, int(idx)).Format("2006-01-02"),
		CreatedAt:      created,
		UpdatedAt:      created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithTaskID overrides the generated task ID.
func WithTaskID(id string) TaskOption {
	return func(f *TaskFixture) {
		f.ID = id
	}
}

// WithTaskTitle overrides the generated title.
func WithTaskTitle(title string) TaskOption {
	return func(f *TaskFixture) {
		f.Title = title
	}
}

// WithTaskDescription overrides the generated description.
func WithTaskDescription(description string) TaskOption {
	return func(f *TaskFixture) {
		f.Description = description
	}
}

// WithTaskClassification sets the task classification.
func WithTaskClassification(classification string) TaskOption {
	return func(f *TaskFixture) {
		f.Classification = classification
	}
}

// WithTaskDueDate sets the due date.
func WithTaskDueDate(dueDate string) TaskOption {
	return func(f *TaskFixture) {
		f.DueDate = dueDate
	}
}

// Application returns the fixture as an application.Task value.
func (f TaskFixture) Application() application.Task {
	return application.Task{
		ID:             f.ID,
		Title:          f.Title,
		Description:    f.Description,
		Classification: f.Classification,
		DueDate:        f.DueDate,
		CreatedAt:      f.CreatedAt,
		UpdatedAt:      f.UpdatedAt,
	}
}

// Persistence returns the fixture as a persistence.Task value. An empty
// description maps to a nil pointer, matching the storage schema.
func (f TaskFixture) Persistence() persistence.Task {
	task := persistence.Task{
		ID:             f.ID,
		Title:          f.Title,
		Classification: f.Classification,
		DueDate:        f.DueDate,
		CreatedAt:      f.CreatedAt,
		UpdatedAt:      f.UpdatedAt,
	}
	if f.Description != "" {
		description := f.Description
		task.Description = &description
	}
	return task
}
