package persistence_test

import (
	"context"
	"errors"
	"testing"

	"github.com/example/interview-scheduler/internal/persistence"
	"github.com/example/interview-scheduler/internal/persistence/memory"
	"github.com/example/interview-scheduler/internal/testfixtures"
)

// backends runs the contract suite against every repository implementation.
type backend struct {
	employees    persistence.EmployeeRepository
	reservations persistence.ReservationRepository
	tasks        persistence.TaskRepository
}

func forEachBackend(t *testing.T, run func(t *testing.T, b backend)) {
	t.Helper()

	t.Run("sqlite", func(t *testing.T) {
		t.Parallel()
		harness := testfixtures.NewSQLiteHarness(t)
		run(t, backend{
			employees:    harness.Employees,
			reservations: harness.Reservations,
			tasks:        harness.Tasks,
		})
	})

	t.Run("memory", func(t *testing.T) {
		t.Parallel()
		store := memory.NewStorage()
		run(t, backend{employees: store, reservations: store, tasks: store})
	})
}

func TestEmployeeRepositoryContract(t *testing.T) {
	t.Parallel()

	forEachBackend(t, func(t *testing.T, b backend) {
		ctx := context.Background()

		active := testfixtures.NewEmployeeFixture()
		inactive := testfixtures.NewEmployeeFixture(testfixtures.WithEmployeeActive(false))

		if err := b.employees.CreateEmployee(ctx, active.Persistence()); err != nil {
			t.Fatalf("create active employee: %v", err)
		}
		if err := b.employees.CreateEmployee(ctx, inactive.Persistence()); err != nil {
			t.Fatalf("create inactive employee: %v", err)
		}

		duplicate := testfixtures.NewEmployeeFixture(testfixtures.WithEmployeeEmail(active.Email))
		if err := b.employees.CreateEmployee(ctx, duplicate.Persistence()); !errors.Is(err, persistence.ErrDuplicate) {
			t.Fatalf("duplicate email err = %v, want ErrDuplicate", err)
		}

		stored, err := b.employees.GetEmployee(ctx, active.ID)
		if err != nil {
			t.Fatalf("get employee: %v", err)
		}
		if stored.Name != active.Name || stored.Email != active.Email || !stored.Active {
			t.Fatalf("round trip mismatch: %+v", stored)
		}

		byEmail, err := b.employees.GetEmployeeByEmail(ctx, active.Email)
		if err != nil || byEmail.ID != active.ID {
			t.Fatalf("GetEmployeeByEmail = %+v, %v", byEmail, err)
		}

		onlyActive, err := b.employees.ListEmployees(ctx, persistence.EmployeeFilter{ActiveOnly: true})
		if err != nil {
			t.Fatalf("list active: %v", err)
		}
		for _, employee := range onlyActive {
			if employee.ID == inactive.ID {
				t.Fatalf("inactive employee leaked into active list: %+v", onlyActive)
			}
		}

		everyone, err := b.employees.ListEmployees(ctx, persistence.EmployeeFilter{})
		if err != nil {
			t.Fatalf("list all: %v", err)
		}
		if len(everyone) != len(onlyActive)+1 {
			t.Fatalf("all=%d active=%d, want one inactive extra", len(everyone), len(onlyActive))
		}

		if err := b.employees.DeleteEmployee(ctx, active.ID); err != nil {
			t.Fatalf("delete employee: %v", err)
		}
		if err := b.employees.DeleteEmployee(ctx, active.ID); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("second delete err = %v, want ErrNotFound", err)
		}
	})
}

func TestReservationRepositoryContract(t *testing.T) {
	t.Parallel()

	forEachBackend(t, func(t *testing.T, b backend) {
		ctx := context.Background()

		first := testfixtures.NewReservationFixture(testfixtures.WithReservationSlot("2025-03-10", "19:00"))
		if err := b.reservations.CreateReservation(ctx, first.Persistence()); err != nil {
			t.Fatalf("create reservation: %v", err)
		}

		rival := testfixtures.NewReservationFixture(testfixtures.WithReservationSlot("2025-03-10", "19:00"))
		if err := b.reservations.CreateReservation(ctx, rival.Persistence()); !errors.Is(err, persistence.ErrDuplicate) {
			t.Fatalf("double booking err = %v, want ErrDuplicate", err)
		}

		found, err := b.reservations.FindBySlot(ctx, "2025-03-10", "19:00")
		if err != nil {
			t.Fatalf("FindBySlot: %v", err)
		}
		if found.ID != first.ID || found.EmployeeName != first.EmployeeName || found.EmployeeEmail != first.EmployeeEmail {
			t.Fatalf("FindBySlot round trip mismatch: %+v", found)
		}

		// Rewriting the record on its own slot must not conflict with itself.
		own := first.Persistence()
		own.EmployeeName = "別の担当者"
		if err := b.reservations.UpdateReservation(ctx, own); err != nil {
			t.Fatalf("update on own slot: %v", err)
		}

		second := testfixtures.NewReservationFixture(testfixtures.WithReservationSlot("2025-03-10", "19:30"))
		if err := b.reservations.CreateReservation(ctx, second.Persistence()); err != nil {
			t.Fatalf("create second reservation: %v", err)
		}
		moved := second.Persistence()
		moved.Time = "19:00"
		if err := b.reservations.UpdateReservation(ctx, moved); !errors.Is(err, persistence.ErrDuplicate) {
			t.Fatalf("move onto held slot err = %v, want ErrDuplicate", err)
		}

		ghost := testfixtures.NewReservationFixture()
		if err := b.reservations.UpdateReservation(ctx, ghost.Persistence()); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("update unknown err = %v, want ErrNotFound", err)
		}

		if err := b.reservations.DeleteReservation(ctx, first.ID); err != nil {
			t.Fatalf("delete reservation: %v", err)
		}
		if err := b.reservations.DeleteReservation(ctx, first.ID); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("second delete err = %v, want ErrNotFound", err)
		}

		// Freed slot is bookable again.
		rebooked := testfixtures.NewReservationFixture(testfixtures.WithReservationSlot("2025-03-10", "19:00"))
		if err := b.reservations.CreateReservation(ctx, rebooked.Persistence()); err != nil {
			t.Fatalf("rebooking freed slot: %v", err)
		}
	})
}

func TestTaskRepositoryContract(t *testing.T) {
	t.Parallel()

	forEachBackend(t, func(t *testing.T, b backend) {
		ctx := context.Background()

		january := testfixtures.NewTaskFixture(testfixtures.WithTaskDueDate("2025-01-20"))
		february := testfixtures.NewTaskFixture(testfixtures.WithTaskDueDate("2025-02-03"))
		blank := testfixtures.NewTaskFixture(
			testfixtures.WithTaskDueDate("2025-01-05"),
			testfixtures.WithTaskDescription(""),
		)
		for _, fixture := range []testfixtures.TaskFixture{january, february, blank} {
			if err := b.tasks.CreateTask(ctx, fixture.Persistence()); err != nil {
				t.Fatalf("create task %s: %v", fixture.ID, err)
			}
		}

		monthOnly, err := b.tasks.ListTasks(ctx, persistence.TaskFilter{Year: 2025, Month: 1})
		if err != nil {
			t.Fatalf("list january tasks: %v", err)
		}
		if len(monthOnly) != 2 || monthOnly[0].ID != blank.ID || monthOnly[1].ID != january.ID {
			t.Fatalf("january tasks = %+v, want due-date ascending pair", monthOnly)
		}
		if monthOnly[0].Description != nil {
			t.Fatalf("blank description stored as %q", *monthOnly[0].Description)
		}

		year, err := b.tasks.ListTasks(ctx, persistence.TaskFilter{Year: 2025})
		if err != nil {
			t.Fatalf("list year tasks: %v", err)
		}
		if len(year) != 3 {
			t.Fatalf("year tasks = %d, want 3", len(year))
		}

		updated := january.Persistence()
		updated.Title = "更新後の提出物"
		if err := b.tasks.UpdateTask(ctx, updated); err != nil {
			t.Fatalf("update task: %v", err)
		}
		stored, err := b.tasks.GetTask(ctx, january.ID)
		if err != nil || stored.Title != "更新後の提出物" {
			t.Fatalf("GetTask after update = %+v, %v", stored, err)
		}

		if err := b.tasks.DeleteTask(ctx, january.ID); err != nil {
			t.Fatalf("delete task: %v", err)
		}
		if err := b.tasks.DeleteTask(ctx, january.ID); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("second delete err = %v, want ErrNotFound", err)
		}
	})
}
