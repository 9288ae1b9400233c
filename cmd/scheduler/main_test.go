package main

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/example/interview-scheduler/internal/application"
	"github.com/example/interview-scheduler/internal/persistence/memory"
)

func TestSplitAddresses(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "empty", raw: "", want: nil},
		{name: "single", raw: "hr@example.com", want: []string{"hr@example.com"}},
		{name: "multiple with spaces", raw: " hr@example.com , boss@example.com ", want: []string{"hr@example.com", "boss@example.com"}},
		{name: "trailing comma", raw: "hr@example.com,", want: []string{"hr@example.com"}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := splitAddresses(tc.raw); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("splitAddresses(%q) = %v, want %v", tc.raw, got, tc.want)
			}
		})
	}
}

func TestOpenStorageMemoryBackend(t *testing.T) {
	t.Parallel()

	storage, err := openStorage(context.Background(), "memory")
	if err != nil {
		t.Fatalf("openStorage returned error: %v", err)
	}
	defer func() {
		if err := storage.close(); err != nil {
			t.Fatalf("close returned error: %v", err)
		}
	}()

	if storage.employees == nil || storage.reservations == nil || storage.tasks == nil {
		t.Fatal("memory backend left repositories unset")
	}
}

func TestReservationAdapterRoundTrip(t *testing.T) {
	t.Parallel()

	adapter := newReservationRepositoryAdapter(memory.NewStorage())
	created := time.Date(2025, time.January, 15, 12, 0, 0, 0, time.UTC)

	stored, err := adapter.CreateReservation(context.Background(), application.Reservation{
		ID:            "res-1",
		Date:          "2025-01-20",
		Time:          "19:30",
		EmployeeName:  "山田太郎",
		EmployeeEmail: "yamada@example.com",
		CreatedAt:     created,
	})
	if err != nil {
		t.Fatalf("CreateReservation returned error: %v", err)
	}
	if stored.ID != "res-1" || stored.Date != "2025-01-20" || stored.Time != "19:30" {
		t.Fatalf("stored reservation = %+v", stored)
	}
	if stored.UpdatedAt != nil {
		t.Fatalf("fresh reservation carries UpdatedAt %v", stored.UpdatedAt)
	}

	found, err := adapter.FindBySlot(context.Background(), "2025-01-20", "19:30")
	if err != nil {
		t.Fatalf("FindBySlot returned error: %v", err)
	}
	if found.EmployeeName != "山田太郎" || found.EmployeeEmail != "yamada@example.com" {
		t.Fatalf("FindBySlot returned %+v", found)
	}

	if _, err := adapter.GetReservation(context.Background(), "missing"); err == nil {
		t.Fatal("expected error for unknown id")
	}
}

func TestTaskAdapterDescriptionHandling(t *testing.T) {
	t.Parallel()

	adapter := newTaskRepositoryAdapter(memory.NewStorage())
	now := time.Date(2025, time.January, 15, 12, 0, 0, 0, time.UTC)

	blank, err := adapter.CreateTask(context.Background(), application.Task{
		ID:             "task-1",
		Title:          "履歴書の提出",
		Description:    "   ",
		Classification: application.ClassificationSubmission,
		DueDate:        "2025-01-25",
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		t.Fatalf("CreateTask returned error: %v", err)
	}
	if blank.Description != "" {
		t.Fatalf("blank description survived as %q", blank.Description)
	}

	filled, err := adapter.CreateTask(context.Background(), application.Task{
		ID:             "task-2",
		Title:          "会場の予約",
		Description:    "3階の会議室",
		Classification: application.ClassificationEvent,
		DueDate:        "2025-01-26",
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		t.Fatalf("CreateTask returned error: %v", err)
	}
	if filled.Description != "3階の会議室" {
		t.Fatalf("description round trip lost data: %q", filled.Description)
	}

	tasks, err := adapter.ListTasks(context.Background(), application.TaskFilter{Year: 2025, Month: time.January})
	if err != nil {
		t.Fatalf("ListTasks returned error: %v", err)
	}
	if len(tasks) != 2 || tasks[0].ID != "task-1" || tasks[1].ID != "task-2" {
		t.Fatalf("ListTasks order = %+v", tasks)
	}
}

func TestEmployeeAdapterListFiltering(t *testing.T) {
	t.Parallel()

	adapter := newEmployeeRepositoryAdapter(memory.NewStorage())
	now := time.Date(2025, time.January, 15, 12, 0, 0, 0, time.UTC)

	for _, employee := range []application.Employee{
		{ID: "emp-1", Name: "山田太郎", Email: "yamada@example.com", Active: true, CreatedAt: now, UpdatedAt: now},
		{ID: "emp-2", Name: "佐藤花子", Email: "sato@example.com", Active: false, CreatedAt: now, UpdatedAt: now},
	} {
		if _, err := adapter.CreateEmployee(context.Background(), employee); err != nil {
			t.Fatalf("CreateEmployee(%s) returned error: %v", employee.ID, err)
		}
	}

	active, err := adapter.ListEmployees(context.Background(), true)
	if err != nil {
		t.Fatalf("ListEmployees(active) returned error: %v", err)
	}
	if len(active) != 1 || active[0].ID != "emp-1" {
		t.Fatalf("active list = %+v", active)
	}

	all, err := adapter.ListEmployees(context.Background(), false)
	if err != nil {
		t.Fatalf("ListEmployees(all) returned error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("all list = %+v", all)
	}
}
