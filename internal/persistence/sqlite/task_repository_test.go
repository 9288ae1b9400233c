package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/interview-scheduler/internal/persistence"
)

func sampleTask(id, title, classification, dueDate string) persistence.Task {
	created := time.Date(2025, time.February, 1, 9, 0, 0, 0, time.UTC)
	return persistence.Task{
		ID:             id,
		Title:          title,
		Classification: classification,
		DueDate:        dueDate,
		CreatedAt:      created,
		UpdatedAt:      created,
	}
}

func TestTaskRepository_CreateAndGet(t *testing.T) {
	pool := newTestPool(t)
	repo := NewTaskRepository(pool)
	ctx := context.Background()

	description := "履歴書を提出する"
	task := sampleTask("task-1", "書類提出", "提出物", "2025-03-14")
	task.Description = &description
	if err := repo.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	stored, err := repo.GetTask(ctx, "task-1")
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if stored.Title != task.Title || stored.Classification != task.Classification || stored.DueDate != task.DueDate {
		t.Errorf("stored task = %+v, want %+v", stored, task)
	}
	if stored.Description == nil || *stored.Description != description {
		t.Errorf("Description = %v, want %q", stored.Description, description)
	}
}

func TestTaskRepository_ListFiltersAndOrder(t *testing.T) {
	pool := newTestPool(t)
	repo := NewTaskRepository(pool)
	ctx := context.Background()

	for _, task := range []persistence.Task{
		sampleTask("task-1", "三月前半", "面談", "2025-03-05"),
		sampleTask("task-2", "三月後半", "イベント", "2025-03-20"),
		sampleTask("task-3", "四月", "提出物", "2025-04-01"),
		sampleTask("task-4", "前年", "提出物", "2024-03-10"),
	} {
		if err := repo.CreateTask(ctx, task); err != nil {
			t.Fatalf("CreateTask failed: %v", err)
		}
	}

	t.Run("no filter returns all ordered by due date", func(t *testing.T) {
		tasks, err := repo.ListTasks(ctx, persistence.TaskFilter{})
		if err != nil {
			t.Fatalf("ListTasks failed: %v", err)
		}
		wantOrder := []string{"task-4", "task-1", "task-2", "task-3"}
		if len(tasks) != len(wantOrder) {
			t.Fatalf("got %d tasks, want %d", len(tasks), len(wantOrder))
		}
		for i, want := range wantOrder {
			if tasks[i].ID != want {
				t.Errorf("tasks[%d].ID = %s, want %s", i, tasks[i].ID, want)
			}
		}
	})

	t.Run("year and month filter", func(t *testing.T) {
		tasks, err := repo.ListTasks(ctx, persistence.TaskFilter{Year: 2025, Month: 3})
		if err != nil {
			t.Fatalf("ListTasks failed: %v", err)
		}
		if len(tasks) != 2 || tasks[0].ID != "task-1" || tasks[1].ID != "task-2" {
			t.Errorf("filtered tasks = %+v, want task-1 and task-2", tasks)
		}
	})

	t.Run("year filter", func(t *testing.T) {
		tasks, err := repo.ListTasks(ctx, persistence.TaskFilter{Year: 2024})
		if err != nil {
			t.Fatalf("ListTasks failed: %v", err)
		}
		if len(tasks) != 1 || tasks[0].ID != "task-4" {
			t.Errorf("filtered tasks = %+v, want only task-4", tasks)
		}
	})
}

func TestTaskRepository_UpdateAndDelete(t *testing.T) {
	pool := newTestPool(t)
	repo := NewTaskRepository(pool)
	ctx := context.Background()

	if err := repo.UpdateTask(ctx, sampleTask("task-9", "不明", "面談", "2025-03-01")); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := repo.CreateTask(ctx, sampleTask("task-1", "書類提出", "提出物", "2025-03-14")); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	updated := sampleTask("task-1", "書類再提出", "提出物", "2025-03-21")
	updated.UpdatedAt = updated.UpdatedAt.Add(time.Hour)
	if err := repo.UpdateTask(ctx, updated); err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}
	stored, err := repo.GetTask(ctx, "task-1")
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if stored.Title != "書類再提出" || stored.DueDate != "2025-03-21" {
		t.Errorf("update not applied: %+v", stored)
	}
	if stored.Description != nil {
		t.Errorf("description should have been cleared, got %v", stored.Description)
	}

	if err := repo.DeleteTask(ctx, "task-1"); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}
	if err := repo.DeleteTask(ctx, "task-1"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("second delete should report ErrNotFound, got %v", err)
	}
}
