package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/interview-scheduler/internal/persistence"
)

// TaskRepository implements persistence.TaskRepository using SQLite.
type TaskRepository struct {
	pool *ConnectionPool
}

// NewTaskRepository creates a new SQLite task repository.
func NewTaskRepository(pool *ConnectionPool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

// CreateTask inserts a new task.
func (r *TaskRepository) CreateTask(ctx context.Context, task persistence.Task) error {
	if task.ID == "" {
		return persistence.ErrConstraintViolation
	}

	query := `
		INSERT INTO tasks (id, title, description, classification, due_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.pool.db.ExecContext(ctx, query,
		task.ID,
		task.Title,
		nullableString(task.Description),
		task.Classification,
		task.DueDate,
		task.CreatedAt.UTC().Format(time.RFC3339),
		task.UpdatedAt.UTC().Format(time.RFC3339),
	)
	return mapSQLiteError(err)
}

// UpdateTask rewrites an existing task.
func (r *TaskRepository) UpdateTask(ctx context.Context, task persistence.Task) error {
	if task.ID == "" {
		return persistence.ErrNotFound
	}

	query := `
		UPDATE tasks
		SET title = ?, description = ?, classification = ?, due_date = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.pool.db.ExecContext(ctx, query,
		task.Title,
		nullableString(task.Description),
		task.Classification,
		task.DueDate,
		task.UpdatedAt.UTC().Format(time.RFC3339),
		task.ID,
	)
	if err != nil {
		return mapSQLiteError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// GetTask retrieves a task by ID.
func (r *TaskRepository) GetTask(ctx context.Context, id string) (persistence.Task, error) {
	if id == "" {
		return persistence.Task{}, persistence.ErrNotFound
	}

	row := r.pool.db.QueryRowContext(ctx, `
		SELECT id, title, description, classification, due_date, created_at, updated_at
		FROM tasks
		WHERE id = ?
	`, id)
	return scanTask(row)
}

// ListTasks returns tasks ordered by due date ascending, optionally filtered
// by due-date year or year+month.
func (r *TaskRepository) ListTasks(ctx context.Context, filter persistence.TaskFilter) ([]persistence.Task, error) {
	query := `
		SELECT id, title, description, classification, due_date, created_at, updated_at
		FROM tasks
	`
	args := make([]any, 0, 1)
	switch {
	case filter.Year != 0 && filter.Month != 0:
		query += " WHERE due_date LIKE ?"
		args = append(args, fmt.Sprintf("%04d-%02d-%%", filter.Year, filter.Month))
	case filter.Year != 0:
		query += " WHERE due_date LIKE ?"
		args = append(args, fmt.Sprintf("%04d-%%", filter.Year))
	}
	query += " ORDER BY due_date ASC, id ASC"

	rows, err := r.pool.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapSQLiteError(err)
	}
	defer rows.Close()

	tasks := make([]persistence.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, mapSQLiteError(err)
	}
	return tasks, nil
}

// DeleteTask removes a task by ID.
func (r *TaskRepository) DeleteTask(ctx context.Context, id string) error {
	result, err := r.pool.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return mapSQLiteError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

func scanTask(row rowScanner) (persistence.Task, error) {
	var task persistence.Task
	var description sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(
		&task.ID,
		&task.Title,
		&description,
		&task.Classification,
		&task.DueDate,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.Task{}, persistence.ErrNotFound
		}
		return persistence.Task{}, mapSQLiteError(err)
	}

	if description.Valid {
		value := description.String
		task.Description = &value
	}
	if task.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return persistence.Task{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if task.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return persistence.Task{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return task, nil
}

func nullableString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}
