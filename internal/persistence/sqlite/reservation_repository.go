package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/interview-scheduler/internal/persistence"
)

// ReservationRepository implements persistence.ReservationRepository using
// SQLite. The unique index on (date, time) is what makes check-and-insert a
// single atomic unit; the repository never performs a separate read-then-write
// round trip for the conflict rule.
type ReservationRepository struct {
	pool *ConnectionPool
}

// NewReservationRepository creates a new SQLite reservation repository.
func NewReservationRepository(pool *ConnectionPool) *ReservationRepository {
	return &ReservationRepository{pool: pool}
}

// CreateReservation inserts a new reservation. A slot already held by another
// reservation surfaces as persistence.ErrDuplicate.
func (r *ReservationRepository) CreateReservation(ctx context.Context, reservation persistence.Reservation) error {
	if reservation.ID == "" {
		return persistence.ErrConstraintViolation
	}

	query := `
		INSERT INTO reservations (id, date, time, employee_name, employee_email, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.pool.db.ExecContext(ctx, query,
		reservation.ID,
		reservation.Date,
		reservation.Time,
		reservation.EmployeeName,
		reservation.EmployeeEmail,
		reservation.CreatedAt.UTC().Format(time.RFC3339),
		nullableTimestamp(reservation.UpdatedAt),
	)
	return mapSQLiteError(err)
}

// UpdateReservation rewrites an existing reservation. Moving it onto a slot
// held by a different reservation surfaces as persistence.ErrDuplicate; the
// record's own slot never conflicts with itself because the update is a
// single statement.
func (r *ReservationRepository) UpdateReservation(ctx context.Context, reservation persistence.Reservation) error {
	if reservation.ID == "" {
		return persistence.ErrNotFound
	}

	query := `
		UPDATE reservations
		SET date = ?, time = ?, employee_name = ?, employee_email = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.pool.db.ExecContext(ctx, query,
		reservation.Date,
		reservation.Time,
		reservation.EmployeeName,
		reservation.EmployeeEmail,
		nullableTimestamp(reservation.UpdatedAt),
		reservation.ID,
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

// GetReservation retrieves a reservation by ID.
func (r *ReservationRepository) GetReservation(ctx context.Context, id string) (persistence.Reservation, error) {
	if id == "" {
		return persistence.Reservation{}, persistence.ErrNotFound
	}

	row := r.pool.db.QueryRowContext(ctx, `
		SELECT id, date, time, employee_name, employee_email, created_at, updated_at
		FROM reservations
		WHERE id = ?
	`, id)
	return scanReservation(row)
}

// FindBySlot retrieves the reservation occupying the given (date, time) slot.
func (r *ReservationRepository) FindBySlot(ctx context.Context, date, timeLabel string) (persistence.Reservation, error) {
	row := r.pool.db.QueryRowContext(ctx, `
		SELECT id, date, time, employee_name, employee_email, created_at, updated_at
		FROM reservations
		WHERE date = ? AND time = ?
	`, date, timeLabel)
	return scanReservation(row)
}

// ListReservations returns all reservations ordered by slot ascending.
func (r *ReservationRepository) ListReservations(ctx context.Context) ([]persistence.Reservation, error) {
	rows, err := r.pool.db.QueryContext(ctx, `
		SELECT id, date, time, employee_name, employee_email, created_at, updated_at
		FROM reservations
		ORDER BY date ASC, time ASC
	`)
	if err != nil {
		return nil, mapSQLiteError(err)
	}
	defer rows.Close()

	reservations := make([]persistence.Reservation, 0)
	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, reservation)
	}
	if err := rows.Err(); err != nil {
		return nil, mapSQLiteError(err)
	}
	return reservations, nil
}

// DeleteReservation removes a reservation by ID.
func (r *ReservationRepository) DeleteReservation(ctx context.Context, id string) error {
	result, err := r.pool.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
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

func scanReservation(row rowScanner) (persistence.Reservation, error) {
	var reservation persistence.Reservation
	var createdAt string
	var updatedAt sql.NullString

	err := row.Scan(
		&reservation.ID,
		&reservation.Date,
		&reservation.Time,
		&reservation.EmployeeName,
		&reservation.EmployeeEmail,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.Reservation{}, persistence.ErrNotFound
		}
		return persistence.Reservation{}, mapSQLiteError(err)
	}

	if reservation.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return persistence.Reservation{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if updatedAt.Valid {
		parsed, err := time.Parse(time.RFC3339, updatedAt.String)
		if err != nil {
			return persistence.Reservation{}, fmt.Errorf("failed to parse updated_at: %w", err)
		}
		reservation.UpdatedAt = &parsed
	}
	return reservation, nil
}

func nullableTimestamp(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339), Valid: true}
}
