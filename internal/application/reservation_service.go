package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/interview-scheduler/internal/calendar"
)

// ReservationRepository captures the persistence operations needed by the reservation service.
type ReservationRepository interface {
	CreateReservation(ctx context.Context, reservation Reservation) (Reservation, error)
	GetReservation(ctx context.Context, id string) (Reservation, error)
	UpdateReservation(ctx context.Context, reservation Reservation) (Reservation, error)
	FindBySlot(ctx context.Context, date, timeLabel string) (Reservation, error)
	ListReservations(ctx context.Context) ([]Reservation, error)
	DeleteReservation(ctx context.Context, id string) error
}

// Notifier delivers a booking confirmation after a reservation is committed.
// Delivery failures must never surface to the booking caller.
type Notifier interface {
	NotifyReservation(ctx context.Context, reservation Reservation) error
}

// ReservationMetrics records reservation outcomes for the metrics endpoint.
type ReservationMetrics interface {
	ReservationCreated()
	SlotConflict()
	NotifierFailure()
}

type noopReservationMetrics struct{}

func (noopReservationMetrics) ReservationCreated() {}
func (noopReservationMetrics) SlotConflict()       {}
func (noopReservationMetrics) NotifierFailure()    {}

// ReservationService owns the booking workflow: validation, the atomic slot
// claim, and the post-commit confirmation notification.
type ReservationService struct {
	reservations ReservationRepository
	notifier     Notifier
	metrics      ReservationMetrics
	idGenerator  func() string
	now          func() time.Time
	logger       *slog.Logger

	// notifyDone, when non-nil, is signalled after each background
	// notification attempt completes. Tests use it to wait for delivery.
	notifyDone chan struct{}
}

// NewReservationService wires dependencies for the reservation service. The
// notifier may be nil, in which case confirmations are skipped.
func NewReservationService(reservations ReservationRepository, notifier Notifier, metrics ReservationMetrics, idGenerator func() string, now func() time.Time, logger *slog.Logger) *ReservationService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if metrics == nil {
		metrics = noopReservationMetrics{}
	}
	return &ReservationService{
		reservations: reservations,
		notifier:     notifier,
		metrics:      metrics,
		idGenerator:  idGenerator,
		now:          now,
		logger:       defaultLogger(logger),
	}
}

func validateSlot(vErr *ValidationError, date, timeLabel string) {
	if date == "" {
		vErr.add("date", "date is required")
	} else if !validDate(date) {
		vErr.add("date", "date is invalid")
	}
	if timeLabel == "" {
		vErr.add("time", "time is required")
	} else if !validTimeLabel(timeLabel) {
		vErr.add("time", "time is invalid")
	} else if !slotExists(timeLabel) {
		vErr.add("time", "time is not a bookable slot")
	}
}

func slotExists(timeLabel string) bool {
	for _, slot := range calendar.Slots() {
		if slot == timeLabel {
			return true
		}
	}
	return false
}

// CreateReservation validates input and claims the slot. The uniqueness of a
// (date, time) pair is enforced by the repository in a single atomic write, so
// two racing calls for the same slot resolve to one success and one ErrConflict.
func (s *ReservationService) CreateReservation(ctx context.Context, input ReservationInput) (Reservation, error) {
	if s == nil || s.reservations == nil {
		return Reservation{}, fmt.Errorf("reservation repository not configured")
	}

	name := strings.TrimSpace(input.EmployeeName)
	email := strings.TrimSpace(input.EmployeeEmail)

	vErr := &ValidationError{}
	validateSlot(vErr, input.Date, input.Time)
	if name == "" {
		vErr.add("employee_name", "employee name is required")
	}
	if email == "" {
		vErr.add("employee_email", "employee email is required")
	} else if !validEmail(email) {
		vErr.add("employee_email", "employee email is invalid")
	}
	if vErr.HasErrors() {
		return Reservation{}, vErr
	}

	reservation := Reservation{
		ID:            s.idGenerator(),
		Date:          input.Date,
		Time:          input.Time,
		EmployeeName:  name,
		EmployeeEmail: email,
		CreatedAt:     s.now(),
	}

	persisted, err := s.reservations.CreateReservation(ctx, reservation)
	if err != nil {
		err = mapRepositoryError(err)
		logger := serviceLogger(ctx, s.logger, "reservation", "create", "date", input.Date, "time", input.Time)
		if err == ErrConflict {
			s.metrics.SlotConflict()
			logger.InfoContext(ctx, "slot already reserved")
		} else {
			logger.ErrorContext(ctx, "reservation create failed", "kind", ErrorKind(err))
		}
		return Reservation{}, err
	}

	s.metrics.ReservationCreated()
	serviceLogger(ctx, s.logger, "reservation", "create").InfoContext(ctx, "reservation created",
		"reservation_id", persisted.ID, "date", persisted.Date, "time", persisted.Time)

	s.notifyAsync(ctx, persisted)
	return persisted, nil
}

// notifyAsync delivers the confirmation in the background. The booking has
// already committed, so the caller's request context must not cancel delivery.
func (s *ReservationService) notifyAsync(ctx context.Context, reservation Reservation) {
	if s.notifier == nil {
		if s.notifyDone != nil {
			s.notifyDone <- struct{}{}
		}
		return
	}

	detached := context.WithoutCancel(ctx)
	go func() {
		if err := s.notifier.NotifyReservation(detached, reservation); err != nil {
			s.metrics.NotifierFailure()
			serviceLogger(detached, s.logger, "reservation", "notify").WarnContext(detached,
				"confirmation delivery failed", "reservation_id", reservation.ID, "error", err)
		}
		if s.notifyDone != nil {
			s.notifyDone <- struct{}{}
		}
	}()
}

// GetReservation loads a single reservation by id.
func (s *ReservationService) GetReservation(ctx context.Context, id string) (Reservation, error) {
	if s == nil || s.reservations == nil {
		return Reservation{}, fmt.Errorf("reservation repository not configured")
	}

	reservation, err := s.reservations.GetReservation(ctx, id)
	if err != nil {
		return Reservation{}, mapRepositoryError(err)
	}
	return reservation, nil
}

// UpdateReservation merges the supplied fields and rewrites the reservation.
// Moving onto an occupied slot fails with ErrConflict; rewriting the details
// of the reservation's own slot succeeds.
func (s *ReservationService) UpdateReservation(ctx context.Context, id string, patch ReservationPatch) (Reservation, error) {
	if s == nil || s.reservations == nil {
		return Reservation{}, fmt.Errorf("reservation repository not configured")
	}

	existing, err := s.reservations.GetReservation(ctx, id)
	if err != nil {
		return Reservation{}, mapRepositoryError(err)
	}

	updated := existing
	if patch.Date != nil {
		updated.Date = *patch.Date
	}
	if patch.Time != nil {
		updated.Time = *patch.Time
	}
	if patch.EmployeeName != nil {
		updated.EmployeeName = strings.TrimSpace(*patch.EmployeeName)
	}
	if patch.EmployeeEmail != nil {
		updated.EmployeeEmail = strings.TrimSpace(*patch.EmployeeEmail)
	}

	vErr := &ValidationError{}
	validateSlot(vErr, updated.Date, updated.Time)
	if updated.EmployeeName == "" {
		vErr.add("employee_name", "employee name is required")
	}
	if !validEmail(updated.EmployeeEmail) {
		vErr.add("employee_email", "employee email is invalid")
	}
	if vErr.HasErrors() {
		return Reservation{}, vErr
	}

	changed := s.now()
	updated.UpdatedAt = &changed

	persisted, err := s.reservations.UpdateReservation(ctx, updated)
	if err != nil {
		err = mapRepositoryError(err)
		if err == ErrConflict {
			s.metrics.SlotConflict()
		}
		return Reservation{}, err
	}
	return persisted, nil
}

// ListReservations returns every reservation ordered by date then time.
func (s *ReservationService) ListReservations(ctx context.Context) ([]Reservation, error) {
	if s == nil || s.reservations == nil {
		return nil, fmt.Errorf("reservation repository not configured")
	}

	reservations, err := s.reservations.ListReservations(ctx)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return reservations, nil
}

// DeleteReservation cancels a reservation, freeing its slot for rebooking.
func (s *ReservationService) DeleteReservation(ctx context.Context, id string) error {
	if s == nil || s.reservations == nil {
		return fmt.Errorf("reservation repository not configured")
	}

	if err := s.reservations.DeleteReservation(ctx, id); err != nil {
		return mapRepositoryError(err)
	}
	serviceLogger(ctx, s.logger, "reservation", "delete").InfoContext(ctx, "reservation cancelled", "reservation_id", id)
	return nil
}
