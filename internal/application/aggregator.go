package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/example/interview-scheduler/internal/calendar"
)

// DayEvents pairs a calendar date with its merged events.
type DayEvents struct {
	Date   string
	Events []Event
}

// SlotStatus reports whether a single bookable slot on a date is taken.
type SlotStatus struct {
	Time     string
	Reserved bool
}

// EventAggregator merges reservations and tasks into read-only calendar
// projections. It never writes; every view is recomputed from the stores on
// each call so a freshly booked slot is immediately visible.
type EventAggregator struct {
	reservations ReservationRepository
	tasks        TaskRepository
	now          func() time.Time
	logger       *slog.Logger
}

// NewEventAggregator wires dependencies for the aggregator.
func NewEventAggregator(reservations ReservationRepository, tasks TaskRepository, now func() time.Time, logger *slog.Logger) *EventAggregator {
	if now == nil {
		now = time.Now
	}
	return &EventAggregator{
		reservations: reservations,
		tasks:        tasks,
		now:          now,
		logger:       defaultLogger(logger),
	}
}

// EventsForDate returns the merged events of a single date: timed reservation
// events first in slot order, then task events in insertion order.
func (a *EventAggregator) EventsForDate(ctx context.Context, date string) ([]Event, error) {
	if a == nil || a.reservations == nil || a.tasks == nil {
		return nil, fmt.Errorf("aggregator stores not configured")
	}
	day, err := calendar.ParseDate(date)
	if err != nil {
		vErr := &ValidationError{}
		vErr.add("date", "date is invalid")
		return nil, vErr
	}

	reservations, err := a.reservations.ListReservations(ctx)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	tasks, err := a.tasks.ListTasks(ctx, TaskFilter{Year: day.Year(), Month: day.Month()})
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	events := make([]Event, 0, len(reservations)+len(tasks))
	for _, r := range reservations {
		if r.Date == date {
			events = append(events, reservationEvent(r))
		}
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].Time < events[j].Time })

	for _, t := range tasks {
		if t.DueDate == date {
			events = append(events, taskEvent(t))
		}
	}
	return events, nil
}

// WeekSummary returns seven DayEvents starting from the Monday of the week
// containing the given date. Within a day the events are ordered by time
// string, so untimed task events come before the timed reservations.
func (a *EventAggregator) WeekSummary(ctx context.Context, date string) ([]DayEvents, error) {
	if a == nil || a.reservations == nil || a.tasks == nil {
		return nil, fmt.Errorf("aggregator stores not configured")
	}
	day, err := calendar.ParseDate(date)
	if err != nil {
		vErr := &ValidationError{}
		vErr.add("date", "date is invalid")
		return nil, vErr
	}

	week := make([]DayEvents, 0, 7)
	start := calendar.StartOfWeek(day)
	for i := 0; i < 7; i++ {
		key := start.AddDate(0, 0, i).Format(calendar.DateLayout)
		events, err := a.EventsForDate(ctx, key)
		if err != nil {
			return nil, err
		}
		sort.SliceStable(events, func(i, j int) bool { return events[i].Time < events[j].Time })
		week = append(week, DayEvents{Date: key, Events: events})
	}
	return week, nil
}

// MonthItems returns the task-list view of a month: tasks plus reservations
// projected into task shape. Upcoming items come first in due date order;
// items whose date has passed keep their relative order at the bottom.
func (a *EventAggregator) MonthItems(ctx context.Context, year int, month time.Month) ([]MonthItem, error) {
	if a == nil || a.reservations == nil || a.tasks == nil {
		return nil, fmt.Errorf("aggregator stores not configured")
	}

	tasks, err := a.tasks.ListTasks(ctx, TaskFilter{Year: year, Month: month})
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	reservations, err := a.reservations.ListReservations(ctx)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	items := make([]MonthItem, 0, len(tasks)+len(reservations))
	for _, t := range tasks {
		items = append(items, MonthItem{
			ID:             t.ID,
			Title:          t.Title,
			Description:    t.Description,
			Classification: t.Classification,
			DueDate:        t.DueDate,
			Kind:           EventKindTask,
		})
	}
	monthPrefix := fmt.Sprintf("%04d-%02d-", year, int(month))
	for _, r := range reservations {
		if len(r.Date) < len(monthPrefix) || r.Date[:len(monthPrefix)] != monthPrefix {
			continue
		}
		items = append(items, MonthItem{
			ID:             r.ID,
			Title:          ClassificationInterview,
			Description:    fmt.Sprintf("%s %s", r.Time, r.EmployeeName),
			Classification: ClassificationInterview,
			DueDate:        r.Date,
			Kind:           EventKindReservation,
		})
	}

	// Date keys sort lexicographically, so a plain string compare marks
	// everything strictly before today as past. Today's items stay upcoming.
	today := a.now().Format(calendar.DateLayout)
	for i := range items {
		items[i].Past = items[i].DueDate < today
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Past != items[j].Past {
			return !items[i].Past
		}
		return items[i].DueDate < items[j].DueDate
	})
	return items, nil
}

// SlotBoard returns the reservation status of every bookable slot on a date,
// in slot order.
func (a *EventAggregator) SlotBoard(ctx context.Context, date string) ([]SlotStatus, error) {
	if a == nil || a.reservations == nil {
		return nil, fmt.Errorf("aggregator stores not configured")
	}
	if !validDate(date) {
		vErr := &ValidationError{}
		vErr.add("date", "date is invalid")
		return nil, vErr
	}

	board := make([]SlotStatus, 0, 5)
	for _, slot := range calendar.Slots() {
		reserved, err := a.IsSlotReserved(ctx, date, slot)
		if err != nil {
			return nil, err
		}
		board = append(board, SlotStatus{Time: slot, Reserved: reserved})
	}
	return board, nil
}

// IsSlotReserved reports whether the slot on the given date is already booked.
func (a *EventAggregator) IsSlotReserved(ctx context.Context, date, timeLabel string) (bool, error) {
	if a == nil || a.reservations == nil {
		return false, fmt.Errorf("aggregator stores not configured")
	}

	_, err := a.reservations.FindBySlot(ctx, date, timeLabel)
	if err == nil {
		return true, nil
	}
	mapped := mapRepositoryError(err)
	if errors.Is(mapped, ErrNotFound) {
		return false, nil
	}
	return false, mapped
}

func reservationEvent(r Reservation) Event {
	return Event{
		ID:             r.ID,
		Date:           r.Date,
		Time:           r.Time,
		Title:          ClassificationInterview,
		Kind:           EventKindReservation,
		Classification: ClassificationInterview,
		Description:    r.EmployeeName,
	}
}

func taskEvent(t Task) Event {
	return Event{
		ID:             t.ID,
		Date:           t.DueDate,
		Title:          t.Title,
		Kind:           EventKindTask,
		Classification: t.Classification,
		Description:    t.Description,
	}
}
