package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/example/interview-scheduler/internal/application"
	"github.com/example/interview-scheduler/internal/calendar"
)

type eventAggregator interface {
	EventsForDate(ctx context.Context, date string) ([]application.Event, error)
	WeekSummary(ctx context.Context, date string) ([]application.DayEvents, error)
	MonthItems(ctx context.Context, year int, month time.Month) ([]application.MonthItem, error)
	SlotBoard(ctx context.Context, date string) ([]application.SlotStatus, error)
}

// CalendarHandler exposes the read-only calendar projections.
type CalendarHandler struct {
	aggregator eventAggregator
	responder  responder
	logger     *slog.Logger
}

func NewCalendarHandler(aggregator eventAggregator, logger *slog.Logger) *CalendarHandler {
	base := defaultLogger(logger)
	return &CalendarHandler{aggregator: aggregator, responder: newResponder(base), logger: base}
}

func (h *CalendarHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "CalendarHandler", operation, attrs...)
}

// Month returns the Monday-start month grid and the month's business days.
func (h *CalendarHandler) Month(w http.ResponseWriter, r *http.Request) {
	if h == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	year, month, err := yearMonthFromQuery(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	grid := calendar.MonthGrid(year, month)
	weeks := make([][]monthCell, 0, len(grid))
	for _, week := range grid {
		cells := make([]monthCell, 0, len(week))
		for _, cell := range week {
			cells = append(cells, monthCell{Day: cell.Day, Date: cell.DateKey, Empty: cell.Empty})
		}
		weeks = append(weeks, cells)
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, monthResponse{
		Year:     year,
		Month:    int(month),
		Weeks:    weeks,
		Weekdays: calendar.Weekdays(year, month),
	})
}

// Week returns the events of the week containing the given date.
func (h *CalendarHandler) Week(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.aggregator == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	date := r.URL.Query().Get("date")
	week, err := h.aggregator.WeekSummary(r.Context(), date)
	if err != nil {
		h.log(r.Context(), "Week", "date", date).WarnContext(r.Context(), "week summary failed", "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	payload := make([]dayEventsResponse, 0, len(week))
	for _, day := range week {
		payload = append(payload, toDayEventsResponse(day))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, payload)
}

// Day returns the merged events of a single date.
func (h *CalendarHandler) Day(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.aggregator == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	date := r.URL.Query().Get("date")
	events, err := h.aggregator.EventsForDate(r.Context(), date)
	if err != nil {
		h.log(r.Context(), "Day", "date", date).WarnContext(r.Context(), "day view failed", "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	payload := make([]eventResponse, 0, len(events))
	for _, event := range events {
		payload = append(payload, toEventResponse(event))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, payload)
}

// Items returns the month's task list with reservations projected in.
func (h *CalendarHandler) Items(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.aggregator == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	year, month, err := yearMonthFromQuery(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	items, err := h.aggregator.MonthItems(r.Context(), year, month)
	if err != nil {
		h.log(r.Context(), "Items").ErrorContext(r.Context(), "month items failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	payload := make([]monthItemResponse, 0, len(items))
	for _, item := range items {
		payload = append(payload, monthItemResponse{
			ID:             item.ID,
			Title:          item.Title,
			Description:    item.Description,
			Classification: item.Classification,
			DueDate:        item.DueDate,
			Kind:           string(item.Kind),
			Past:           item.Past,
		})
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, payload)
}

// Slots returns the reservation status of each bookable slot on a date.
func (h *CalendarHandler) Slots(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.aggregator == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	date := r.URL.Query().Get("date")
	board, err := h.aggregator.SlotBoard(r.Context(), date)
	if err != nil {
		h.log(r.Context(), "Slots", "date", date).WarnContext(r.Context(), "slot board failed", "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	payload := make([]slotStatusResponse, 0, len(board))
	for _, status := range board {
		payload = append(payload, slotStatusResponse{Time: status.Time, Reserved: status.Reserved})
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, payload)
}

func yearMonthFromQuery(r *http.Request) (int, time.Month, error) {
	query := r.URL.Query()
	year, err := strconv.Atoi(query.Get("year"))
	if err != nil || year < 1 {
		return 0, 0, errInvalidYearMonth
	}
	month, err := strconv.Atoi(query.Get("month"))
	if err != nil || month < 1 || month > 12 {
		return 0, 0, errInvalidYearMonth
	}
	return year, time.Month(month), nil
}

type monthCell struct {
	Day   int    `json:"day,omitempty"`
	Date  string `json:"date,omitempty"`
	Empty bool   `json:"empty,omitempty"`
}

type monthResponse struct {
	Year     int           `json:"year"`
	Month    int           `json:"month"`
	Weeks    [][]monthCell `json:"weeks"`
	Weekdays []int         `json:"weekdays"`
}

type eventResponse struct {
	ID             string `json:"id"`
	Date           string `json:"date"`
	Time           string `json:"time,omitempty"`
	Title          string `json:"title"`
	Kind           string `json:"kind"`
	Classification string `json:"classification"`
	Description    string `json:"description,omitempty"`
}

func toEventResponse(event application.Event) eventResponse {
	return eventResponse{
		ID:             event.ID,
		Date:           event.Date,
		Time:           event.Time,
		Title:          event.Title,
		Kind:           string(event.Kind),
		Classification: event.Classification,
		Description:    event.Description,
	}
}

type dayEventsResponse struct {
	Date   string          `json:"date"`
	Events []eventResponse `json:"events"`
}

func toDayEventsResponse(day application.DayEvents) dayEventsResponse {
	events := make([]eventResponse, 0, len(day.Events))
	for _, event := range day.Events {
		events = append(events, toEventResponse(event))
	}
	return dayEventsResponse{Date: day.Date, Events: events}
}

type monthItemResponse struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	Classification string `json:"classification"`
	DueDate        string `json:"due_date"`
	Kind           string `json:"kind"`
	Past           bool   `json:"past"`
}

type slotStatusResponse struct {
	Time     string `json:"time"`
	Reserved bool   `json:"reserved"`
}
