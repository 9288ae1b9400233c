package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/interview-scheduler/internal/application"
)

type reservationService interface {
	CreateReservation(ctx context.Context, input application.ReservationInput) (application.Reservation, error)
	GetReservation(ctx context.Context, id string) (application.Reservation, error)
	UpdateReservation(ctx context.Context, id string, patch application.ReservationPatch) (application.Reservation, error)
	ListReservations(ctx context.Context) ([]application.Reservation, error)
	DeleteReservation(ctx context.Context, id string) error
}

// ReservationHandler exposes the interview booking endpoints.
type ReservationHandler struct {
	service   reservationService
	responder responder
	logger    *slog.Logger
}

func NewReservationHandler(service reservationService, logger *slog.Logger) *ReservationHandler {
	base := defaultLogger(logger)
	return &ReservationHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *ReservationHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ReservationHandler", operation, attrs...)
}

// List returns every reservation ordered by date then time.
func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	reservations, err := h.service.ListReservations(r.Context())
	if err != nil {
		h.log(r.Context(), "List").ErrorContext(r.Context(), "failed to list reservations", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	payload := make([]reservationResponse, 0, len(reservations))
	for _, reservation := range reservations {
		payload = append(payload, toReservationResponse(reservation))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, payload)
}

// Create books an interview slot. A taken slot responds 409.
func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req reservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	created, err := h.service.CreateReservation(r.Context(), application.ReservationInput{
		Date:          req.Date,
		Time:          req.Time,
		EmployeeName:  req.EmployeeName,
		EmployeeEmail: req.EmployeeEmail,
	})
	if err != nil {
		h.log(r.Context(), "Create", "date", req.Date, "time", req.Time).WarnContext(r.Context(), "booking rejected", "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toReservationResponse(created))
}

// Get returns one reservation by id.
func (h *ReservationHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := ResourceIDFromContext(r.Context())
	if !ok || id == "" {
		http.NotFound(w, r)
		return
	}

	reservation, err := h.service.GetReservation(r.Context(), id)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toReservationResponse(reservation))
}

// Update reschedules or corrects a reservation.
func (h *ReservationHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := ResourceIDFromContext(r.Context())
	if !ok || id == "" {
		http.NotFound(w, r)
		return
	}

	var req reservationPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	updated, err := h.service.UpdateReservation(r.Context(), id, application.ReservationPatch{
		Date:          req.Date,
		Time:          req.Time,
		EmployeeName:  req.EmployeeName,
		EmployeeEmail: req.EmployeeEmail,
	})
	if err != nil {
		h.log(r.Context(), "Update", "reservation_id", id).WarnContext(r.Context(), "reschedule rejected", "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toReservationResponse(updated))
}

// Delete cancels a reservation, freeing its slot.
func (h *ReservationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := ResourceIDFromContext(r.Context())
	if !ok || id == "" {
		http.NotFound(w, r)
		return
	}

	if err := h.service.DeleteReservation(r.Context(), id); err != nil {
		h.log(r.Context(), "Delete", "reservation_id", id).ErrorContext(r.Context(), "failed to cancel reservation", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type reservationRequest struct {
	Date          string `json:"date"`
	Time          string `json:"time"`
	EmployeeName  string `json:"employee_name"`
	EmployeeEmail string `json:"employee_email"`
}

type reservationPatchRequest struct {
	Date          *string `json:"date"`
	Time          *string `json:"time"`
	EmployeeName  *string `json:"employee_name"`
	EmployeeEmail *string `json:"employee_email"`
}

type reservationResponse struct {
	ID            string `json:"id"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	EmployeeName  string `json:"employee_name"`
	EmployeeEmail string `json:"employee_email"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at,omitempty"`
}

func toReservationResponse(reservation application.Reservation) reservationResponse {
	resp := reservationResponse{
		ID:            reservation.ID,
		Date:          reservation.Date,
		Time:          reservation.Time,
		EmployeeName:  reservation.EmployeeName,
		EmployeeEmail: reservation.EmployeeEmail,
		CreatedAt:     reservation.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	if reservation.UpdatedAt != nil {
		resp.UpdatedAt = reservation.UpdatedAt.UTC().Format(time.RFC3339Nano)
	}
	return resp
}
