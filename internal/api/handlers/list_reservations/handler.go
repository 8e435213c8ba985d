package list_reservations

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ClinicScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicScheduler/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicScheduler/internal/service/reservations"
)

const (
	msgUnauthorized = "требуется авторизация"
	msgNotFound     = "запись не найдена"
)

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	list, err := h.service.ListByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("GET /reservations - Failed to list reservations: user_id=%s, error=%v", userID, err)
		handlers.RespondInternalError(w)
		return
	}

	response := make([]*ReservationResponse, len(list))
	for i, res := range list {
		response[i] = FromDomain(res)
	}
	handlers.RespondJSON(w, http.StatusOK, response)
}

// HandleGet GET /api/v1/reservations/{reservationId}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	reservationID := mux.Vars(r)["reservationId"]
	res, err := h.service.GetByID(r.Context(), userID, reservationID)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrReservationNotFound), errors.Is(err, reservations.ErrInvalidInput):
			handlers.RespondNotFound(w, msgNotFound)
		default:
			h.logger.Error("GET /reservations/{id} - Failed to get reservation: id=%s, error=%v", reservationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomain(res))
}
