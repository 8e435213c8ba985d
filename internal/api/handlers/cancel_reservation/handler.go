package cancel_reservation

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ClinicScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicScheduler/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicScheduler/internal/service/reservations"
)

const (
	msgUnauthorized         = "требуется авторизация"
	msgMissingReservationID = "ID записи обязателен"
	msgNotFound             = "запись не найдена"
	msgCancelFailed         = "не удалось отменить запись"
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

// Handle DELETE /api/v1/reservations/{reservationId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	reservationID := strings.TrimSpace(mux.Vars(r)["reservationId"])
	if reservationID == "" {
		handlers.RespondBadRequest(w, msgMissingReservationID)
		return
	}

	if err := h.service.Cancel(r.Context(), userID, reservationID); err != nil {
		switch {
		case errors.Is(err, reservations.ErrReservationNotFound):
			h.logger.Warn("DELETE /reservations/{id} - Not found: id=%s, user_id=%s", reservationID, userID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, reservations.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgMissingReservationID)

		default:
			h.logger.Error("DELETE /reservations/{id} - Failed to cancel: id=%s, user_id=%s, error=%v",
				reservationID, userID, err)
			handlers.RespondError(w, http.StatusInternalServerError, msgCancelFailed)
		}
		return
	}

	h.logger.Info("DELETE /reservations/{id} - Reservation cancelled: id=%s, user_id=%s", reservationID, userID)
	handlers.RespondJSON(w, http.StatusOK, &CancelReservationResponse{OK: true, ID: reservationID})
}
