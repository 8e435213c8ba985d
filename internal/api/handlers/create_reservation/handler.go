package create_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ClinicScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicScheduler/internal/api/middleware"
	createReservation "github.com/m04kA/SMC-ClinicScheduler/internal/usecase/create_reservation"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgUnauthorized       = "требуется авторизация"
	msgMissingFields      = "отделение, дата и время обязательны"
	msgInvalidInput       = "некорректная дата или время, ожидается YYYY-MM-DD и HH:MM по сетке 15 минут"
	msgPastDate           = "нельзя записаться на прошедшую дату"
	msgHoliday            = "в праздничный день прием не ведется"
	msgTimeElapsed        = "выбранное время уже прошло"
	msgAlreadyReserved    = "у вас уже есть запись на это время"
	msgNoAvailability     = "на выбранное время нет свободных врачей"
	msgContention         = "слот сейчас занят другим запросом, повторите через несколько секунд"
	msgCreateFailed       = "не удалось сохранить запись"
)

type Handler struct {
	useCase CreateReservationUseCase
	logger  Logger
}

func NewHandler(useCase CreateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(userID))
	if err != nil {
		switch {
		case errors.Is(err, createReservation.ErrUserRequired):
			handlers.RespondUnauthorized(w, msgUnauthorized)

		case errors.Is(err, createReservation.ErrMissingFields):
			handlers.RespondBadRequest(w, msgMissingFields)

		case errors.Is(err, createReservation.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createReservation.ErrPastDate):
			handlers.RespondBadRequest(w, msgPastDate)

		case errors.Is(err, createReservation.ErrHoliday):
			handlers.RespondBadRequest(w, msgHoliday)

		case errors.Is(err, createReservation.ErrTimeElapsed):
			handlers.RespondBadRequest(w, msgTimeElapsed)

		case errors.Is(err, createReservation.ErrAlreadyReserved):
			handlers.RespondBadRequest(w, msgAlreadyReserved)

		case errors.Is(err, createReservation.ErrNoAvailability):
			h.logger.Warn("POST /reservations - No availability: user_id=%s, department=%q, date=%s, time=%s",
				userID, req.Department, req.Date, req.Time)
			handlers.RespondConflict(w, msgNoAvailability)

		case errors.Is(err, createReservation.ErrContentionTimeout):
			h.logger.Warn("POST /reservations - Lock contention: user_id=%s, department=%q, date=%s, time=%s",
				userID, req.Department, req.Date, req.Time)
			handlers.RespondServiceUnavailable(w, msgContention)

		default:
			h.logger.Error("POST /reservations - Failed to create reservation: user_id=%s, error=%v", userID, err)
			handlers.RespondError(w, http.StatusInternalServerError, msgCreateFailed)
		}
		return
	}

	h.logger.Info("POST /reservations - Reservation created: id=%s, user_id=%s", result.ID, userID)
	handlers.RespondJSON(w, http.StatusCreated, FromDomain(result))
}
