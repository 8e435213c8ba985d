package get_slots

import (
	"net/http"
	"strings"

	"github.com/m04kA/SMC-ClinicScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicScheduler/internal/api/middleware"
	getAvailability "github.com/m04kA/SMC-ClinicScheduler/internal/usecase/get_availability"
)

const msgFailed = "не удалось получить свободные слоты"

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/slots
// Query params: department, date (YYYY-MM-DD)
// Пустое отделение или некорректная дата дают закрытый день, а не 400
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	userID, _ := middleware.GetUserID(r.Context())

	req := &getAvailability.Request{
		Department: strings.TrimSpace(query.Get("department")),
		Date:       strings.TrimSpace(query.Get("date")),
		UserID:     userID,
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		h.logger.Error("GET /slots - Failed to compute availability: department=%q, date=%q, error=%v",
			req.Department, req.Date, err)
		handlers.RespondError(w, http.StatusInternalServerError, msgFailed)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, handlers.FromAvailability(result))
}
