package get_slots_week

import (
	"net/http"
	"strings"

	"github.com/m04kA/SMC-ClinicScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicScheduler/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicScheduler/internal/domain"
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

// Handle GET /api/v1/slots/week
// Query params: department, dates (через запятую, лишние сверх 14 отбрасываются)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	department := strings.TrimSpace(query.Get("department"))
	dates := parseDates(query.Get("dates"))

	if department == "" || len(dates) == 0 {
		handlers.RespondJSON(w, http.StatusOK, []*handlers.AvailabilityResponse{})
		return
	}
	if len(dates) > domain.MaxBatchDates {
		h.logger.Warn("GET /slots/week - Truncating %d dates to %d", len(dates), domain.MaxBatchDates)
		dates = dates[:domain.MaxBatchDates]
	}

	userID, _ := middleware.GetUserID(r.Context())
	results, err := h.useCase.ExecuteBatch(r.Context(), &getAvailability.BatchRequest{
		Department: department,
		Dates:      dates,
		UserID:     userID,
	})
	if err != nil {
		h.logger.Error("GET /slots/week - Failed to compute availability: department=%q, error=%v", department, err)
		handlers.RespondError(w, http.StatusInternalServerError, msgFailed)
		return
	}

	response := make([]*handlers.AvailabilityResponse, len(results))
	for i, res := range results {
		response[i] = handlers.FromAvailability(res)
	}
	handlers.RespondJSON(w, http.StatusOK, response)
}

func parseDates(raw string) []string {
	var out []string
	for _, d := range strings.Split(raw, ",") {
		if d = strings.TrimSpace(d); d != "" {
			out = append(out, d)
		}
	}
	return out
}
