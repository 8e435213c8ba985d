package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelReservationHandler "github.com/m04kA/SMC-ClinicScheduler/internal/api/handlers/cancel_reservation"
	createReservationHandler "github.com/m04kA/SMC-ClinicScheduler/internal/api/handlers/create_reservation"
	getSlotsHandler "github.com/m04kA/SMC-ClinicScheduler/internal/api/handlers/get_slots"
	getSlotsWeekHandler "github.com/m04kA/SMC-ClinicScheduler/internal/api/handlers/get_slots_week"
	healthHandler "github.com/m04kA/SMC-ClinicScheduler/internal/api/handlers/health"
	listReservationsHandler "github.com/m04kA/SMC-ClinicScheduler/internal/api/handlers/list_reservations"
	"github.com/m04kA/SMC-ClinicScheduler/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicScheduler/pkg/metrics"
)

// Handlers обработчики маршрутов
type Handlers struct {
	GetSlots          *getSlotsHandler.Handler
	GetSlotsWeek      *getSlotsWeekHandler.Handler
	CreateReservation *createReservationHandler.Handler
	CancelReservation *cancelReservationHandler.Handler
	ListReservations  *listReservationsHandler.Handler
	Health            *healthHandler.Handler
}

// Options необязательные части роутера
type Options struct {
	// nil - без метрик
	Metrics     *metrics.Metrics
	MetricsPath string
	// Обработчик метрик, по умолчанию promhttp.Handler()
	MetricsHTTP http.Handler
	// nil - без ограничения
	RateLimiter *middleware.RateLimiter
}

// NewRouter собирает HTTP роутер
func NewRouter(h Handlers, opts Options) *mux.Router {
	r := mux.NewRouter()

	if opts.Metrics != nil {
		r.Use(middleware.MetricsMiddleware(opts.Metrics))

		metricsHandler := opts.MetricsHTTP
		if metricsHandler == nil {
			metricsHandler = promhttp.Handler()
		}
		r.Handle(opts.MetricsPath, metricsHandler).Methods(http.MethodGet)
	}

	r.HandleFunc("/health", h.Health.Handle).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	if opts.RateLimiter != nil {
		api.Use(opts.RateLimiter.Middleware)
	}

	// ============================================================
	// PUBLIC ROUTES (X-User-ID необязателен, скрывает собственные записи)
	// ============================================================

	public := api.PathPrefix("").Subrouter()
	public.Use(middleware.OptionalAuth)

	public.HandleFunc("/slots", h.GetSlots.Handle).Methods(http.MethodGet)
	public.HandleFunc("/slots/week", h.GetSlotsWeek.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	protected.HandleFunc("/reservations", h.CreateReservation.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/reservations", h.ListReservations.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/{reservationId}", h.ListReservations.HandleGet).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/{reservationId}", h.CancelReservation.Handle).Methods(http.MethodDelete)

	return r
}
