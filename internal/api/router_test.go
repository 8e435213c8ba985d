package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicScheduler/internal/api/handlers"
	cancelReservationHandler "github.com/m04kA/SMC-ClinicScheduler/internal/api/handlers/cancel_reservation"
	createReservationHandler "github.com/m04kA/SMC-ClinicScheduler/internal/api/handlers/create_reservation"
	getSlotsHandler "github.com/m04kA/SMC-ClinicScheduler/internal/api/handlers/get_slots"
	getSlotsWeekHandler "github.com/m04kA/SMC-ClinicScheduler/internal/api/handlers/get_slots_week"
	healthHandler "github.com/m04kA/SMC-ClinicScheduler/internal/api/handlers/health"
	listReservationsHandler "github.com/m04kA/SMC-ClinicScheduler/internal/api/handlers/list_reservations"
	"github.com/m04kA/SMC-ClinicScheduler/internal/calendar"
	"github.com/m04kA/SMC-ClinicScheduler/internal/domain"
	"github.com/m04kA/SMC-ClinicScheduler/internal/infra/storage/memory"
	"github.com/m04kA/SMC-ClinicScheduler/internal/service/reservations"
	createReservationUC "github.com/m04kA/SMC-ClinicScheduler/internal/usecase/create_reservation"
	getAvailabilityUC "github.com/m04kA/SMC-ClinicScheduler/internal/usecase/get_availability"
	"github.com/m04kA/SMC-ClinicScheduler/pkg/logger"
	"github.com/m04kA/SMC-ClinicScheduler/pkg/metrics"
	"github.com/m04kA/SMC-ClinicScheduler/pkg/slotlock"
)

func newServer(t *testing.T) (*httptest.Server, *memory.Store) {
	t.Helper()
	log := logger.NewNop()
	store := memory.NewStore()

	require.NoError(t, store.Physicians().Upsert(context.Background(), &domain.Physician{
		ID: "doc_1", Name: "田中", Department: "循環器内科",
		Schedule: domain.NewWeekdaySchedule(map[domain.Weekday][]string{domain.Monday: {"09:00", "09:15"}}),
	}, 0))

	avail := getAvailabilityUC.NewUseCase(store.Physicians(), store.Claims(), store.Reservations(),
		getAvailabilityUC.Config{}, time.Local, log)
	create := createReservationUC.NewUseCase(store.Physicians(), store.Claims(), store.Reservations(),
		slotlock.NewLocal(), nil, createReservationUC.Config{LockTimeout: time.Second}, time.Local, log)
	svc := reservations.NewService(store.Reservations(), store.Claims(), log)

	reg := prometheus.NewRegistry()
	router := NewRouter(Handlers{
		GetSlots:          getSlotsHandler.NewHandler(avail, log),
		GetSlotsWeek:      getSlotsWeekHandler.NewHandler(avail, log),
		CreateReservation: createReservationHandler.NewHandler(create, log),
		CancelReservation: cancelReservationHandler.NewHandler(svc, log),
		ListReservations:  listReservationsHandler.NewHandler(svc, log),
		Health:            healthHandler.NewHandler(nil, nil),
	}, Options{
		Metrics:     metrics.New("test", reg),
		MetricsPath: "/metrics",
		MetricsHTTP: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, store
}

func nextMonday(t *testing.T) string {
	t.Helper()
	d := time.Now().AddDate(0, 0, 7)
	for i := 0; i < 60; i++ {
		day := d.AddDate(0, 0, i)
		s := day.Format(domain.DateFormat)
		if day.Weekday() == time.Monday && !calendar.IsHoliday(s) {
			return s
		}
	}
	t.Fatal("no working monday found")
	return ""
}

func slotsURL(base, path string, params map[string]string) string {
	q := url.Values{}
	for k, v := range params {
		q.Set(k, v)
	}
	return base + path + "?" + q.Encode()
}

func do(t *testing.T, method, url, userID string, body interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, dst interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
}

func TestReservationFlow(t *testing.T) {
	srv, store := newServer(t)
	date := nextMonday(t)
	department := "循環器内科"

	body := map[string]string{"department": department, "date": date, "time": "09:00", "purpose": "定期検診"}

	resp := do(t, http.MethodPost, srv.URL+"/api/v1/reservations", "u1", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created createReservationHandler.ReservationCreatedResponse
	decode(t, resp, &created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "09:00", created.Time)

	// единственный врач занят
	resp = do(t, http.MethodPost, srv.URL+"/api/v1/reservations", "u2", body)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// повтор того же пользователя
	resp = do(t, http.MethodPost, srv.URL+"/api/v1/reservations", "u1", body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodGet, slotsURL(srv.URL, "/api/v1/slots", map[string]string{"department": department, "date": date}), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var day handlers.AvailabilityResponse
	decode(t, resp, &day)
	assert.True(t, day.Reservable)
	assert.Nil(t, day.Reason)
	assert.False(t, day.Slots[0].Reservable)
	assert.True(t, day.Slots[1].Reservable)

	resp = do(t, http.MethodGet, srv.URL+"/api/v1/reservations", "u1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []listReservationsHandler.ReservationResponse
	decode(t, resp, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "田中", list[0].PhysicianName)

	resp = do(t, http.MethodGet, srv.URL+"/api/v1/reservations/"+created.ID, "u2", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, http.MethodDelete, srv.URL+"/api/v1/reservations/"+created.ID, "u1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cancelled cancelReservationHandler.CancelReservationResponse
	decode(t, resp, &cancelled)
	assert.Equal(t, cancelReservationHandler.CancelReservationResponse{OK: true, ID: created.ID}, cancelled)
	assert.Equal(t, 0, store.Claims().Len())

	resp = do(t, http.MethodDelete, srv.URL+"/api/v1/reservations/"+created.ID, "u1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateReservation_Errors(t *testing.T) {
	srv, _ := newServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/api/v1/reservations", "", map[string]string{})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = do(t, http.MethodPost, srv.URL+"/api/v1/reservations", "u1", map[string]string{"department": "循環器内科"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodPost, srv.URL+"/api/v1/reservations", "u1", map[string]string{"unknown": "x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodPost, srv.URL+"/api/v1/reservations", "u1",
		map[string]string{"department": "循環器内科", "date": "2000-01-03", "time": "09:00"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var errResp handlers.ErrorResponse
	decode(t, resp, &errResp)
	assert.Equal(t, http.StatusBadRequest, errResp.Code)
	assert.NotEmpty(t, errResp.Message)
}

func TestSlotsWeek(t *testing.T) {
	srv, _ := newServer(t)
	monday := nextMonday(t)

	dates := make([]string, 0, 20)
	start, err := time.Parse(domain.DateFormat, monday)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		dates = append(dates, start.AddDate(0, 0, i).Format(domain.DateFormat))
	}
	dates = append(dates, "2000-01-01")

	resp := do(t, http.MethodGet, slotsURL(srv.URL, "/api/v1/slots/week", map[string]string{"department": "循環器内科", "dates": strings.Join(dates, ",")}), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var week []handlers.AvailabilityResponse
	decode(t, resp, &week)
	require.Len(t, week, domain.MaxBatchDates)
	assert.Equal(t, monday, week[0].Date)
	assert.True(t, week[0].Reservable)

	resp = do(t, http.MethodGet, slotsURL(srv.URL, "/api/v1/slots/week", map[string]string{"department": "", "dates": monday}), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &week)
	assert.Empty(t, week)
}

func TestSlots_PastAndClosed(t *testing.T) {
	srv, _ := newServer(t)

	resp := do(t, http.MethodGet, slotsURL(srv.URL, "/api/v1/slots", map[string]string{"department": "循環器内科", "date": "2000-01-03"}), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var day handlers.AvailabilityResponse
	decode(t, resp, &day)
	require.NotNil(t, day.Reason)
	assert.Equal(t, "past", *day.Reason)
	assert.Len(t, day.Slots, 32)

	resp = do(t, http.MethodGet, slotsURL(srv.URL, "/api/v1/slots", map[string]string{"department": "", "date": "2030-01-07"}), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &day)
	require.NotNil(t, day.Reason)
	assert.Equal(t, "closed", *day.Reason)
}

func TestHealthAndMetrics(t *testing.T) {
	srv, _ := newServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var buf bytes.Buffer
	_, err := buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `http_requests_total{method="GET",route="/health",service="test",status="200"} 1`)
}
