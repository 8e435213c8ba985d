package health

import (
	"context"
	"net/http"
	"time"

	"github.com/m04kA/SMC-ClinicScheduler/internal/api/handlers"
)

// Pinger проверка доступности хранилища
type Pinger interface {
	PingContext(ctx context.Context) error
}

// DirectoryState состояние защиты справочника врачей
type DirectoryState interface {
	State() string
}

// Response HTTP response model
type Response struct {
	Status    string `json:"status"`
	Database  string `json:"database,omitempty"`
	Directory string `json:"directory,omitempty"`
}

type Handler struct {
	db        Pinger
	directory DirectoryState
}

// NewHandler db и directory могут быть nil
func NewHandler(db Pinger, directory DirectoryState) *Handler {
	return &Handler{db: db, directory: directory}
}

// Handle GET /health
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	resp := &Response{Status: "ok"}
	status := http.StatusOK

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		resp.Database = "ok"
		if err := h.db.PingContext(ctx); err != nil {
			resp.Status = "degraded"
			resp.Database = "unavailable"
			status = http.StatusServiceUnavailable
		}
	}
	if h.directory != nil {
		resp.Directory = h.directory.State()
	}

	handlers.RespondJSON(w, status, resp)
}
