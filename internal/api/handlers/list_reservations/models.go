package list_reservations

import (
	"time"

	"github.com/m04kA/SMC-ClinicScheduler/internal/domain"
)

// ReservationResponse HTTP response model
// Идентификатор врача наружу не отдается
type ReservationResponse struct {
	ID            string `json:"id"`
	Department    string `json:"department"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	PhysicianName string `json:"physicianName"`
	Purpose       string `json:"purpose,omitempty"`
	CreatedAt     string `json:"createdAt"`
}

// FromDomain конвертирует запись в HTTP response
func FromDomain(r *domain.Reservation) *ReservationResponse {
	return &ReservationResponse{
		ID:            r.ID,
		Department:    r.Department,
		Date:          r.Date,
		Time:          r.Time.String(),
		PhysicianName: r.PhysicianName,
		Purpose:       r.Purpose,
		CreatedAt:     r.CreatedAt.Format(time.RFC3339),
	}
}
