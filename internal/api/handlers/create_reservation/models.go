package create_reservation

import (
	"github.com/m04kA/SMC-ClinicScheduler/internal/domain"
	createReservation "github.com/m04kA/SMC-ClinicScheduler/internal/usecase/create_reservation"
)

// CreateReservationRequest HTTP request model
// Врач назначается сервисом, клиент его не выбирает
type CreateReservationRequest struct {
	Department string `json:"department"`
	Date       string `json:"date"` // "2026-03-09"
	Time       string `json:"time"` // "09:15"
	Purpose    string `json:"purpose,omitempty"`
}

// ReservationCreatedResponse HTTP response model
type ReservationCreatedResponse struct {
	ID         string `json:"id"`
	Department string `json:"department"`
	Date       string `json:"date"`
	Time       string `json:"time"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateReservationRequest) ToUseCaseRequest(userID string) *createReservation.Request {
	return &createReservation.Request{
		UserID:     userID,
		Department: r.Department,
		Date:       r.Date,
		Time:       r.Time,
		Purpose:    r.Purpose,
	}
}

// FromDomain конвертирует запись в HTTP response
func FromDomain(res *domain.Reservation) *ReservationCreatedResponse {
	return &ReservationCreatedResponse{
		ID:         res.ID,
		Department: res.Department,
		Date:       res.Date,
		Time:       res.Time.String(),
	}
}
