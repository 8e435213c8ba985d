package handlers

import (
	"github.com/m04kA/SMC-ClinicScheduler/internal/domain"
	"github.com/m04kA/SMC-ClinicScheduler/pkg/ptr"
)

// SlotResponse слот в ответе доступности
type SlotResponse struct {
	Time       string `json:"time"`
	Reservable bool   `json:"reservable"`
}

// AvailabilityResponse доступность отделения на дату
// reason: "past", "holiday", "closed" или null
type AvailabilityResponse struct {
	Date       string         `json:"date"`
	IsHoliday  bool           `json:"is_holiday"`
	Reservable bool           `json:"reservable"`
	Reason     *string        `json:"reason"`
	Slots      []SlotResponse `json:"slots"`
}

// FromAvailability конвертирует доменный результат в HTTP модель
func FromAvailability(res *domain.AvailabilityResult) *AvailabilityResponse {
	out := &AvailabilityResponse{
		Date:       res.Date,
		IsHoliday:  res.IsHoliday,
		Reservable: res.Reservable,
		Slots:      make([]SlotResponse, len(res.Slots)),
	}
	if res.Reason != domain.ReasonNone {
		out.Reason = ptr.Ptr(string(res.Reason))
	}
	for i, s := range res.Slots {
		out.Slots[i] = SlotResponse{Time: s.Time.String(), Reservable: s.Reservable}
	}
	return out
}
