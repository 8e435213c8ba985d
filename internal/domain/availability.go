package domain

import "github.com/m04kA/SMC-ClinicScheduler/pkg/types"

// Reason причина, по которой дата недоступна целиком
type Reason string

const (
	ReasonNone    Reason = ""
	ReasonPast    Reason = "past"
	ReasonHoliday Reason = "holiday"
	ReasonClosed  Reason = "closed"
)

// SlotAvailability доступность одного слота
type SlotAvailability struct {
	Time       types.TimeString
	Reservable bool
}

// AvailabilityResult доступность отделения на дату
// Вычисляется на лету и не хранится
type AvailabilityResult struct {
	Date       string
	IsHoliday  bool
	Reservable bool
	Reason     Reason
	Slots      []SlotAvailability
}

// UnavailableResult все слоты закрыты с причиной reason
func UnavailableResult(date string, reason Reason) *AvailabilityResult {
	slots := make([]SlotAvailability, len(timeSlots))
	for i, t := range timeSlots {
		slots[i] = SlotAvailability{Time: t}
	}
	return &AvailabilityResult{
		Date:      date,
		IsHoliday: reason == ReasonHoliday,
		Reason:    reason,
		Slots:     slots,
	}
}

// ComputedResult результат расчета по сетке: reservable(t) для каждого слота
func ComputedResult(date string, reservable func(t types.TimeString) bool) *AvailabilityResult {
	res := &AvailabilityResult{Date: date, Slots: make([]SlotAvailability, len(timeSlots))}
	for i, t := range timeSlots {
		ok := reservable(t)
		res.Slots[i] = SlotAvailability{Time: t, Reservable: ok}
		res.Reservable = res.Reservable || ok
	}
	return res
}

// IsReservable слот t на эту дату доступен
func (r *AvailabilityResult) IsReservable(t types.TimeString) bool {
	for _, s := range r.Slots {
		if s.Time == t {
			return s.Reservable
		}
	}
	return false
}
