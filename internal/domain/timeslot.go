package domain

import "github.com/m04kA/SMC-ClinicScheduler/pkg/types"

const (
	firstSlotMinutes = 9 * 60
	lastSlotMinutes  = 16*60 + 45
)

// timeSlots сетка приема 09:00-16:45 с шагом 15 минут, общая для всех отделений
var timeSlots = buildTimeSlots()

var timeSlotSet = func() map[types.TimeString]struct{} {
	set := make(map[types.TimeString]struct{}, len(timeSlots))
	for _, t := range timeSlots {
		set[t] = struct{}{}
	}
	return set
}()

func buildTimeSlots() []types.TimeString {
	out := make([]types.TimeString, 0, (lastSlotMinutes-firstSlotMinutes)/SlotGranularityMin+1)
	start := types.MustTimeString("09:00")
	for m := 0; firstSlotMinutes+m <= lastSlotMinutes; m += SlotGranularityMin {
		t, err := start.AddMinutes(m)
		if err != nil {
			panic(err)
		}
		out = append(out, t)
	}
	return out
}

// TimeSlots возвращает копию сетки слотов в порядке возрастания
func TimeSlots() []types.TimeString {
	out := make([]types.TimeString, len(timeSlots))
	copy(out, timeSlots)
	return out
}

// IsTimeSlot время совпадает с одним из слотов сетки
func IsTimeSlot(t types.TimeString) bool {
	_, ok := timeSlotSet[t]
	return ok
}
