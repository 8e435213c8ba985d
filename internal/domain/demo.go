package domain

import (
	"time"

	"github.com/m04kA/SMC-ClinicScheduler/pkg/types"
)

// DemoReservable демо-правило: будний день и время раньше DemoCutoff
// Применяется только когда в отделении нет ни одного врача и демо-режим включен
func DemoReservable(date string, t types.TimeString) bool {
	d, err := time.Parse(DateFormat, date)
	if err != nil {
		return false
	}
	if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false
	}
	return IsTimeSlot(t) && t.IsBefore(DemoCutoff)
}
