package create_reservation

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-ClinicScheduler/internal/calendar"
	"github.com/m04kA/SMC-ClinicScheduler/internal/domain"
	"github.com/m04kA/SMC-ClinicScheduler/pkg/types"
)

// validateRequest проверяет запрос в фиксированном порядке, первая ошибка окончательная
func validateRequest(req *Request, now time.Time) (*validated, error) {
	v := &validated{
		userID:     strings.TrimSpace(req.UserID),
		department: strings.TrimSpace(req.Department),
		date:       strings.TrimSpace(req.Date),
		purpose:    strings.TrimSpace(req.Purpose),
	}
	rawTime := strings.TrimSpace(req.Time)

	// (a) пользователь
	if v.userID == "" {
		return nil, ErrUserRequired
	}

	// (b) обязательные поля и их формат
	if v.department == "" || v.date == "" || rawTime == "" {
		return nil, ErrMissingFields
	}
	if utf8.RuneCountInString(v.department) > domain.MaxDepartmentLen {
		return nil, fmt.Errorf("%w: department is longer than %d characters", ErrInvalidInput, domain.MaxDepartmentLen)
	}
	if !calendar.IsValidDate(v.date) {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	t, err := types.NewTimeStringFromString(rawTime)
	if err != nil {
		return nil, fmt.Errorf("%w: time must be HH:MM", ErrInvalidInput)
	}
	if !domain.IsTimeSlot(t) {
		return nil, fmt.Errorf("%w: %s is not a bookable slot", ErrInvalidInput, t)
	}
	v.time = t
	if utf8.RuneCountInString(v.purpose) > domain.MaxPurposeLength {
		return nil, fmt.Errorf("%w: purpose is longer than %d characters", ErrInvalidInput, domain.MaxPurposeLength)
	}

	// (c) прошедшая дата
	if calendar.IsPast(v.date, now) {
		return nil, ErrPastDate
	}

	// (d) праздник
	if calendar.IsHoliday(v.date) {
		return nil, ErrHoliday
	}

	// (e) сегодня время уже наступило
	if calendar.IsToday(v.date, now) && !types.NewTimeString(now).IsBefore(v.time) {
		return nil, ErrTimeElapsed
	}

	return v, nil
}

// candidates врачи, работающие в этот день недели в это время, в порядке справочника
// Текущие заявки не учитываются: их разрешает попытка захвата
func candidates(physicians []*domain.Physician, date string, t types.TimeString) []*domain.Physician {
	out := make([]*domain.Physician, 0, len(physicians))
	for _, p := range physicians {
		if p.WorksAt(date, t) {
			out = append(out, p)
		}
	}
	return out
}
