package calendar

import "time"

// Parse разбирает YYYY-MM-DD как полночь в часовом поясе loc
func Parse(date string, loc *time.Location) (time.Time, bool) {
	d, err := time.ParseInLocation(dateLayout, date, loc)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// IsValidDate строка является корректной датой YYYY-MM-DD
func IsValidDate(date string) bool {
	_, err := time.Parse(dateLayout, date)
	return err == nil
}

// IsPast дата строго раньше сегодняшнего дня относительно now (в часовом поясе now)
func IsPast(date string, now time.Time) bool {
	d, ok := Parse(date, now.Location())
	if !ok {
		return false
	}
	return d.Before(midnight(now))
}

// IsToday дата совпадает с календарным днем now
func IsToday(date string, now time.Time) bool {
	return date == now.Format(dateLayout)
}

// IsWeekend суббота или воскресенье
func IsWeekend(date string) bool {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return false
	}
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Weekday день недели даты
func Weekday(date string) (time.Weekday, bool) {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return 0, false
	}
	return d.Weekday(), true
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
