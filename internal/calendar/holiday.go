// Package calendar чистые функции календаря клиники: праздники Японии и "прошедшие" даты.
// Ни одна функция не возвращает ошибку: нераспознанная дата не праздник и не прошлое.
package calendar

import (
	"math"
	"time"
)

const dateLayout = "2006-01-02"

type monthDay struct {
	month time.Month
	day   int
}

// Праздники с фиксированной датой
var fixedHolidays = map[monthDay]struct{}{
	{time.January, 1}:   {},
	{time.February, 11}: {},
	{time.February, 23}: {},
	{time.April, 29}:    {},
	{time.May, 3}:       {},
	{time.May, 4}:       {},
	{time.May, 5}:       {},
	{time.August, 11}:   {},
	{time.November, 3}:  {},
	{time.November, 23}: {},
}

// Праздники "happy monday": n-й понедельник месяца
var happyMondays = map[time.Month]int{
	time.January:   2,
	time.July:      3,
	time.September: 3,
	time.October:   2,
}

// IsHoliday проверяет дату в формате YYYY-MM-DD
// Нераспознанная строка не является праздником
func IsHoliday(date string) bool {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return false
	}
	return IsHolidayDate(d)
}

// IsHolidayDate проверяет календарную дату d (время суток и часовой пояс не учитываются)
func IsHolidayDate(d time.Time) bool {
	y, m, day := d.Date()

	if _, ok := fixedHolidays[monthDay{m, day}]; ok {
		return true
	}
	if n, ok := happyMondays[m]; ok && day == NthMonday(y, m, n) {
		return true
	}
	if m == time.March && day == VernalEquinoxDay(y) {
		return true
	}
	if m == time.September && day == AutumnalEquinoxDay(y) {
		return true
	}
	return false
}

// NthMonday день месяца, на который приходится n-й понедельник
func NthMonday(year int, month time.Month, n int) int {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	// Понедельник = 0
	firstWeekday := (int(first.Weekday()) + 6) % 7
	return (n-1)*7 + 1 + (7-firstWeekday)%7
}

// VernalEquinoxDay день весеннего равноденствия в марте (приближение для 2000-2099)
func VernalEquinoxDay(year int) int {
	return equinoxDay(20.8431, year)
}

// AutumnalEquinoxDay день осеннего равноденствия в сентябре (приближение для 2000-2099)
func AutumnalEquinoxDay(year int) int {
	return equinoxDay(23.2488, year)
}

func equinoxDay(base float64, year int) int {
	delta := float64(year - 1980)
	return int(math.Floor(base + 0.242194*delta - math.Floor(delta/4)))
}
