package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNthMonday(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month time.Month
		n     int
		want  int
	}{
		{"2nd monday of january 2026", 2026, time.January, 2, 12},
		{"3rd monday of july 2026", 2026, time.July, 3, 20},
		{"3rd monday of september 2026", 2026, time.September, 3, 21},
		{"2nd monday of october 2026", 2026, time.October, 2, 12},
		{"month starting on monday", 2026, time.June, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NthMonday(tt.year, tt.month, tt.n))
		})
	}
}

func TestEquinoxDays(t *testing.T) {
	assert.Equal(t, 20, VernalEquinoxDay(2026))
	assert.Equal(t, 23, AutumnalEquinoxDay(2026))
	assert.Equal(t, 20, VernalEquinoxDay(2000))
	assert.Equal(t, 22, AutumnalEquinoxDay(2024))
}

func TestIsHoliday(t *testing.T) {
	tests := []struct {
		date string
		want bool
	}{
		// фиксированные
		{"2026-01-01", true},
		{"2026-02-11", true},
		{"2026-02-23", true},
		{"2026-04-29", true},
		{"2026-05-03", true},
		{"2026-05-05", true},
		{"2026-08-11", true},
		{"2026-11-03", true},
		{"2026-11-23", true},
		{"2026-12-23", false},
		// happy monday
		{"2026-01-12", true},
		{"2026-07-20", true},
		{"2026-07-18", false},
		{"2026-09-21", true},
		{"2026-10-12", true},
		// равноденствия
		{"2026-03-20", true},
		{"2026-09-23", true},
		// обычные дни
		{"2026-02-10", false},
		{"2026-03-02", false},
		// мусор
		{"invalid", false},
		{"", false},
		{"2026/02/11", false},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			assert.Equal(t, tt.want, IsHoliday(tt.date))
		})
	}
}

func TestIsPast(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	now := time.Date(2026, 3, 2, 10, 30, 0, 0, tokyo)

	assert.True(t, IsPast("2026-03-01", now))
	assert.True(t, IsPast("2025-12-31", now))
	assert.False(t, IsPast("2026-03-02", now), "today is not past")
	assert.False(t, IsPast("2026-03-03", now))
	assert.False(t, IsPast("garbage", now))
}

func TestIsPast_UsesLocationOfNow(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	// 2026-03-01 20:00 UTC это уже 2 марта в Токио
	now := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC).In(tokyo)
	assert.True(t, IsPast("2026-03-01", now))
	assert.True(t, IsToday("2026-03-02", now))
}

func TestIsWeekend(t *testing.T) {
	assert.True(t, IsWeekend("2026-03-07"))
	assert.True(t, IsWeekend("2026-03-08"))
	assert.False(t, IsWeekend("2026-03-09"))
	assert.False(t, IsWeekend("bad"))
}

func TestWeekday(t *testing.T) {
	wd, ok := Weekday("2026-03-02")
	require.True(t, ok)
	assert.Equal(t, time.Monday, wd)

	_, ok = Weekday("2026-13-01")
	assert.False(t, ok)
}
