package domain

import (
	"strings"
	"time"

	"github.com/m04kA/SMC-ClinicScheduler/pkg/types"
)

// Weekday ключ дня недели в расписании врача
type Weekday string

const (
	Monday    Weekday = "mon"
	Tuesday   Weekday = "tue"
	Wednesday Weekday = "wed"
	Thursday  Weekday = "thu"
	Friday    Weekday = "fri"
	Saturday  Weekday = "sat"
	Sunday    Weekday = "sun"
)

// Weekdays все ключи с понедельника
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// WeekdayOf переводит time.Weekday в ключ расписания
func WeekdayOf(wd time.Weekday) Weekday {
	// time.Sunday = 0
	return Weekdays[(int(wd)+6)%7]
}

// WeekdaySchedule рабочие слоты врача по дням недели
// После нормализации содержит все семь ключей
type WeekdaySchedule map[Weekday][]types.TimeString

// NormalizeSchedule приводит сырое расписание (как оно лежит в хранилище) к WeekdaySchedule
// Отсутствующий день или не-список дают пустой набор, некорректные и повторяющиеся времена отбрасываются
func NormalizeSchedule(raw map[string]interface{}) WeekdaySchedule {
	out := make(WeekdaySchedule, len(Weekdays))
	for _, wd := range Weekdays {
		out[wd] = normalizeTimes(raw[string(wd)])
	}
	return out
}

// NewWeekdaySchedule собирает расписание из строковых списков (seed, тесты)
func NewWeekdaySchedule(days map[Weekday][]string) WeekdaySchedule {
	raw := make(map[string]interface{}, len(days))
	for wd, times := range days {
		list := make([]interface{}, len(times))
		for i, t := range times {
			list[i] = t
		}
		raw[string(wd)] = list
	}
	return NormalizeSchedule(raw)
}

func normalizeTimes(v interface{}) []types.TimeString {
	list, ok := v.([]interface{})
	if !ok {
		return []types.TimeString{}
	}

	out := make([]types.TimeString, 0, len(list))
	seen := make(map[types.TimeString]struct{}, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			continue
		}
		t, err := types.NewTimeStringFromString(strings.TrimSpace(s))
		if err != nil {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Has врач работает в этот день недели в это время
func (s WeekdaySchedule) Has(wd Weekday, t types.TimeString) bool {
	for _, st := range s[wd] {
		if st == t {
			return true
		}
	}
	return false
}

// Physician врач отделения
// Справочник врачей принадлежит внешнему хранилищу, ядро его только читает
type Physician struct {
	ID         string
	Name       string
	Department string
	Schedule   WeekdaySchedule
}

// WorksAt врач работает в день date (YYYY-MM-DD) во время t
// Нераспознанная дата означает "не работает"
func (p *Physician) WorksAt(date string, t types.TimeString) bool {
	d, err := time.Parse(DateFormat, date)
	if err != nil {
		return false
	}
	return p.Schedule.Has(WeekdayOf(d.Weekday()), t)
}

// PhysicianIDs идентификаторы в порядке справочника
func PhysicianIDs(physicians []*Physician) []string {
	ids := make([]string, len(physicians))
	for i, p := range physicians {
		ids[i] = p.ID
	}
	return ids
}
