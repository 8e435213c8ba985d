package domain

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Ограничения запросов
const (
	MaxBatchDates      = 14  // максимум дат в пакетном запросе доступности
	MaxQueryInValues   = 30  // максимум значений в одном IN (...) к хранилищу
	MaxDepartmentLen   = 100 // длина названия отделения
	MaxPurposeLength   = 500
	SlotGranularityMin = 15
)

// Демо-режим
const (
	DemoPhysicianID   = "demo"
	DemoPhysicianName = "（自動割当）"
	DemoCutoff        = "12:00" // демо-слоты доступны строго до этого времени
)
