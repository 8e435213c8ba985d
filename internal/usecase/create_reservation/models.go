package create_reservation

import (
	"time"

	"github.com/m04kA/SMC-ClinicScheduler/pkg/types"
)

// Request модель запроса на запись
type Request struct {
	UserID     string
	Department string
	Date       string // YYYY-MM-DD
	Time       string // HH:MM, один из слотов сетки
	Purpose    string // Цель визита (опционально)
}

// Config настройки записи
type Config struct {
	// Демо-правило для отделений без врачей
	// Отделение, где есть хоть один врач, демо-записью не подстраховывается, даже если все врачи заняты
	DemoSlots   bool
	LockTimeout time.Duration // Ожидание блокировки слота
}

// Исходы для метрик
const (
	OutcomeCreated    = "created"
	OutcomeDemo       = "demo"
	OutcomeRejected   = "rejected"
	OutcomeDuplicate  = "duplicate"
	OutcomeExhausted  = "exhausted"
	OutcomeContention = "contention"
	OutcomeFailed     = "failed"
)

// validated очищенный запрос
type validated struct {
	userID     string
	department string
	date       string
	time       types.TimeString
	purpose    string
}
