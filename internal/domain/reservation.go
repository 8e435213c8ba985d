package domain

import (
	"time"

	"github.com/m04kA/SMC-ClinicScheduler/pkg/types"
)

// Reservation подтвержденная запись пользователя на прием
type Reservation struct {
	ID            string
	UserID        string
	Department    string
	Date          string
	Time          types.TimeString
	PhysicianID   string
	PhysicianName string
	Purpose       string
	CreatedAt     time.Time
}

// IsDemo запись выдана по демо-правилу и не имеет заявки в леджере
func (r *Reservation) IsDemo() bool {
	return r.PhysicianID == DemoPhysicianID
}

// SlotKey ключ заявки, которую держит запись
func (r *Reservation) SlotKey() SlotKey {
	return SlotKey{PhysicianID: r.PhysicianID, Date: r.Date, Time: r.Time}
}

// DateTime дата и время без привязки к врачу
type DateTime struct {
	Date string
	Time types.TimeString
}
