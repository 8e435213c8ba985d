package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClinicScheduler/pkg/types"
)

// SlotKey ключ занятости: врач, дата, время
// В леджере не может существовать двух живых заявок с одинаковым ключом
type SlotKey struct {
	PhysicianID string
	Date        string
	Time        types.TimeString
}

// String идентификатор заявки вида {physician}_{date}_{time}
func (k SlotKey) String() string {
	return fmt.Sprintf("%s_%s_%s", k.PhysicianID, k.Date, k.Time)
}

// SlotClaim запись леджера о том, что врач занят в слоте
type SlotClaim struct {
	Key           SlotKey
	Department    string
	UserID        string
	ReservationID *string // обратная ссылка на запись, проставляется после ее создания
	CreatedAt     time.Time
}

// BelongsTo заявка относится к записи reservationID
// Без обратной ссылки сверяем владельца
func (c *SlotClaim) BelongsTo(reservationID, userID string) bool {
	if c.ReservationID != nil {
		return *c.ReservationID == reservationID
	}
	return c.UserID == userID
}
