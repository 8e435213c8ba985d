package slotlock

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrTimeout возвращается, когда блокировку не удалось получить за отведенное время
var ErrTimeout = errors.New("slotlock: acquire timeout")

// Locker блокировка по строковому ключу
// release обязательно вызывать ровно один раз
type Locker interface {
	Acquire(ctx context.Context, key string, timeout time.Duration) (release func(), err error)
}

// Key ключ блокировки слота: department::date::time
func Key(department, date, time string) string {
	return strings.Join([]string{department, date, time}, "::")
}
