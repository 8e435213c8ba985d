package slotlock

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	sem  chan struct{}
	refs int
}

// Local блокировки в пределах процесса
// Запись таблицы живет, пока на ключ есть хотя бы одна ссылка (держатель или ожидающий),
// после чего удаляется, поэтому таблица не растет с числом когда-либо использованных ключей
type Local struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// NewLocal создает таблицу блокировок
func NewLocal() *Local {
	return &Local{entries: make(map[string]*entry)}
}

// Acquire ждет блокировку ключа не дольше timeout
// Возвращает ErrTimeout по таймауту и ctx.Err() при отмене контекста
func (l *Local) Acquire(ctx context.Context, key string, timeout time.Duration) (func(), error) {
	e := l.ref(key)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case e.sem <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-e.sem
				l.unref(key, e)
			})
		}, nil
	case <-timer.C:
		l.unref(key, e)
		return nil, ErrTimeout
	case <-ctx.Done():
		l.unref(key, e)
		return nil, ctx.Err()
	}
}

// Len количество ключей в таблице
func (l *Local) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func (l *Local) ref(key string) *entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		l.entries[key] = e
	}
	e.refs++
	return e
}

func (l *Local) unref(key string, e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
}
