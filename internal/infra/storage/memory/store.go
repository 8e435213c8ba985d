// Package memory хранилище в памяти процесса для database.driver = "memory" и тестов
// Контракты и ошибки совпадают с SQL-репозиториями
package memory

import (
	"sync"

	"github.com/m04kA/SMC-ClinicScheduler/internal/domain"
)

// Op операция хранилища, на которую можно навесить сбой
type Op string

const (
	OpListPhysicians    Op = "physicians.list"
	OpUpsertPhysician   Op = "physicians.upsert"
	OpTryClaim          Op = "claims.try"
	OpBulkGetClaims     Op = "claims.bulk_get"
	OpDeleteClaim       Op = "claims.delete"
	OpReleaseClaim      Op = "claims.release"
	OpAttachReservation Op = "claims.attach"
	OpListClaims        Op = "claims.list"
	OpCreateReservation Op = "reservations.create"
	OpGetReservation    Op = "reservations.get"
	OpDeleteReservation Op = "reservations.delete"
	OpExistsReservation Op = "reservations.exists"
	OpListUserDates     Op = "reservations.list_user_dates"
	OpListReservations  Op = "reservations.list"
)

type physicianEntry struct {
	physician domain.Physician
	position  int
}

// Store общее состояние трех хранилищ под одним мьютексом
type Store struct {
	mu           sync.Mutex
	physicians   map[string]*physicianEntry
	claims       map[domain.SlotKey]*domain.SlotClaim
	reservations map[string]*domain.Reservation
	failures     map[Op]error
	calls        map[Op]int
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		physicians:   make(map[string]*physicianEntry),
		claims:       make(map[domain.SlotKey]*domain.SlotClaim),
		reservations: make(map[string]*domain.Reservation),
		failures:     make(map[Op]error),
		calls:        make(map[Op]int),
	}
}

// Fail заставляет операцию op возвращать err, nil снимает сбой
func (s *Store) Fail(op Op, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

// Calls сколько раз вызывалась операция op
func (s *Store) Calls(op Op) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// Physicians справочник врачей поверх хранилища
func (s *Store) Physicians() *Directory {
	return &Directory{s: s}
}

// Claims леджер слотов поверх хранилища
func (s *Store) Claims() *Ledger {
	return &Ledger{s: s}
}

// Reservations записи пользователей поверх хранилища
func (s *Store) Reservations() *Reservations {
	return &Reservations{s: s}
}

// lock берет мьютекс и учитывает вызов
// При навешенном сбое мьютекс сразу отпускается и возвращается ошибка
func (s *Store) lock(op Op) error {
	s.mu.Lock()
	s.calls[op]++
	if err := s.failures[op]; err != nil {
		s.mu.Unlock()
		return err
	}
	return nil
}
