package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/m04kA/SMC-ClinicScheduler/internal/domain"
)

// Directory справочник врачей в памяти
type Directory struct {
	s *Store
}

// ListByDepartment врачи отделения в порядке (position, id)
func (d *Directory) ListByDepartment(ctx context.Context, department string) ([]*domain.Physician, error) {
	if err := d.s.lock(OpListPhysicians); err != nil {
		return nil, err
	}
	defer d.s.mu.Unlock()

	department = strings.TrimSpace(department)
	entries := make([]*physicianEntry, 0)
	for _, e := range d.s.physicians {
		if e.physician.Department == department {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].position != entries[j].position {
			return entries[i].position < entries[j].position
		}
		return entries[i].physician.ID < entries[j].physician.ID
	})

	out := make([]*domain.Physician, len(entries))
	for i, e := range entries {
		p := e.physician
		out[i] = &p
	}
	return out, nil
}

// Upsert создает или обновляет врача
func (d *Directory) Upsert(ctx context.Context, p *domain.Physician, position int) error {
	if err := d.s.lock(OpUpsertPhysician); err != nil {
		return err
	}
	defer d.s.mu.Unlock()

	cp := *p
	cp.Department = strings.TrimSpace(cp.Department)
	if cp.Schedule == nil {
		cp.Schedule = domain.NormalizeSchedule(nil)
	}

	d.s.physicians[cp.ID] = &physicianEntry{physician: cp, position: position}
	return nil
}
