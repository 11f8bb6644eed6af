package memory

import (
	"context"

	"github.com/cmlabs-hris/staff-ledger/internal/domain/staff"
)

// Directory is an in-memory staff directory. Put seeds it.
type Directory struct {
	db *staffTable
}

func NewDirectory(db *DB) *Directory {
	return &Directory{db: db.staff}
}

func (d *Directory) Put(s staff.Staff) {
	d.db.mutex.Lock()
	defer d.db.mutex.Unlock()

	if s.Entitlement != nil {
		e := *s.Entitlement
		s.Entitlement = &e
	}
	d.db.t[s.ID] = &s
}

func (d *Directory) GetStaff(ctx context.Context, staffID string) (staff.Staff, error) {
	d.db.mutex.RLock()
	defer d.db.mutex.RUnlock()

	s, ok := d.db.t[staffID]
	if !ok {
		return staff.Staff{}, staff.ErrStaffNotFound
	}
	out := *s
	if out.Entitlement != nil {
		e := *out.Entitlement
		out.Entitlement = &e
	}
	return out, nil
}

// Upsert matches the database-backed directories.
func (d *Directory) Upsert(_ context.Context, s staff.Staff) error {
	d.Put(s)
	return nil
}
