package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/staff-ledger/internal/domain/staff"
	"github.com/cmlabs-hris/staff-ledger/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

// StaffDirectory reads the staff table maintained by the administration
// system.
type StaffDirectory struct {
	db *database.DB
}

// GetStaff implements staff.Directory. A staff row with a NULL annual
// entitlement uses the default allocation.
func (d *StaffDirectory) GetStaff(ctx context.Context, staffID string) (staff.Staff, error) {
	q := GetQuerier(ctx, d.db)

	query := `
		SELECT id, display_name, contact_handle,
			   entitlement_annual, entitlement_casual, entitlement_medical, entitlement_other
		FROM staff
		WHERE id = $1
	`

	var s staff.Staff
	var annual, casual, medical, other *float64
	err := q.QueryRow(ctx, query, staffID).Scan(
		&s.ID, &s.DisplayName, &s.ContactHandle,
		&annual, &casual, &medical, &other,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return staff.Staff{}, staff.ErrStaffNotFound
		}
		return staff.Staff{}, fmt.Errorf("failed to get staff: %w", err)
	}

	if annual != nil {
		s.Entitlement = &staff.Entitlement{
			Annual:  *annual,
			Casual:  valueOr(casual, staff.DefaultEntitlement.Casual),
			Medical: valueOr(medical, staff.DefaultEntitlement.Medical),
			Other:   valueOr(other, staff.DefaultEntitlement.Other),
		}
	}

	return s, nil
}

// Upsert writes a staff row. Used to seed the directory.
func (d *StaffDirectory) Upsert(ctx context.Context, s staff.Staff) error {
	q := GetQuerier(ctx, d.db)

	var annual, casual, medical, other *float64
	if s.Entitlement != nil {
		annual, casual, medical, other = &s.Entitlement.Annual, &s.Entitlement.Casual, &s.Entitlement.Medical, &s.Entitlement.Other
	}

	query := `
		INSERT INTO staff (
			id, display_name, contact_handle,
			entitlement_annual, entitlement_casual, entitlement_medical, entitlement_other
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			contact_handle = EXCLUDED.contact_handle,
			entitlement_annual = EXCLUDED.entitlement_annual,
			entitlement_casual = EXCLUDED.entitlement_casual,
			entitlement_medical = EXCLUDED.entitlement_medical,
			entitlement_other = EXCLUDED.entitlement_other,
			updated_at = NOW()
	`

	if _, err := q.Exec(ctx, query, s.ID, s.DisplayName, s.ContactHandle, annual, casual, medical, other); err != nil {
		return fmt.Errorf("failed to upsert staff: %w", err)
	}
	return nil
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

func NewStaffDirectory(db *database.DB) *StaffDirectory {
	return &StaffDirectory{db: db}
}
