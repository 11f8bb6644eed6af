package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/cmlabs-hris/staff-ledger/internal/domain/staff"
)

type staffStore interface {
	staff.Directory
	Upsert(ctx context.Context, s staff.Staff) error
}

type seedStaff struct {
	ID            string             `json:"id"`
	DisplayName   string             `json:"display_name"`
	ContactHandle string             `json:"contact_handle"`
	Entitlement   *staff.Entitlement `json:"entitlement,omitempty"`
}

// seedDirectory upserts every staff member listed in a JSON file.
func seedDirectory(ctx context.Context, store staffStore, path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read staff seed file: %w", err)
	}

	var members []seedStaff
	if err := json.Unmarshal(raw, &members); err != nil {
		return 0, fmt.Errorf("failed to parse staff seed file: %w", err)
	}

	for i, m := range members {
		if m.ID == "" {
			return i, fmt.Errorf("staff seed entry %d has no id", i)
		}
		if err := store.Upsert(ctx, staff.Staff{
			ID:            m.ID,
			DisplayName:   m.DisplayName,
			ContactHandle: m.ContactHandle,
			Entitlement:   m.Entitlement,
		}); err != nil {
			return i, fmt.Errorf("failed to seed staff %s: %w", m.ID, err)
		}
	}
	return len(members), nil
}
