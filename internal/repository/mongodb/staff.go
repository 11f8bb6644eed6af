package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/staff-ledger/internal/domain/staff"
	"github.com/cmlabs-hris/staff-ledger/internal/pkg/database"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type staffDocument struct {
	ID            string             `bson:"_id"`
	DisplayName   string             `bson:"display_name"`
	ContactHandle string             `bson:"contact_handle"`
	Entitlement   *staff.Entitlement `bson:"entitlement,omitempty"`
}

// StaffDirectory reads staff documents maintained by the administration
// system.
type StaffDirectory struct {
	coll *mongo.Collection
}

func NewStaffDirectory(db *database.MongoDB) *StaffDirectory {
	return &StaffDirectory{coll: db.Database.Collection(staffCollection)}
}

// GetStaff implements staff.Directory.
func (d *StaffDirectory) GetStaff(ctx context.Context, staffID string) (staff.Staff, error) {
	var doc staffDocument
	if err := d.coll.FindOne(ctx, bson.D{{Key: "_id", Value: staffID}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return staff.Staff{}, staff.ErrStaffNotFound
		}
		return staff.Staff{}, fmt.Errorf("failed to get staff: %w", err)
	}

	return staff.Staff{
		ID:            doc.ID,
		DisplayName:   doc.DisplayName,
		ContactHandle: doc.ContactHandle,
		Entitlement:   doc.Entitlement,
	}, nil
}

// Upsert writes a staff document. Used to seed the directory.
func (d *StaffDirectory) Upsert(ctx context.Context, s staff.Staff) error {
	doc := staffDocument{
		ID:            s.ID,
		DisplayName:   s.DisplayName,
		ContactHandle: s.ContactHandle,
		Entitlement:   s.Entitlement,
	}
	_, err := d.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: s.ID}}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert staff: %w", err)
	}
	return nil
}
