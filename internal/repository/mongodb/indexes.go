// Package mongodb stores ledger records as MongoDB documents.
package mongodb

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/staff-ledger/internal/pkg/database"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	attendanceCollection   = "attendance_records"
	leaveRequestCollection = "leave_requests"
	staffCollection        = "staff"
)

// EnsureIndexes creates the indexes the repositories rely on. The unique
// {staff_id, date} index is what rejects a second check-in.
func EnsureIndexes(ctx context.Context, db *database.MongoDB) error {
	indexes := map[string][]mongo.IndexModel{
		attendanceCollection: {
			{
				Keys:    bson.D{{Key: "staff_id", Value: 1}, {Key: "date", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("staff_date_unique"),
			},
			{
				Keys: bson.D{{Key: "date", Value: 1}, {Key: "check_in", Value: 1}},
			},
		},
		leaveRequestCollection: {
			{
				Keys: bson.D{{Key: "staff_id", Value: 1}, {Key: "created_at", Value: -1}},
			},
			{
				Keys: bson.D{{Key: "status", Value: 1}, {Key: "start_date", Value: 1}},
			},
		},
	}

	for collection, models := range indexes {
		if _, err := db.Database.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", collection, err)
		}
	}
	return nil
}
