package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/staff-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/staff-ledger/internal/pkg/database"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type attendanceDocument struct {
	ID           string            `bson:"_id"`
	StaffID      string            `bson:"staff_id"`
	Date         time.Time         `bson:"date"`
	CheckIn      time.Time         `bson:"check_in"`
	CheckOut     *time.Time        `bson:"check_out,omitempty"`
	WorkingHours float64           `bson:"working_hours"`
	Status       attendance.Status `bson:"status"`
	RFIDTag      string            `bson:"rfid_tag"`
	CreatedAt    time.Time         `bson:"created_at"`
	UpdatedAt    time.Time         `bson:"updated_at"`
}

func newAttendanceDocument(r attendance.Record) attendanceDocument {
	return attendanceDocument{
		ID:           r.ID,
		StaffID:      r.StaffID,
		Date:         r.Date,
		CheckIn:      r.CheckIn,
		CheckOut:     r.CheckOut,
		WorkingHours: r.WorkingHours,
		Status:       r.Status,
		RFIDTag:      r.RFIDTag,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// record converts back to the domain type. BSON datetimes decode in UTC.
func (d attendanceDocument) record() attendance.Record {
	r := attendance.Record{
		ID:           d.ID,
		StaffID:      d.StaffID,
		Date:         d.Date.UTC(),
		CheckIn:      d.CheckIn.UTC(),
		WorkingHours: d.WorkingHours,
		Status:       d.Status,
		RFIDTag:      d.RFIDTag,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}
	if d.CheckOut != nil {
		out := d.CheckOut.UTC()
		r.CheckOut = &out
	}
	return r
}

type attendanceRepository struct {
	coll *mongo.Collection
}

func NewAttendanceRepository(db *database.MongoDB) attendance.AttendanceRepository {
	return &attendanceRepository{coll: db.Database.Collection(attendanceCollection)}
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	doc := newAttendanceDocument(record)
	if _, err := a.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return attendance.Record{}, attendance.ErrAlreadyMarked
		}
		return attendance.Record{}, fmt.Errorf("failed to create attendance record: %w", err)
	}
	return doc.record(), nil
}

// GetByStaffAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByStaffAndDate(ctx context.Context, staffID string, date time.Time) (attendance.Record, error) {
	var doc attendanceDocument
	err := a.coll.FindOne(ctx, bson.D{{Key: "staff_id", Value: staffID}, {Key: "date", Value: date}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return attendance.Record{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to get attendance by staff and date: %w", err)
	}
	return doc.record(), nil
}

// CloseSession implements attendance.AttendanceRepository.
func (a *attendanceRepository) CloseSession(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	filter := bson.D{
		{Key: "_id", Value: record.ID},
		{Key: "check_out", Value: bson.D{{Key: "$exists", Value: false}}},
	}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "check_out", Value: record.CheckOut},
		{Key: "working_hours", Value: record.WorkingHours},
		{Key: "status", Value: record.Status},
		{Key: "updated_at", Value: record.UpdatedAt},
	}}}

	var doc attendanceDocument
	err := a.coll.FindOneAndUpdate(ctx, filter, update, options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err == nil {
		return doc.record(), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return attendance.Record{}, fmt.Errorf("failed to close attendance record: %w", err)
	}

	n, err := a.coll.CountDocuments(ctx, bson.D{{Key: "_id", Value: record.ID}})
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to check attendance record: %w", err)
	}
	if n == 0 {
		return attendance.Record{}, attendance.ErrAttendanceNotFound
	}
	return attendance.Record{}, attendance.ErrAlreadyCheckedOut
}

func dateFilter(filter bson.D, field string, dateRange attendance.DateRange) bson.D {
	bounds := bson.D{}
	if !dateRange.From.IsZero() {
		bounds = append(bounds, bson.E{Key: "$gte", Value: dateRange.From})
	}
	if !dateRange.To.IsZero() {
		bounds = append(bounds, bson.E{Key: "$lte", Value: dateRange.To})
	}
	if len(bounds) > 0 {
		filter = append(filter, bson.E{Key: field, Value: bounds})
	}
	return filter
}

func (a *attendanceRepository) find(ctx context.Context, filter bson.D, sort bson.D) ([]attendance.Record, error) {
	cursor, err := a.coll.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance records: %w", err)
	}

	var docs []attendanceDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode attendance records: %w", err)
	}

	records := make([]attendance.Record, 0, len(docs))
	for _, d := range docs {
		records = append(records, d.record())
	}
	return records, nil
}

// ListByStaff implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByStaff(ctx context.Context, staffID string, dateRange attendance.DateRange, chronological bool) ([]attendance.Record, error) {
	filter := dateFilter(bson.D{{Key: "staff_id", Value: staffID}}, "date", dateRange)

	direction := -1
	if chronological {
		direction = 1
	}
	return a.find(ctx, filter, bson.D{{Key: "date", Value: direction}})
}

// ListByRange implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByRange(ctx context.Context, dateRange attendance.DateRange) ([]attendance.Record, error) {
	filter := dateFilter(bson.D{}, "date", dateRange)
	return a.find(ctx, filter, bson.D{
		{Key: "date", Value: 1},
		{Key: "check_in", Value: 1},
		{Key: "staff_id", Value: 1},
	})
}
