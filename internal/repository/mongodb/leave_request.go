package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/staff-ledger/internal/domain/leave"
	"github.com/cmlabs-hris/staff-ledger/internal/pkg/database"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type leaveRequestDocument struct {
	ID              string                   `bson:"_id"`
	StaffID         string                   `bson:"staff_id"`
	LeaveType       leave.LeaveType          `bson:"leave_type"`
	StartDate       time.Time                `bson:"start_date"`
	EndDate         time.Time                `bson:"end_date"`
	HalfDay         bool                     `bson:"half_day"`
	Duration        float64                  `bson:"duration"`
	Reason          string                   `bson:"reason"`
	Status          leave.LeaveRequestStatus `bson:"status"`
	ApprovedBy      *string                  `bson:"approved_by,omitempty"`
	ApprovedDate    *time.Time               `bson:"approved_date,omitempty"`
	RejectionReason *string                  `bson:"rejection_reason,omitempty"`
	CreatedAt       time.Time                `bson:"created_at"`
	UpdatedAt       time.Time                `bson:"updated_at"`
}

func newLeaveRequestDocument(r leave.LeaveRequest) leaveRequestDocument {
	return leaveRequestDocument{
		ID:              r.ID,
		StaffID:         r.StaffID,
		LeaveType:       r.LeaveType,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		HalfDay:         r.HalfDay,
		Duration:        r.Duration,
		Reason:          r.Reason,
		Status:          r.Status,
		ApprovedBy:      r.ApprovedBy,
		ApprovedDate:    r.ApprovedDate,
		RejectionReason: r.RejectionReason,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func (d leaveRequestDocument) request() leave.LeaveRequest {
	r := leave.LeaveRequest{
		ID:              d.ID,
		StaffID:         d.StaffID,
		LeaveType:       d.LeaveType,
		StartDate:       d.StartDate.UTC(),
		EndDate:         d.EndDate.UTC(),
		HalfDay:         d.HalfDay,
		Duration:        d.Duration,
		Reason:          d.Reason,
		Status:          d.Status,
		ApprovedBy:      d.ApprovedBy,
		RejectionReason: d.RejectionReason,
		CreatedAt:       d.CreatedAt.UTC(),
		UpdatedAt:       d.UpdatedAt.UTC(),
	}
	if d.ApprovedDate != nil {
		at := d.ApprovedDate.UTC()
		r.ApprovedDate = &at
	}
	return r
}

type leaveRequestRepository struct {
	coll *mongo.Collection
}

func NewLeaveRequestRepository(db *database.MongoDB) leave.LeaveRequestRepository {
	return &leaveRequestRepository{coll: db.Database.Collection(leaveRequestCollection)}
}

func pendingFilter(id string) bson.D {
	return bson.D{{Key: "_id", Value: id}, {Key: "status", Value: leave.LeaveRequestStatusPending}}
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	doc := newLeaveRequestDocument(request)
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}
	return doc.request(), nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	var doc leaveRequestDocument
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request by id: %w", err)
	}
	return doc.request(), nil
}

// notPending tells a missing request apart from one that left pending.
func (r *leaveRequestRepository) notPending(ctx context.Context, id string, stateErr error) error {
	n, err := r.coll.CountDocuments(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("failed to check leave request: %w", err)
	}
	if n == 0 {
		return leave.ErrLeaveRequestNotFound
	}
	return stateErr
}

func (r *leaveRequestRepository) updatePending(ctx context.Context, id string, set bson.D, stateErr error) (leave.LeaveRequest, error) {
	var doc leaveRequestDocument
	err := r.coll.FindOneAndUpdate(ctx,
		pendingFilter(id),
		bson.D{{Key: "$set", Value: set}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return leave.LeaveRequest{}, r.notPending(ctx, id, stateErr)
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to update leave request: %w", err)
	}
	return doc.request(), nil
}

// UpdatePending implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) UpdatePending(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	return r.updatePending(ctx, request.ID, bson.D{
		{Key: "leave_type", Value: request.LeaveType},
		{Key: "start_date", Value: request.StartDate},
		{Key: "end_date", Value: request.EndDate},
		{Key: "half_day", Value: request.HalfDay},
		{Key: "duration", Value: request.Duration},
		{Key: "reason", Value: request.Reason},
		{Key: "updated_at", Value: request.UpdatedAt},
	}, leave.ErrNotEditable)
}

// DeletePending implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) DeletePending(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, pendingFilter(id))
	if err != nil {
		return fmt.Errorf("failed to delete leave request: %w", err)
	}
	if res.DeletedCount == 0 {
		return r.notPending(ctx, id, leave.ErrNotEditable)
	}
	return nil
}

// Decide implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) Decide(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	set := bson.D{
		{Key: "status", Value: request.Status},
		{Key: "approved_by", Value: request.ApprovedBy},
		{Key: "approved_date", Value: request.ApprovedDate},
		{Key: "updated_at", Value: request.UpdatedAt},
	}
	if request.RejectionReason != nil {
		set = append(set, bson.E{Key: "rejection_reason", Value: request.RejectionReason})
	}
	return r.updatePending(ctx, request.ID, set, leave.ErrAlreadyProcessed)
}

func (r *leaveRequestRepository) find(ctx context.Context, filter bson.D, sort bson.D) ([]leave.LeaveRequest, error) {
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("failed to query leave requests: %w", err)
	}

	var docs []leaveRequestDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode leave requests: %w", err)
	}

	requests := make([]leave.LeaveRequest, 0, len(docs))
	for _, d := range docs {
		requests = append(requests, d.request())
	}
	return requests, nil
}

// ListPending implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) ListPending(ctx context.Context) ([]leave.LeaveRequest, error) {
	return r.find(ctx,
		bson.D{{Key: "status", Value: leave.LeaveRequestStatusPending}},
		bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}},
	)
}

// ListByStaff implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) ListByStaff(ctx context.Context, staffID string) ([]leave.LeaveRequest, error) {
	return r.find(ctx,
		bson.D{{Key: "staff_id", Value: staffID}},
		bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}},
	)
}

// ListApproved implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) ListApproved(ctx context.Context, filter leave.ApprovedFilter) ([]leave.LeaveRequest, error) {
	q := bson.D{{Key: "status", Value: leave.LeaveRequestStatusApproved}}

	if filter.StaffID != "" {
		q = append(q, bson.E{Key: "staff_id", Value: filter.StaffID})
	}

	// Overlap narrows the start_date upper bound and bounds end_date below.
	upper := filter.StartTo
	if !filter.OverlapFrom.IsZero() && !filter.OverlapTo.IsZero() {
		if upper.IsZero() || filter.OverlapTo.Before(upper) {
			upper = filter.OverlapTo
		}
		q = append(q, bson.E{Key: "end_date", Value: bson.D{{Key: "$gte", Value: filter.OverlapFrom}}})
	}

	start := bson.D{}
	if !filter.StartFrom.IsZero() {
		start = append(start, bson.E{Key: "$gte", Value: filter.StartFrom})
	}
	if !upper.IsZero() {
		start = append(start, bson.E{Key: "$lte", Value: upper})
	}
	if len(start) > 0 {
		q = append(q, bson.E{Key: "start_date", Value: start})
	}

	return r.find(ctx, q, bson.D{{Key: "start_date", Value: 1}, {Key: "_id", Value: 1}})
}
