package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/staff-ledger/internal/domain/attendance"
)

type attendanceRepository struct {
	db *attendanceTable
}

func NewAttendanceRepository(db *DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db.attendance}
}

func dayKey(staffID string, date time.Time) string {
	return staffID + "|" + date.Format(time.DateOnly)
}

func cloneRecord(r attendance.Record) *attendance.Record {
	if r.CheckOut != nil {
		out := *r.CheckOut
		r.CheckOut = &out
	}
	return &r
}

func (repo *attendanceRepository) Create(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	key := dayKey(record.StaffID, record.Date)
	if _, ok := repo.db.t[key]; ok {
		return attendance.Record{}, attendance.ErrAlreadyMarked
	}
	repo.db.t[key] = cloneRecord(record)
	return record, nil
}

func (repo *attendanceRepository) GetByStaffAndDate(ctx context.Context, staffID string, date time.Time) (attendance.Record, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if r, ok := repo.db.t[dayKey(staffID, date)]; ok {
		return *cloneRecord(*r), nil
	}
	return attendance.Record{}, attendance.ErrAttendanceNotFound
}

func (repo *attendanceRepository) CloseSession(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	stored, ok := repo.db.t[dayKey(record.StaffID, record.Date)]
	if !ok || stored.ID != record.ID {
		return attendance.Record{}, attendance.ErrAttendanceNotFound
	}
	if !stored.IsOpen() {
		return attendance.Record{}, attendance.ErrAlreadyCheckedOut
	}

	stored.CheckOut = cloneRecord(record).CheckOut
	stored.WorkingHours = record.WorkingHours
	stored.Status = record.Status
	stored.UpdatedAt = record.UpdatedAt
	return *cloneRecord(*stored), nil
}

// query returns the matching records. Callers hold the lock.
func (repo *attendanceRepository) query(match func(attendance.Record) bool) []attendance.Record {
	records := make([]attendance.Record, 0)
	for _, r := range repo.db.t {
		if match(*r) {
			records = append(records, *cloneRecord(*r))
		}
	}
	return records
}

func (repo *attendanceRepository) ListByStaff(ctx context.Context, staffID string, dateRange attendance.DateRange, chronological bool) ([]attendance.Record, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	records := repo.query(func(r attendance.Record) bool {
		return r.StaffID == staffID && dateRange.Contains(r.Date)
	})
	sort.Slice(records, func(i, j int) bool {
		if chronological {
			return records[i].Date.Before(records[j].Date)
		}
		return records[i].Date.After(records[j].Date)
	})
	return records, nil
}

func (repo *attendanceRepository) ListByRange(ctx context.Context, dateRange attendance.DateRange) ([]attendance.Record, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	records := repo.query(func(r attendance.Record) bool {
		return dateRange.Contains(r.Date)
	})
	sort.Slice(records, func(i, j int) bool {
		if !records[i].Date.Equal(records[j].Date) {
			return records[i].Date.Before(records[j].Date)
		}
		if !records[i].CheckIn.Equal(records[j].CheckIn) {
			return records[i].CheckIn.Before(records[j].CheckIn)
		}
		return records[i].StaffID < records[j].StaffID
	})
	return records, nil
}
