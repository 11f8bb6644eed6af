// Package memory keeps ledger records in process memory. It backs tests and
// single-instance deployments started with STORAGE_DRIVER=memory.
package memory

import (
	"sync"

	"github.com/cmlabs-hris/staff-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/staff-ledger/internal/domain/leave"
	"github.com/cmlabs-hris/staff-ledger/internal/domain/staff"
)

type (
	DB struct {
		attendance *attendanceTable
		leave      *leaveTable
		staff      *staffTable
	}

	attendanceTable struct {
		t     map[string]*attendance.Record
		mutex sync.RWMutex
	}

	leaveTable struct {
		t     map[string]*leave.LeaveRequest
		mutex sync.RWMutex
	}

	staffTable struct {
		t     map[string]*staff.Staff
		mutex sync.RWMutex
	}
)

func Open() *DB {
	return &DB{
		attendance: &attendanceTable{t: make(map[string]*attendance.Record)},
		leave:      &leaveTable{t: make(map[string]*leave.LeaveRequest)},
		staff:      &staffTable{t: make(map[string]*staff.Staff)},
	}
}
