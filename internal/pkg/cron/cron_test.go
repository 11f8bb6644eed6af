package cron

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/staff-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/staff-ledger/internal/domain/staff"
	"github.com/cmlabs-hris/staff-ledger/internal/pkg/clock"
	"github.com/cmlabs-hris/staff-ledger/internal/pkg/sse"
	"github.com/cmlabs-hris/staff-ledger/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMessage struct {
	handle  string
	kind    staff.MessageKind
	subject string
	message string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (n *recordingNotifier) Notify(_ context.Context, handle string, msg staff.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentMessage{handle: handle, kind: msg.Kind, subject: msg.Subject, message: msg.Body})
	return nil
}

func day(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func seed(t *testing.T) (attendance.AttendanceRepository, *memory.Directory) {
	t.Helper()
	ctx := context.Background()
	db := memory.Open()
	dir := memory.NewDirectory(db)
	dir.Put(staff.Staff{ID: "S1", DisplayName: "Sarah", ContactHandle: "sarah@school.test"})
	dir.Put(staff.Staff{ID: "S2", DisplayName: "Paul", ContactHandle: "paul@school.test"})

	repo := memory.NewAttendanceRepository(db)
	checkOut := day(8).Add(17 * time.Hour)
	records := []attendance.Record{
		{ID: "r1", StaffID: "S1", Date: day(8), CheckIn: day(8).Add(8 * time.Hour), Status: attendance.StatusPresent},
		{ID: "r2", StaffID: "S2", Date: day(8), CheckIn: day(8).Add(9 * time.Hour), CheckOut: &checkOut, Status: attendance.StatusPresent},
		{ID: "r3", StaffID: "S2", Date: day(11), CheckIn: day(11).Add(8 * time.Hour), Status: attendance.StatusPresent},
		{ID: "r4", StaffID: "S1", Date: day(1), CheckIn: day(1).Add(8 * time.Hour), Status: attendance.StatusPresent},
		{ID: "r5", StaffID: "GHOST", Date: day(9), CheckIn: day(9).Add(8 * time.Hour), Status: attendance.StatusPresent},
	}
	for _, r := range records {
		_, err := repo.Create(ctx, r)
		require.NoError(t, err)
	}
	return repo, dir
}

func TestRemindOpenSessions(t *testing.T) {
	repo, dir := seed(t)
	notifier := &recordingNotifier{}
	now := clock.Func(func() time.Time { return day(11).Add(10 * time.Hour) })

	jobs := NewAttendanceJobs(repo, dir, notifier, now, time.UTC)
	sent, err := jobs.RemindOpenSessions(context.Background())
	require.NoError(t, err)

	// r1 only: r2 is closed, r3 is today, r4 is outside the lookback, r5 has no staff.
	assert.Equal(t, 1, sent)
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "sarah@school.test", notifier.sent[0].handle)
	assert.Equal(t, "Dear Sarah, you checked in at 08:00 on 2024-03-08 but no check-out was recorded.", notifier.sent[0].message)
	assert.Equal(t, staff.MessageOpenSession, notifier.sent[0].kind)
	assert.Equal(t, "Missing check-out for 2024-03-08", notifier.sent[0].subject)

	rec, err := repo.GetByStaffAndDate(context.Background(), "S1", day(8))
	require.NoError(t, err)
	assert.True(t, rec.IsOpen())
}

func TestRemindOpenSessions_PublishesAttendanceEvent(t *testing.T) {
	repo, dir := seed(t)
	hub := sse.NewHub()
	events, cancel := hub.Subscribe("sarah@school.test")
	defer cancel()
	now := clock.Func(func() time.Time { return day(11).Add(10 * time.Hour) })

	sent, err := NewAttendanceJobs(repo, dir, hub, now, time.UTC).RemindOpenSessions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	require.Len(t, events, 1)
	ev := <-events
	assert.Equal(t, "attendance.open_session", ev.Event)
	assert.NotEqual(t, string(staff.MessageLeaveDecided), ev.Event)
	assert.Contains(t, ev.Data.(sse.Notification).Message, "no check-out was recorded")
}

func TestRemindOpenSessions_NotifierFailure(t *testing.T) {
	repo, dir := seed(t)
	notifier := &recordingNotifier{err: errors.New("smtp down")}
	now := clock.Func(func() time.Time { return day(11).Add(10 * time.Hour) })

	sent, err := NewAttendanceJobs(repo, dir, notifier, now, time.UTC).RemindOpenSessions(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
}

func TestScheduler_RunsAndStops(t *testing.T) {
	s := NewScheduler(context.Background())

	var mu sync.Mutex
	runs := 0
	s.AddJob("tick", 10*time.Millisecond, func(ctx context.Context) error {
		mu.Lock()
		defer mu.Unlock()
		runs++
		return nil
	})
	s.AddJob("disabled", 0, func(ctx context.Context) error {
		t.Error("disabled job ran")
		return nil
	})

	s.Start()
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return runs >= 2
	}, time.Second, 5*time.Millisecond)
	s.Stop()
}

func TestScheduler_RunContextBoundedByInterval(t *testing.T) {
	s := NewScheduler(context.Background())

	deadlines := make(chan time.Duration, 1)
	s.AddJob("slow", 50*time.Millisecond, func(ctx context.Context) error {
		deadline, ok := ctx.Deadline()
		if ok {
			select {
			case deadlines <- time.Until(deadline):
			default:
			}
		}
		<-ctx.Done()
		return ctx.Err()
	})

	s.Start()
	defer s.Stop()

	select {
	case left := <-deadlines:
		assert.LessOrEqual(t, left, 50*time.Millisecond)
	case <-time.After(time.Second):
		t.Fatal("job did not run")
	}
}
