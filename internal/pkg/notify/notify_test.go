package notify

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/cmlabs-hris/staff-ledger/internal/domain/staff"
	"github.com/stretchr/testify/assert"
)

func TestFanout_CallsEveryNotifier(t *testing.T) {
	var got []string
	record := func(name string, err error) staff.Notifier {
		return staff.NotifierFunc(func(_ context.Context, handle string, msg staff.Message) error {
			got = append(got, name+":"+handle+":"+string(msg.Kind)+":"+msg.Body)
			return err
		})
	}

	boom := errors.New("smtp down")
	f := Fanout{record("email", boom), record("sse", nil)}

	err := f.Notify(context.Background(), "sarah@school.test", staff.Message{Kind: staff.MessageLeaveDecided, Body: "approved"})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{
		"email:sarah@school.test:leave.decided:approved",
		"sse:sarah@school.test:leave.decided:approved",
	}, got)
}

func TestFanout_Empty(t *testing.T) {
	assert.NoError(t, Fanout{}.Notify(context.Background(), "S1", staff.Message{Body: "hello"}))
}

func TestLog_WritesRecord(t *testing.T) {
	var buf bytes.Buffer
	l := Log{Logger: slog.New(slog.NewJSONHandler(&buf, nil))}

	assert.NoError(t, l.Notify(context.Background(), "S1", staff.Message{Kind: staff.MessageOpenSession, Body: "approved"}))
	assert.Contains(t, buf.String(), `"contact_handle":"S1"`)
	assert.Contains(t, buf.String(), `"kind":"attendance.open_session"`)
	assert.Contains(t, buf.String(), `"message":"approved"`)
}
