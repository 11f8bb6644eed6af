package email

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"github.com/cmlabs-hris/staff-ledger/internal/config"
	"github.com/cmlabs-hris/staff-ledger/internal/domain/staff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hello = staff.Message{Body: "hello"}

type captured struct {
	calls int
	addr  string
	to    []string
	msg   string
}

func newTestNotifier(t *testing.T, failures int) (*Notifier, *captured) {
	t.Helper()
	n, err := NewNotifier(config.SMTPConfig{
		Host: "smtp.school.test", Port: 587, From: "ledger@school.test", FromName: "Staff Ledger",
	}, "Staff Ledger")
	require.NoError(t, err)

	c := &captured{}
	n.WithSender(func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		c.calls++
		if c.calls <= failures {
			return errors.New("connection refused")
		}
		c.addr, c.to, c.msg = addr, to, string(msg)
		return nil
	}, 0)
	return n, c
}

func TestNotifier_SendsRenderedTemplate(t *testing.T) {
	n, c := newTestNotifier(t, 0)

	err := n.Notify(context.Background(), "sarah@school.test", staff.Message{
		Kind: staff.MessageLeaveDecided,
		Body: "Your annual leave request has been approved.",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, c.calls)
	assert.Equal(t, "smtp.school.test:587", c.addr)
	assert.Equal(t, []string{"sarah@school.test"}, c.to)
	assert.Contains(t, c.msg, "Subject: Leave request update\r\n")
	assert.Contains(t, c.msg, "Your annual leave request has been approved.")
	assert.True(t, strings.HasPrefix(c.msg, "From: Staff Ledger <ledger@school.test>\r\n"))
}

func TestNotifier_RetriesThenFails(t *testing.T) {
	n, c := newTestNotifier(t, 5)

	err := n.Notify(context.Background(), "sarah@school.test", hello)
	assert.Error(t, err)
	assert.Equal(t, maxRetries, c.calls)
}

func TestNotifier_RecoversOnRetry(t *testing.T) {
	n, c := newTestNotifier(t, 1)

	require.NoError(t, n.Notify(context.Background(), "sarah@school.test", hello))
	assert.Equal(t, 2, c.calls)
}

func TestNotifier_SkipsNonEmailHandle(t *testing.T) {
	n, c := newTestNotifier(t, 0)

	require.NoError(t, n.Notify(context.Background(), "S1", hello))
	assert.Equal(t, 0, c.calls)
}

func TestNotifier_SkipsWhenUnconfigured(t *testing.T) {
	n, err := NewNotifier(config.SMTPConfig{}, "Staff Ledger")
	require.NoError(t, err)

	called := false
	n.WithSender(func(string, smtp.Auth, string, []string, []byte) error {
		called = true
		return nil
	}, 0)

	require.NoError(t, n.Notify(context.Background(), "sarah@school.test", hello))
	assert.False(t, called)
}

func TestNotifier_PicksLayoutByKind(t *testing.T) {
	n, c := newTestNotifier(t, 0)

	require.NoError(t, n.Notify(context.Background(), "sarah@school.test", staff.Message{
		Kind: staff.MessageOpenSession,
		Body: "Dear Sarah, you checked in at 08:00 on 2024-03-08 but no check-out was recorded.",
	}))
	assert.Contains(t, c.msg, "Subject: Missing check-out\r\n")
	assert.Contains(t, c.msg, "tapping out")
	assert.NotContains(t, c.msg, "Leave request update")

	require.NoError(t, n.Notify(context.Background(), "sarah@school.test", staff.Message{
		Kind:    staff.MessageLeaveDecided,
		Subject: "Leave request rejected",
		Body:    "rejected",
	}))
	assert.Contains(t, c.msg, "Subject: Leave request rejected\r\n")

	require.NoError(t, n.Notify(context.Background(), "sarah@school.test", hello))
	assert.Contains(t, c.msg, "Subject: Staff ledger notification\r\n")
}
