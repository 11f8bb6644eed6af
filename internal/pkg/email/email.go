package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"strings"
	"time"

	"github.com/cmlabs-hris/staff-ledger/internal/config"
	"github.com/cmlabs-hris/staff-ledger/internal/domain/staff"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	maxRetries      = 3
	defaultTemplate = "notification.html"
	defaultSubject  = "Staff ledger notification"
)

type kindLayout struct {
	template string
	subject  string
}

// layouts picks the template and fallback subject for each message kind.
var layouts = map[staff.MessageKind]kindLayout{
	staff.MessageLeaveDecided: {template: "leave_decision.html", subject: "Leave request update"},
	staff.MessageOpenSession:  {template: "open_session.html", subject: "Missing check-out"},
}

// SendFunc matches smtp.SendMail.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Notifier delivers ledger notifications by email. Contact handles that are
// not email addresses are skipped.
type Notifier struct {
	cfg       config.SMTPConfig
	appName   string
	templates *template.Template
	send      SendFunc
	backoff   time.Duration
}

// NewNotifier creates a new email notifier
func NewNotifier(cfg config.SMTPConfig, appName string) (*Notifier, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &Notifier{
		cfg:       cfg,
		appName:   appName,
		templates: tmpl,
		send:      smtp.SendMail,
		backoff:   time.Second,
	}, nil
}

// WithSender replaces the SMTP transport. Tests use it to capture mail.
func (n *Notifier) WithSender(send SendFunc, backoff time.Duration) *Notifier {
	n.send = send
	n.backoff = backoff
	return n
}

type notificationEmailData struct {
	AppName string
	Subject string
	Message string
}

// Notify implements staff.Notifier.
func (n *Notifier) Notify(ctx context.Context, contactHandle string, msg staff.Message) error {
	if !strings.Contains(contactHandle, "@") {
		slog.Debug("Contact handle is not an email address, skipping email", "contact_handle", contactHandle)
		return nil
	}

	layout, ok := layouts[msg.Kind]
	if !ok {
		layout = kindLayout{template: defaultTemplate, subject: defaultSubject}
	}
	subject := msg.Subject
	if subject == "" {
		subject = layout.subject
	}

	var body bytes.Buffer
	data := notificationEmailData{AppName: n.appName, Subject: subject, Message: msg.Body}
	if err := n.templates.ExecuteTemplate(&body, layout.template, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return n.sendHTML(ctx, contactHandle, subject, body.String())
}

func (n *Notifier) sendHTML(ctx context.Context, to, subject, htmlBody string) error {
	// Skip sending if SMTP is not configured
	if n.cfg.Host == "" {
		slog.Warn("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return nil
	}

	from := n.cfg.From

	headers := fmt.Sprintf("From: %s <%s>\r\n", n.cfg.FromName, from)
	headers += fmt.Sprintf("To: %s\r\n", to)
	headers += fmt.Sprintf("Subject: %s\r\n", subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	headers += "\r\n"

	message := []byte(headers + htmlBody)

	auth := smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := n.send(addr, auth, from, []string{to}, message)
		if err == nil {
			slog.Info("Email sent successfully", "to", to, "subject", subject, "attempt", attempt)
			return nil
		}

		lastErr = err
		slog.Error("Failed to send email",
			"to", to,
			"subject", subject,
			"attempt", attempt,
			"max_retries", maxRetries,
			"error", err,
		)

		// Exponential backoff: 1x, 2x, 4x
		if attempt < maxRetries {
			select {
			case <-ctx.Done():
				return fmt.Errorf("email to %s cancelled: %w", to, ctx.Err())
			case <-time.After(n.backoff << (attempt - 1)):
			}
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, lastErr)
}
