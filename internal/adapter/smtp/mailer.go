// package smtp delivers outbox mail over SMTP
package smtp

import (
	"context"
	"fmt"
	"net"
	"net/smtp"

	"github.com/google/uuid"
	"github.com/jordan-wright/email"

	"github.com/legennd48/backend-js-autograder/internal/core/ports/primary"
	"github.com/legennd48/backend-js-autograder/internal/core/ports/secondary"
)

var _ secondary.Mailer = (*Mailer)(nil)

// Mailer implements the Mailer interface over SMTP with PLAIN auth
type Mailer struct {
	addr   string
	auth   smtp.Auth
	from   string
	logger primary.Logger
}

// NewMailer creates a new SMTP mailer. addr is host:port.
func NewMailer(addr, username, password, from string, logger primary.Logger) (*Mailer, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, fmt.Errorf("invalid smtp address %q: %w", addr, err)
	}

	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}

	return &Mailer{
		addr:   addr,
		auth:   auth,
		from:   from,
		logger: logger,
	}, nil
}

// Send delivers one message and returns its Message-ID
func (m *Mailer) Send(ctx context.Context, msg secondary.MailMessage) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	messageID := fmt.Sprintf("<%s@autograder>", uuid.NewString())

	e := email.NewEmail()
	e.From = m.from
	e.To = []string{msg.To}
	e.Subject = msg.Subject
	e.Text = []byte(msg.Text)
	e.HTML = []byte(msg.HTML)
	e.Headers.Set("Message-ID", messageID)

	if err := e.Send(m.addr, m.auth); err != nil {
		m.logger.Error("Failed to send email", "to", msg.To, "error", err)
		return "", fmt.Errorf("failed to send email: %w", err)
	}

	m.logger.Info("Email sent", "to", msg.To, "messageId", messageID)
	return messageID, nil
}
