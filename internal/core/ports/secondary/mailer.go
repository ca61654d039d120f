package secondary

import "context"

// MailMessage is one outgoing email with both HTML and plain-text bodies
type MailMessage struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

type Mailer interface {
	// Send delivers one message, returning the transport message ID when
	// available. Retries are the caller's concern.
	Send(ctx context.Context, msg MailMessage) (messageID string, err error)
}
