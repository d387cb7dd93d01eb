package mail

import (
	"context"
	"fmt"
	"time"

	gomail "github.com/wneessen/go-mail"
)

const sendTimeout = 5 * time.Second

// Message is an outbound email with plain-text and HTML bodies.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Dispatcher delivers messages. Delivery is all-or-nothing; nothing in
// this service retries a failed dispatch.
type Dispatcher interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPDispatcher sends through a configured SMTP relay.
type SMTPDispatcher struct {
	client *gomail.Client
	from   string
}

// NewSMTPDispatcher builds the SMTP client. It does not dial; the
// connection is established per send.
func NewSMTPDispatcher(host string, port int, username, password, from string) (*SMTPDispatcher, error) {
	client, err := gomail.NewClient(host,
		gomail.WithPort(port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(username),
		gomail.WithPassword(password),
	)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &SMTPDispatcher{client: client, from: from}, nil
}

// Send dispatches a single message, bounded by a timeout so a stuck
// relay cannot hold a registration open indefinitely.
func (d *SMTPDispatcher) Send(ctx context.Context, msg Message) error {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	m := gomail.NewMsg()
	if err := m.From(d.from); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("mail to: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextPlain, msg.Text)
	if msg.HTML != "" {
		m.AddAlternativeString(gomail.TypeTextHTML, msg.HTML)
	}

	if err := d.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
