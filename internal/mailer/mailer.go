// Package mailer renders booking notification emails and hands them to
// a delivery collaborator.  Rendering and delivery are separated so the
// queue consumer can be tested with a recording Sender double.
package mailer

import (
	"context"
	"net/smtp"
)

// Message is one fully rendered email ready for delivery.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers a rendered message.  Implementations must be safe
// for concurrent use; the queue consumer calls Send from its delivery
// loop.
type Sender interface {
	Send(ctx context.Context, m Message) error
}

// SMTPSender delivers mail through a plain SMTP relay.  When Username
// is empty the connection is unauthenticated (e.g. a local relay).
type SMTPSender struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// NewSMTPSender returns a Sender backed by the given relay settings.
func NewSMTPSender(host, port, username, password, from string) *SMTPSender {
	return &SMTPSender{Host: host, Port: port, Username: username, Password: password, From: from}
}

// Send assembles the MIME envelope and submits it to the relay.
func (s *SMTPSender) Send(_ context.Context, m Message) error {
	var auth smtp.Auth
	if s.Username != "" {
		auth = smtp.PlainAuth("", s.Username, s.Password, s.Host)
	}
	body := "From: " + s.From + "\r\n" +
		"To: " + m.To + "\r\n" +
		"Subject: " + m.Subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=\"UTF-8\"\r\n" +
		"\r\n" +
		m.HTML
	return smtp.SendMail(s.Host+":"+s.Port, auth, s.From, []string{m.To}, []byte(body))
}
