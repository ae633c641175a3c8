// Package mailer sends transactional email over SMTP. Templates live in
// templates.go; every builder returns an Email with both HTML and plain
// text bodies so clients that strip HTML still get something readable.
package mailer

import (
	"fmt"
	"net/smtp"

	"go.uber.org/zap"
)

// Email is a single outbound message. To is set by the caller after the
// template builder fills in subject and bodies.
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Mailer sends email through a single SMTP relay.
type Mailer struct {
	host string
	port string
	from string
	auth smtp.Auth
	log  *zap.Logger
}

// New builds a Mailer. With an empty host the mailer is disabled: Send
// logs the subject and recipient instead of dialing, which keeps local
// development and tests from needing an SMTP server.
func New(host, port, from, password string, log *zap.Logger) *Mailer {
	m := &Mailer{host: host, port: port, from: from, log: log}
	if password != "" {
		m.auth = smtp.PlainAuth("", from, password, host)
	}
	return m
}

// Enabled reports whether a relay host is configured.
func (m *Mailer) Enabled() bool { return m.host != "" }

// Send delivers one email. Errors are returned, not fatal: callers decide
// whether a failed notification should fail the request (it usually
// should not).
func (m *Mailer) Send(e Email) error {
	if !m.Enabled() {
		m.log.Info("mailer disabled, dropping email",
			zap.String("to", e.To), zap.String("subject", e.Subject))
		return nil
	}

	msg := []byte("From: " + m.from + "\r\n" +
		"To: " + e.To + "\r\n" +
		"Subject: " + e.Subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n" +
		e.HTMLBody + "\r\n")

	if err := smtp.SendMail(m.host+":"+m.port, m.auth, m.from, []string{e.To}, msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", e.To, err)
	}
	return nil
}

// SendAsync fires Send on a goroutine and logs the error, for call sites
// where delivery must never block or fail the request.
func (m *Mailer) SendAsync(e Email) {
	go func() {
		if err := m.Send(e); err != nil {
			m.log.Error("email send failed",
				zap.String("to", e.To), zap.String("subject", e.Subject), zap.Error(err))
		}
	}()
}
