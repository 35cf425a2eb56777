package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"mime"
	"net/mail"
	"net/smtp"
	"strconv"
)

// Config holds SMTP configuration
type Config struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
}

// Enabled reports whether enough is configured to send mail.
func (c Config) Enabled() bool {
	return c.SMTPHost != "" && c.FromEmail != ""
}

// Message is a single HTML email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPSender sends mail through an SMTP relay
type SMTPSender struct {
	config Config
	send   sendFunc
}

// NewSMTPSender creates a new SMTP sender
func NewSMTPSender(config Config) *SMTPSender {
	return &SMTPSender{config: config, send: smtp.SendMail}
}

// Send sends msg. smtp.SendMail has no context support, so ctx is only
// checked before dialing.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	to, err := mail.ParseAddress(msg.To)
	if err != nil {
		return fmt.Errorf("invalid recipient %q: %w", msg.To, err)
	}

	addr := s.config.SMTPHost + ":" + strconv.Itoa(s.config.SMTPPort)

	var auth smtp.Auth
	if s.config.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)
	}

	if err := s.send(addr, auth, s.config.FromEmail, []string{to.Address}, s.buildHTMLEmail(to.Address, msg.Subject, msg.HTML)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// buildHTMLEmail builds an HTML email message
func (s *SMTPSender) buildHTMLEmail(to, subject, htmlBody string) []byte {
	from := (&mail.Address{Name: s.config.FromName, Address: s.config.FromEmail}).String()
	headers := fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=\"UTF-8\"\r\n"+
			"\r\n",
		from,
		to,
		mime.QEncoding.Encode("utf-8", subject),
	)

	return []byte(headers + htmlBody)
}

// Render executes an HTML template against data.
func Render(name, tmpl string, data interface{}) (string, error) {
	t, err := template.New(name).Parse(tmpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
