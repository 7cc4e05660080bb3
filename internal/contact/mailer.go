package contact

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/models"
)

// Mailer delivers a contact message to the site owner.
type Mailer interface {
	Send(ctx context.Context, msg models.ContactMessage) error
}

// ErrNotConfigured is returned by SMTPMailer when credentials or the recipient are missing.
var ErrNotConfigured = errors.New("smtp credentials not configured")

// SMTPMailer sends messages through an SMTP relay using STARTTLS and PLAIN auth.
type SMTPMailer struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string // defaults to Username
	To       string
	Timeout  time.Duration
}

// Configured reports whether the mailer has everything it needs to send.
func (m *SMTPMailer) Configured() bool {
	return m.Host != "" && m.Port > 0 && m.Username != "" && m.Password != "" && m.To != ""
}

func (m *SMTPMailer) from() string {
	if m.From != "" {
		return m.From
	}
	return m.Username
}

// Send delivers msg. Every failure matches apperr.ErrTransportFailure.
func (m *SMTPMailer) Send(ctx context.Context, msg models.ContactMessage) error {
	if !m.Configured() {
		return fmt.Errorf("%w: %w", apperr.ErrTransportFailure, ErrNotConfigured)
	}
	if err := m.send(ctx, msg); err != nil {
		return fmt.Errorf("%w: smtp: %w", apperr.ErrTransportFailure, err)
	}
	return nil
}

func (m *SMTPMailer) send(ctx context.Context, msg models.ContactMessage) error {
	timeout := m.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	addr := net.JoinHostPort(m.Host, strconv.Itoa(m.Port))
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, m.Host)
	if err != nil {
		conn.Close()
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); !ok {
		return errors.New("server does not support STARTTLS")
	}
	if err := c.StartTLS(&tls.Config{ServerName: m.Host, MinVersion: tls.VersionTLS12}); err != nil {
		return fmt.Errorf("starttls: %w", err)
	}
	if err := c.Auth(smtp.PlainAuth("", m.Username, m.Password, m.Host)); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.Mail(m.from()); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := c.Rcpt(m.To); err != nil {
		return fmt.Errorf("rcpt to: %w", err)
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write(composeMessage(m.from(), m.To, msg)); err != nil {
		return fmt.Errorf("write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close body: %w", err)
	}
	return c.Quit()
}

// Subject returns the email subject line for msg.
func Subject(msg models.ContactMessage) string {
	if msg.Subject != "" {
		return "Portfolio Contact: " + msg.Subject
	}
	return "Portfolio Contact from " + msg.SenderName
}

var headerSanitizer = strings.NewReplacer("\r", " ", "\n", " ")

func composeMessage(from, to string, msg models.ContactMessage) []byte {
	var b bytes.Buffer
	header := func(k, v string) {
		b.WriteString(k + ": " + headerSanitizer.Replace(v) + "\r\n")
	}
	header("From", from)
	header("To", to)
	header("Reply-To", msg.SenderEmail)
	header("Subject", Subject(msg))
	header("Date", msg.SubmittedAt.Format(time.RFC1123Z))
	header("MIME-Version", "1.0")
	header("Content-Type", "text/plain; charset=UTF-8")
	b.WriteString("\r\n")

	lines := []string{
		"New contact form submission from portfolio website:",
		"",
		"Name: " + msg.SenderName,
		"Email: " + msg.SenderEmail,
		"Subject: " + msg.Subject,
		"",
		"Message:",
	}
	lines = append(lines, strings.Split(strings.ReplaceAll(msg.Body, "\r\n", "\n"), "\n")...)
	lines = append(lines,
		"",
		"---",
		"This message was sent from the portfolio contact form.",
		"Reply directly to this email to respond to "+msg.SenderName+".",
	)
	for _, l := range lines {
		b.WriteString(l + "\r\n")
	}
	return b.Bytes()
}
