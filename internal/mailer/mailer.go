package mailer

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
)

// Message is a plain-text notification email
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer sends notification emails. Sends are best-effort everywhere in the
// services: a failed send is logged and never fails the calling operation.
type Mailer interface {
	Send(msg Message) error
}

type smtpMailer struct {
	host     string
	port     string
	username string
	password string
	from     string
}

// NewFromEnv builds a Mailer from SMTP_* environment variables.
// Without SMTP_HOST configured it returns a no-op mailer that only logs,
// so development setups work without a mail server.
func NewFromEnv() Mailer {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		log.Println("SMTP_HOST not set, email notifications disabled")
		return &noopMailer{}
	}

	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}

	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = "no-reply@risabur.local"
	}

	return &smtpMailer{
		host:     host,
		port:     port,
		username: os.Getenv("SMTP_USERNAME"),
		password: os.Getenv("SMTP_PASSWORD"),
		from:     from,
	}
}

func (m *smtpMailer) Send(msg Message) error {
	body := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		m.from, msg.To, msg.Subject, msg.Body)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	addr := m.host + ":" + m.port
	if err := smtp.SendMail(addr, auth, m.from, []string{msg.To}, []byte(body)); err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.To, err)
	}
	return nil
}

type noopMailer struct{}

func (m *noopMailer) Send(msg Message) error {
	log.Printf("mailer disabled, skipping email to %s (%s)", msg.To, msg.Subject)
	return nil
}
