package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/sirupsen/logrus"
)

// Mailer sends one-time login codes over SMTP.
type Mailer struct {
	host     string
	port     string
	username string
	password string
	from     string
	logger   *logrus.Logger
}

func New(host, port, username, password, from string, logger *logrus.Logger) *Mailer {
	return &Mailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		logger:   logger,
	}
}

func (m *Mailer) SendOTP(to, code string) error {
	subject := "Your BudgetWise login code"
	body := fmt.Sprintf("Your one-time login code is %s.\n\nIt expires in 10 minutes. If you did not request it, ignore this email.", code)

	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", m.from, to, subject, body))

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	addr := m.host + ":" + m.port
	if err := smtp.SendMail(addr, auth, m.from, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send otp email: %w", err)
	}

	m.logger.WithField("to", to).Info("Sent login code email")
	return nil
}
