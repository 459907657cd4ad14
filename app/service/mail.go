package service

import (
	"fmt"
	"net"
	"net/smtp"

	"github.com/vibast-solutions/ms-go-tasks/config"
)

// Mailer delivers a plain-text message. Delivery is best-effort: callers log
// failures but never fail the surrounding auth flow because of one.
type Mailer interface {
	Send(to, subject, body string) error
}

type SMTPMailer struct {
	cfg config.SMTPConfig
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{cfg: cfg.SMTP}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		m.cfg.FromEmail, to, subject, body)

	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	}

	addr := net.JoinHostPort(m.cfg.Host, m.cfg.Port)
	return smtp.SendMail(addr, auth, m.cfg.FromEmail, []string{to}, []byte(msg))
}

func verificationEmail(frontendURL, token string) (string, string) {
	link := fmt.Sprintf("%s/auth/new-verification?token=%s", frontendURL, token)
	body := fmt.Sprintf(`Hello!

Thank you for registering. Please click the link below to verify your email address:

%s

This link will expire in 24 hours.

If you didn't register for an account, you can safely ignore this email.
`, link)
	return "Verify your email address", body
}

func passwordResetEmail(frontendURL, token string) (string, string) {
	link := fmt.Sprintf("%s/auth/new-password?token=%s", frontendURL, token)
	body := fmt.Sprintf(`Hello!

Thank you for your request. Please click the link below to reset your password:

%s

This link will expire in 24 hours.

If you didn't request a password reset, you can safely ignore this email.
`, link)
	return "Forgot Password", body
}

func twoFactorEmail(code string) (string, string) {
	body := fmt.Sprintf(`Hello!

Your two-factor authentication code is: %s

This code is valid for a short period of time. Please use it to complete your login.

If you did not request this code, please ignore this email.
`, code)
	return "Your Two-Factor Authentication Code", body
}
