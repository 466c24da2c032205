package services

import (
	"errors"
	"fmt"
	"mime"
	"net/mail"
	"net/smtp"
	"strings"

	"health-insurance-web/internal/config"
)

var ErrMailerNotConfigured = errors.New("email sender is not configured")

type EmailService struct {
	cfg config.SMTPConfig
}

func NewEmailService(cfg config.SMTPConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

func (s *EmailService) IsConfigured() bool {
	return s.cfg.Host != "" && s.cfg.Username != "" && s.cfg.Password != "" && s.cfg.From != ""
}

// Send delivers a plain text message. senderName is shown as the display
// name on the From header; the address is always the configured relay sender.
func (s *EmailService) Send(to, senderName, subject, body string) error {
	if !s.IsConfigured() {
		return ErrMailerNotConfigured
	}

	addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	return smtp.SendMail(addr, auth, s.cfg.From, []string{to}, buildMessage(s.cfg.From, senderName, to, subject, body))
}

// buildMessage assembles the raw message. Header values are encoded, so a
// line break in senderName or subject can never start a new header.
func buildMessage(from, senderName, to, subject, body string) []byte {
	sender := (&mail.Address{Name: senderName, Address: from}).String()
	return []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n%s",
		sender, to, mime.QEncoding.Encode("utf-8", subject), body))
}

// headerSafe collapses every run of whitespace, line breaks included, into
// one space and trims the ends.
func headerSafe(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
