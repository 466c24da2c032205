package services

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"health-insurance-web/internal/models"
)

// Mailer sends one transactional email.
type Mailer interface {
	Send(to, senderName, subject, body string) error
}

// MissingFieldsError lists the contact form fields left empty.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

type ContactService struct {
	mailer       Mailer
	supportEmail string
}

func NewContactService(mailer Mailer, supportEmail string) *ContactService {
	return &ContactService{mailer: mailer, supportEmail: supportEmail}
}

// Submit forwards a contact form message to the support inbox. Nothing is
// sent unless first name, last name, email and message are all filled in.
func (s *ContactService) Submit(in models.ContactInput) error {
	// Name, email and subject end up in mail headers
	in.FirstName = headerSafe(in.FirstName)
	in.LastName = headerSafe(in.LastName)
	in.Email = headerSafe(in.Email)
	in.Subject = headerSafe(in.Subject)
	in.Message = strings.TrimSpace(in.Message)

	var missing []string
	if in.FirstName == "" {
		missing = append(missing, "first_name")
	}
	if in.LastName == "" {
		missing = append(missing, "last_name")
	}
	if in.Email == "" {
		missing = append(missing, "email")
	}
	if in.Message == "" {
		missing = append(missing, "message")
	}
	if len(missing) > 0 {
		return &MissingFieldsError{Fields: missing}
	}

	sender := in.FirstName + " " + in.LastName
	if err := s.mailer.Send(s.supportEmail, sender, contactSubject(in.Subject), formatContact(in)); err != nil {
		log.Error().Err(err).Str("from", in.Email).Msg("contact message not delivered")
		return fmt.Errorf("send contact message: %w", err)
	}

	log.Info().Str("from", in.Email).Msg("contact message forwarded")
	return nil
}

func contactSubject(subject string) string {
	if subject == "" {
		return "New contact form message"
	}
	return "Contact form: " + subject
}

func formatContact(in models.ContactInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s %s\n", in.FirstName, in.LastName)
	fmt.Fprintf(&b, "Email: %s\n", in.Email)
	if in.Subject != "" {
		fmt.Fprintf(&b, "Subject: %s\n", in.Subject)
	}
	fmt.Fprintf(&b, "\n%s\n", in.Message)
	return b.String()
}
