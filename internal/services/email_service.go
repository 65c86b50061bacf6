package services

import (
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"dealdesk/internal/lifecycle"
)

type EmailService interface {
	SendWelcomeEmail(email, fullName string) error
	SendAttentionDigest(email string, items []lifecycle.PriorityItem) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailService) SendWelcomeEmail(email, fullName string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Welcome to DealDesk!")

	body := fmt.Sprintf(`
		<h2>Welcome to DealDesk, %s!</h2>
		<p>Your account has been successfully created.</p>
		<p>Best regards,<br>The DealDesk Team</p>
	`, fullName)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}

	return nil
}

// SendAttentionDigest mails the recipient their current priority worklist.
func (s *emailService) SendAttentionDigest(email string, items []lifecycle.PriorityItem) error {
	if len(items) == 0 {
		return nil
	}

	var rows strings.Builder
	for _, it := range items {
		rows.WriteString(fmt.Sprintf("<li><strong>%s</strong> — %s (%s)</li>\n", it.Title, it.Description, it.ActionLabel))
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", fmt.Sprintf("%d deals need your attention", len(items)))
	m.SetBody("text/html", fmt.Sprintf(`
                <h3>Deals waiting on you</h3>
                <ul>%s</ul>
        `, rows.String()))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send attention digest: %w", err)
	}

	return nil
}
