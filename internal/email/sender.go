package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type Sender struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Send delivers a single HTML email in one attempt.
func (s *Sender) Send(to, subject, htmlBody, displayName string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	if displayName != "" {
		m.SetAddressHeader("To", to, displayName)
	} else {
		m.SetHeader("To", to)
	}
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(s.Host, s.Port, s.Username, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send error: %w", err)
	}

	return nil
}
