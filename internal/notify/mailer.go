package notify

import (
	"fmt"
	"log"
	"net/smtp"

	"backend/internal/config"
)

// Mailer sends HTML mail over SMTP. When no host is configured it
// degrades to a logging mock so local development never needs a real
// provider.
type Mailer struct {
	cfg  config.SMTP
	mock bool
}

func NewMailer(cfg config.SMTP) *Mailer {
	m := &Mailer{cfg: cfg, mock: cfg.Host == ""}
	if m.mock {
		log.Println("[NOTIFY] [WARN] SMTP_HOST not set, mail sender running in mock mode")
	}
	return m
}

// Send delivers a single HTML message. Callers decide whether a
// failure is fatal for their request; Send itself never swallows one.
func (m *Mailer) Send(to, subject, htmlBody string) error {
	if m.mock {
		log.Printf("[NOTIFY] [INFO] mock email to=%s subject=%q", to, subject)
		return nil
	}

	headers := map[string]string{
		"From":         m.cfg.From,
		"To":           to,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=\"UTF-8\"",
	}

	var msg string
	for k, v := range headers {
		msg += fmt.Sprintf("%s: %s\r\n", k, v)
	}
	msg += "\r\n" + htmlBody

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	addr := fmt.Sprintf("%s:%s", m.cfg.Host, m.cfg.Port)

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}

	return nil
}
