// Package notify sends the reminder digest over SMTP.
package notify

import (
	"fmt"
	"net/smtp"

	"github.com/ayathanschool/fee-app/app/config"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// Sender delivers plain-text mail with the configured SMTP account.
type Sender struct {
	cfg config.SMTPConfig
	log *logrus.Logger
}

func NewSender(cfg config.SMTPConfig, log *logrus.Logger) *Sender {
	return &Sender{cfg: cfg, log: log}
}

// Configured reports whether SMTP is set up at all; callers skip
// sending when it is not.
func (s *Sender) Configured() bool {
	return s.cfg.Host != "" && s.cfg.From != ""
}

func (s *Sender) Send(to, subject, body string) error {
	if !s.Configured() {
		return fmt.Errorf("smtp is not configured")
	}
	e := email.NewEmail()
	e.From = s.cfg.From
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	if err := e.Send(addr, auth); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	s.log.WithFields(logrus.Fields{"to": to, "subject": subject}).Info("mail sent")
	return nil
}
