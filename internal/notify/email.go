package notify

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/Dan9191/emi-tracker/internal/config"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// Reminder describes one unpaid EMI that is due soon or overdue.
type Reminder struct {
	Name     string
	Amount   string
	EMIDate  string
	DaysLeft int
}

// Overdue reports whether the EMI date has passed.
func (r Reminder) Overdue() bool { return r.DaysLeft < 0 }

// Text is the one-line form used for notices and e-mail bodies.
func (r Reminder) Text() string {
	if r.Overdue() {
		return fmt.Sprintf("%s: EMI of %s was due on %s and is overdue", r.Name, r.Amount, r.EMIDate)
	}
	if r.DaysLeft == 0 {
		return fmt.Sprintf("%s: EMI of %s is due today", r.Name, r.Amount)
	}
	return fmt.Sprintf("%s: EMI of %s is due on %s (%d day(s) left)", r.Name, r.Amount, r.EMIDate, r.DaysLeft)
}

// Sender handles sending reminder emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
	send   func(e *email.Email, addr string, a smtp.Auth) error
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
		send:   func(e *email.Email, addr string, a smtp.Auth) error { return e.Send(addr, a) },
	}
}

// SendReminders sends a single email listing all reminders
func (s *Sender) SendReminders(reminders []Reminder) error {
	if len(reminders) == 0 {
		return nil
	}
	e := BuildReminderEmail(s.cfg.SenderEmail, s.cfg.ReminderEmail, reminders)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	if err := s.send(e, addr, auth); err != nil {
		s.logger.Errorf("Failed to send reminder email to %s: %v", s.cfg.ReminderEmail, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", s.cfg.ReminderEmail, e.Subject)
	return nil
}

// BuildReminderEmail formats the reminder email
func BuildReminderEmail(from, to string, reminders []Reminder) *email.Email {
	e := email.NewEmail()
	e.From = from
	e.To = []string{to}

	overdue := 0
	for _, r := range reminders {
		if r.Overdue() {
			overdue++
		}
	}
	if overdue > 0 {
		e.Subject = fmt.Sprintf("Overdue EMI Notification (%d overdue)", overdue)
	} else {
		e.Subject = "Upcoming EMI Reminder"
	}

	var body strings.Builder
	body.WriteString("Hello,\n\nThe following EMIs need your attention:\n\n")
	for _, r := range reminders {
		body.WriteString("  - " + r.Text() + "\n")
	}
	body.WriteString("\nMark them as paid in the tracker once settled.\n\nEMI Tracker")
	e.Text = []byte(body.String())
	return e
}
