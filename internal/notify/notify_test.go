package notify

import (
	"errors"
	"fmt"
	"io"
	"net/smtp"
	"strings"
	"testing"

	"github.com/Dan9191/emi-tracker/internal/config"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

func TestQueue_Drain(t *testing.T) {
	var q Queue
	q.Push(Danger, "EMI date cannot be in the past!")
	q.Push(Info, "Loan added")

	got := q.Drain()
	if len(got) != 2 || got[0].Level != Danger || got[1].Text != "Loan added" {
		t.Fatalf("unexpected notices: %+v", got)
	}
	if again := q.Drain(); len(again) != 0 {
		t.Errorf("expected empty queue after drain, got %+v", again)
	}
}

func TestQueue_Bounded(t *testing.T) {
	var q Queue
	for i := 0; i < maxNotices+5; i++ {
		q.Push(Info, fmt.Sprint(i))
	}
	got := q.Drain()
	if len(got) != maxNotices {
		t.Fatalf("expected %d notices, got %d", maxNotices, len(got))
	}
	if got[0].Text != "5" {
		t.Errorf("expected oldest notices to be dropped, first is %s", got[0].Text)
	}
}

func TestReminderText(t *testing.T) {
	testCases := []struct {
		r    Reminder
		want string
	}{
		{Reminder{Name: "Car", Amount: "5000", EMIDate: "2026-10-14", DaysLeft: -1}, "Car: EMI of 5000 was due on 2026-10-14 and is overdue"},
		{Reminder{Name: "Car", Amount: "5000", EMIDate: "2026-10-15", DaysLeft: 0}, "Car: EMI of 5000 is due today"},
		{Reminder{Name: "Car", Amount: "5000", EMIDate: "2026-10-17", DaysLeft: 2}, "Car: EMI of 5000 is due on 2026-10-17 (2 day(s) left)"},
	}
	for _, tc := range testCases {
		if got := tc.r.Text(); got != tc.want {
			t.Errorf("Text() = %q, want %q", got, tc.want)
		}
	}
}

func TestBuildReminderEmail(t *testing.T) {
	e := BuildReminderEmail("tracker@example.com", "me@example.com", []Reminder{
		{Name: "Car", Amount: "5000", EMIDate: "2026-10-14", DaysLeft: -1},
		{Name: "Home", Amount: "12000", EMIDate: "2026-10-16", DaysLeft: 1},
	})
	if e.Subject != "Overdue EMI Notification (1 overdue)" {
		t.Errorf("unexpected subject %q", e.Subject)
	}
	if len(e.To) != 1 || e.To[0] != "me@example.com" {
		t.Errorf("unexpected recipients %v", e.To)
	}
	body := string(e.Text)
	if !strings.Contains(body, "Car: EMI of 5000") || !strings.Contains(body, "Home: EMI of 12000") {
		t.Errorf("body misses reminders:\n%s", body)
	}
}

func TestSender_SendReminders(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	cfg := &config.Config{SMTPHost: "smtp.example.com", SMTPPort: "587", SenderEmail: "tracker@example.com", ReminderEmail: "me@example.com"}
	sender := NewSender(cfg, log)

	var gotAddr string
	sender.send = func(e *email.Email, addr string, _ smtp.Auth) error {
		gotAddr = addr
		return nil
	}
	if err := sender.SendReminders(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAddr != "" {
		t.Errorf("expected no email for no reminders")
	}
	if err := sender.SendReminders([]Reminder{{Name: "Car", Amount: "5000", EMIDate: "2026-10-16", DaysLeft: 1}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAddr != "smtp.example.com:587" {
		t.Errorf("unexpected smtp address %q", gotAddr)
	}

	sender.send = func(*email.Email, string, smtp.Auth) error { return errors.New("connection refused") }
	if err := sender.SendReminders([]Reminder{{Name: "Car", DaysLeft: 1}}); err == nil {
		t.Errorf("expected send error")
	}
}
