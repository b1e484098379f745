package service

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"sync"
	"time"

	"github.com/Dan9191/emi-tracker/internal/date"
	"github.com/Dan9191/emi-tracker/internal/models"
	"github.com/Dan9191/emi-tracker/internal/notify"
	"github.com/Dan9191/emi-tracker/internal/presenter"
	"github.com/Dan9191/emi-tracker/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrNotFound       = errors.New("loan not found")
	ErrAlreadyPaid    = errors.New("loan is already paid")
	ErrNothingPending = errors.New("no action awaiting confirmation")
)

// Action is a change that needs the user's confirmation.
type Action string

const (
	ActionDelete Action = "delete"
	ActionPaid   Action = "paid"
)

// Prompt is the question asked before running the action.
func (a Action) Prompt() string {
	if a == ActionDelete {
		return "Are you sure you want to delete this loan?"
	}
	return "Mark this loan as paid?"
}

// Pending is an action waiting for confirmation.
type Pending struct {
	ID     uuid.UUID
	Action Action
}

// Mailer delivers reminders out of band.
type Mailer interface {
	SendReminders(reminders []notify.Reminder) error
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithCurrency sets the display currency code.
func WithCurrency(code string) Option {
	return func(s *Service) { s.currency = code }
}

// Service is the controller of the tracker: it owns the loan store and the
// transient UI state (form, edit target, pending confirmation, view mode) and
// keeps a rendered view up to date. All methods are safe for concurrent use;
// they are serialised so a mutation, its save and the re-render never
// interleave with another.
type Service struct {
	mu       sync.Mutex
	store    *repository.LoanStore
	log      *logrus.Logger
	notices  notify.Queue
	now      func() time.Time
	currency string

	mode    presenter.ViewMode
	form    models.LoanInput
	editID  uuid.UUID
	pending *Pending

	projection presenter.Projection
	view       template.HTML
}

// NewService initializes a new service
func NewService(store *repository.LoanStore, log *logrus.Logger, opts ...Option) *Service {
	s := &Service{
		store:    store,
		log:      log,
		now:      time.Now,
		currency: "INR",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) today() date.Date { return date.Of(s.now()) }

// Start loads the persisted loans and renders them once.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Load(ctx); err != nil {
		return err
	}
	s.log.Infof("Tracker started with %d loans", s.store.Len())
	s.render()
	return nil
}

// Submit adds a new loan, or updates the loan being edited.
func (s *Service) Submit(ctx context.Context, in models.LoanInput) (models.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name, amount, on, err := validateInput(in, s.today())
	if err != nil {
		s.form = in
		s.notices.Push(notify.Danger, err.Error())
		s.log.Debugf("Rejected loan input: %v", err)
		return models.Loan{}, err
	}

	var loan models.Loan
	if s.editID != uuid.Nil {
		id := s.editID
		ok := s.store.Update(id, func(l *models.Loan) {
			l.Name = name
			l.Amount = amount
			l.EMIDate = on
			loan = *l
		})
		s.editID = uuid.Nil
		if !ok {
			s.form = in
			s.notices.Push(notify.Warning, "The loan being edited no longer exists.")
			s.render()
			return models.Loan{}, ErrNotFound
		}
		s.log.WithFields(logrus.Fields{"loan_id": id, "action": "update"}).Info("Loan updated")
	} else {
		loan = s.appendLoan(name, amount, on)
	}
	s.form = models.LoanInput{}

	err = s.persist(ctx)
	s.render()
	return loan, err
}

// Add appends a new loan. Unlike Submit it leaves the form, the edit target
// and the notices alone.
func (s *Service) Add(ctx context.Context, in models.LoanInput) (models.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name, amount, on, err := validateInput(in, s.today())
	if err != nil {
		s.log.Debugf("Rejected loan input: %v", err)
		return models.Loan{}, err
	}
	loan := s.appendLoan(name, amount, on)
	err = s.persist(ctx)
	s.render()
	return loan, err
}

func (s *Service) appendLoan(name string, amount models.Amount, on date.Date) models.Loan {
	loan := models.Loan{ID: uuid.New(), Name: name, Amount: amount, EMIDate: on}
	s.store.Append(loan)
	s.log.WithFields(logrus.Fields{"loan_id": loan.ID, "action": "add"}).Info("Loan added")
	return loan
}

// BeginEdit loads the loan's editable fields into the form.
func (s *Service) BeginEdit(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	loan, ok := s.store.Get(id)
	if !ok {
		s.notices.Push(notify.Warning, "That loan no longer exists.")
		return ErrNotFound
	}
	s.form = loan.Input()
	s.editID = id
	return nil
}

// CancelEdit leaves edit mode and clears the form.
func (s *Service) CancelEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editID = uuid.Nil
	s.form = models.LoanInput{}
}

// RequestDelete asks for confirmation before deleting the loan.
func (s *Service) RequestDelete(id uuid.UUID) error {
	return s.request(id, ActionDelete)
}

// RequestMarkPaid asks for confirmation before marking the loan paid.
func (s *Service) RequestMarkPaid(id uuid.UUID) error {
	return s.request(id, ActionPaid)
}

func (s *Service) request(id uuid.UUID, action Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	loan, ok := s.store.Get(id)
	if !ok {
		s.notices.Push(notify.Warning, "That loan no longer exists.")
		return ErrNotFound
	}
	if action == ActionPaid && loan.Paid {
		s.notices.Push(notify.Warning, "This loan is already paid.")
		return ErrAlreadyPaid
	}
	s.pending = &Pending{ID: id, Action: action}
	return nil
}

// Confirm runs the pending action. The pending state is cleared whatever the
// outcome.
func (s *Service) Confirm(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.pending
	s.pending = nil
	if p == nil {
		return ErrNothingPending
	}

	fields := logrus.Fields{"loan_id": p.ID, "action": string(p.Action)}
	switch p.Action {
	case ActionDelete:
		if !s.store.Delete(p.ID) {
			s.notices.Push(notify.Warning, "That loan no longer exists.")
			return ErrNotFound
		}
		if s.editID == p.ID {
			s.editID = uuid.Nil
			s.form = models.LoanInput{}
		}
		s.log.WithFields(fields).Info("Loan deleted")
	case ActionPaid:
		loan, ok := s.store.Get(p.ID)
		if !ok {
			s.notices.Push(notify.Warning, "That loan no longer exists.")
			return ErrNotFound
		}
		if loan.Paid {
			s.notices.Push(notify.Warning, "This loan is already paid.")
			return ErrAlreadyPaid
		}
		today := s.today()
		s.store.Update(p.ID, func(l *models.Loan) {
			l.Paid = true
			l.PaidDate = &today
		})
		s.log.WithFields(fields).Info("Loan marked paid")
	}

	err := s.persist(ctx)
	s.render()
	return err
}

// Cancel drops the pending action.
func (s *Service) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
}

// ToggleView switches between the table and the card view.
func (s *Service) ToggleView() presenter.ViewMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = s.mode.Toggle()
	s.render()
	return s.mode
}

// Refresh re-renders the current view so countdowns follow the clock.
func (s *Service) Refresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.render()
}

// Pending returns the action awaiting confirmation, if any.
func (s *Service) Pending() (Pending, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return Pending{}, false
	}
	return *s.pending, true
}

// Editing returns the ID of the loan being edited, if any.
func (s *Service) Editing() (uuid.UUID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editID, s.editID != uuid.Nil
}

// Loans returns the loans in their current canonical order.
func (s *Service) Loans() []models.Loan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.All()
}

// Projection returns the projection behind the last render.
func (s *Service) Projection() presenter.Projection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projection
}

// Page assembles the page and drains the queued notices.
func (s *Service) Page() presenter.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	page := presenter.Page{
		View:    s.view,
		Mode:    s.mode,
		Form:    s.form,
		Editing: s.editID != uuid.Nil,
		MinDate: s.today().String(),
		Notices: s.notices.Drain(),
	}
	if s.pending != nil {
		page.Dialog = &presenter.Dialog{Message: s.pending.Action.Prompt()}
	}
	return page
}

// Reminders lists unpaid loans due within days, overdue ones included.
func (s *Service) Reminders(days int) []notify.Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()
	today := s.today()
	var out []notify.Reminder
	for _, l := range s.store.All() {
		if l.Paid {
			continue
		}
		left := today.DaysUntil(l.EMIDate)
		if left > days {
			continue
		}
		out = append(out, notify.Reminder{
			Name:     l.Name,
			Amount:   l.Amount.StringFixed(2),
			EMIDate:  l.EMIDate.String(),
			DaysLeft: left,
		})
	}
	return out
}

// Remind queues a notice per due reminder and mails them when mailer is set.
func (s *Service) Remind(days int, mailer Mailer) error {
	reminders := s.Reminders(days)
	for _, r := range reminders {
		level := notify.Warning
		if r.Overdue() {
			level = notify.Danger
		}
		s.notices.Push(level, r.Text())
	}
	s.log.Infof("Reminders due: %d", len(reminders))
	if mailer == nil {
		return nil
	}
	return mailer.SendReminders(reminders)
}

// persist saves the store; a failure keeps the in-memory change and is
// reported to the user.
func (s *Service) persist(ctx context.Context) error {
	if err := s.store.Save(ctx); err != nil {
		s.log.Errorf("Failed to persist loans: %v", err)
		s.notices.Push(notify.Danger, "Could not save your loans, changes may be lost.")
		return fmt.Errorf("persist: %w", err)
	}
	return nil
}

// render sorts the canonical list and rebuilds the cached view. Must be
// called with s.mu held.
func (s *Service) render() {
	s.store.Sort(presenter.Compare)
	s.projection = presenter.Project(s.store.All(), s.today(), s.mode, s.currency)
	view, err := presenter.RenderView(s.projection)
	if err != nil {
		s.log.Errorf("Failed to render view: %v", err)
		return
	}
	s.view = view
}
