package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/Dan9191/emi-tracker/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// LoanStore holds the ordered loan list in memory and mirrors it to a single
// blob. It is not safe for concurrent use; the service serialises access.
type LoanStore struct {
	blobs BlobStore
	key   string
	log   *logrus.Logger
	loans []models.Loan
}

// NewLoanStore creates an empty store persisting under key.
func NewLoanStore(blobs BlobStore, key string, log *logrus.Logger) *LoanStore {
	return &LoanStore{blobs: blobs, key: key, log: log, loans: []models.Loan{}}
}

// Load replaces the in-memory list with the persisted one. A missing or
// undecodable blob yields an empty list; only backend failures are returned.
func (s *LoanStore) Load(ctx context.Context) error {
	raw, ok, err := s.blobs.Get(ctx, s.key)
	if err != nil {
		return fmt.Errorf("failed to load loans: %w", err)
	}
	s.loans = []models.Loan{}
	if !ok {
		return nil
	}

	var loans []models.Loan
	if err := json.Unmarshal(raw, &loans); err != nil {
		s.log.Warnf("Ignoring undecodable loan list %q: %v", s.key, err)
		return nil
	}
	for i := range loans {
		if loans[i].ID == uuid.Nil {
			loans[i].ID = uuid.New()
		}
		if loans[i].Paid && loans[i].PaidDate == nil {
			s.log.WithFields(logrus.Fields{"loan_id": loans[i].ID, "name": loans[i].Name}).Warn("Paid loan has no paid date")
		}
	}
	if loans != nil {
		s.loans = loans
	}
	s.log.Debugf("Loaded %d loans from %q", len(s.loans), s.key)
	return nil
}

// Save overwrites the persisted blob with the whole in-memory list.
func (s *LoanStore) Save(ctx context.Context) error {
	raw, err := json.Marshal(s.loans)
	if err != nil {
		return fmt.Errorf("failed to encode loans: %w", err)
	}
	if err := s.blobs.Set(ctx, s.key, raw); err != nil {
		return fmt.Errorf("failed to save loans: %w", err)
	}
	return nil
}

// All returns a copy of the list in its canonical order.
func (s *LoanStore) All() []models.Loan {
	return slices.Clone(s.loans)
}

// Len returns the number of loans.
func (s *LoanStore) Len() int { return len(s.loans) }

// Get returns the loan with the given ID.
func (s *LoanStore) Get(id uuid.UUID) (models.Loan, bool) {
	i := s.index(id)
	if i < 0 {
		return models.Loan{}, false
	}
	return s.loans[i], true
}

// Append adds a loan at the end of the list.
func (s *LoanStore) Append(l models.Loan) {
	s.loans = append(s.loans, l)
}

// Update applies fn to the loan with the given ID in place.
func (s *LoanStore) Update(id uuid.UUID, fn func(*models.Loan)) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	fn(&s.loans[i])
	return true
}

// Delete removes the loan with the given ID, keeping the order of the others.
func (s *LoanStore) Delete(id uuid.UUID) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.loans = slices.Delete(s.loans, i, i+1)
	return true
}

// Sort reorders the canonical list in place. The sort is stable.
func (s *LoanStore) Sort(cmp func(a, b models.Loan) int) {
	slices.SortStableFunc(s.loans, cmp)
}

func (s *LoanStore) index(id uuid.UUID) int {
	return slices.IndexFunc(s.loans, func(l models.Loan) bool { return l.ID == id })
}
