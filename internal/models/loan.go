package models

import (
	"github.com/Dan9191/emi-tracker/internal/date"
	"github.com/google/uuid"
)

// Loan represents one tracked EMI
type Loan struct {
	ID       uuid.UUID  `json:"id"`
	Name     string     `json:"name"`
	Amount   Amount     `json:"amount"`
	EMIDate  date.Date  `json:"emiDate"`
	Paid     bool       `json:"paid"`
	PaidDate *date.Date `json:"paidDate,omitempty"` // Set once, when Paid becomes true
}

// LoanInput holds the editable fields of a loan as typed in the form
type LoanInput struct {
	Name    string `json:"name"`
	Amount  string `json:"amount"`
	EMIDate string `json:"emiDate"`
}

// Input returns the editable fields of l in form representation
func (l Loan) Input() LoanInput {
	return LoanInput{
		Name:    l.Name,
		Amount:  l.Amount.String(),
		EMIDate: l.EMIDate.String(),
	}
}
