// Package presenter turns the loan list into a display-ready projection and
// renders it as HTML, either as a table (normal view) or as cards (smart view).
package presenter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Dan9191/emi-tracker/internal/date"
	"github.com/Dan9191/emi-tracker/internal/models"
	"github.com/Rhymond/go-money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ViewMode selects how the projection is rendered.
type ViewMode int

const (
	NormalView ViewMode = iota // table
	SmartView                  // cards
)

func (m ViewMode) String() string {
	if m == SmartView {
		return "Smart View"
	}
	return "Normal View"
}

// Toggle returns the other view mode.
func (m ViewMode) Toggle() ViewMode {
	if m == SmartView {
		return NormalView
	}
	return SmartView
}

// Status classifies a loan for styling.
type Status string

const (
	StatusPaid    Status = "paid"
	StatusOverdue Status = "overdue"
	StatusPending Status = "pending"
)

// Row is one loan as displayed.
type Row struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Amount        string    `json:"amount"`
	AmountDisplay string    `json:"amountDisplay"`
	EMIDate       string    `json:"emiDate"`
	DaysLeft      int       `json:"daysLeft"`
	Status        Status    `json:"status"`
	PaidDate      string    `json:"paidDate,omitempty"`
}

// Paid reports whether the row is a paid loan.
func (r Row) Paid() bool { return r.Status == StatusPaid }

// Countdown is the countdown cell of the table view.
func (r Row) Countdown() string {
	switch r.Status {
	case StatusPaid:
		if r.PaidDate == "" {
			return "Paid"
		}
		return "Paid on " + r.PaidDate
	case StatusOverdue:
		return "Overdue"
	}
	return fmt.Sprintf("%d day(s)", r.DaysLeft)
}

// CardStatus is the status line of the smart view.
func (r Row) CardStatus() string {
	switch r.Status {
	case StatusPaid:
		if r.PaidDate == "" {
			return "✅ Paid"
		}
		return "✅ Paid on " + r.PaidDate
	case StatusOverdue:
		return "❌ Overdue"
	}
	return fmt.Sprintf("%d day(s) left", r.DaysLeft)
}

// Totals sums amounts per partition.
type Totals struct {
	Paid       decimal.Decimal `json:"-"`
	Due        decimal.Decimal `json:"-"`
	PaidText   string          `json:"paid"`
	DueText    string          `json:"due"`
	PaidAmount string          `json:"paidDisplay"`
	DueAmount  string          `json:"dueDisplay"`
}

// Projection is the sorted, classified and totaled view of the loan list.
type Projection struct {
	Today  string `json:"today"`
	Mode   string `json:"mode"`
	Rows   []Row  `json:"rows"`
	Totals Totals `json:"totals"`

	mode ViewMode
}

// Compare orders unpaid loans before paid ones, then by due date ascending.
func Compare(a, b models.Loan) int {
	if a.Paid != b.Paid {
		if a.Paid {
			return 1
		}
		return -1
	}
	return a.EMIDate.Compare(b.EMIDate)
}

// Classify returns the status of l on the given day.
func Classify(l models.Loan, today date.Date) Status {
	switch {
	case l.Paid:
		return StatusPaid
	case today.DaysUntil(l.EMIDate) < 0:
		return StatusOverdue
	}
	return StatusPending
}

// Project builds the projection of loans as seen on today. The input is not
// modified; rows come out in Compare order.
func Project(loans []models.Loan, today date.Date, mode ViewMode, currency string) Projection {
	sorted := slices.Clone(loans)
	slices.SortStableFunc(sorted, Compare)

	p := Projection{
		Today: today.String(),
		Mode:  mode.String(),
		Rows:  make([]Row, 0, len(sorted)),
		mode:  mode,
	}
	paid, due := decimal.Zero, decimal.Zero
	for _, l := range sorted {
		row := Row{
			ID:            l.ID,
			Name:          l.Name,
			Amount:        l.Amount.String(),
			AmountDisplay: display(l.Amount.Decimal, currency),
			EMIDate:       l.EMIDate.String(),
			DaysLeft:      today.DaysUntil(l.EMIDate),
			Status:        Classify(l, today),
		}
		if l.Paid {
			paid = paid.Add(l.Amount.Decimal)
			if l.PaidDate != nil {
				row.PaidDate = l.PaidDate.String()
			}
		} else {
			due = due.Add(l.Amount.Decimal)
		}
		p.Rows = append(p.Rows, row)
	}
	p.Totals = Totals{
		Paid:       paid,
		Due:        due,
		PaidText:   paid.StringFixed(2),
		DueText:    due.StringFixed(2),
		PaidAmount: display(paid, currency),
		DueAmount:  display(due, currency),
	}
	return p
}

// display formats an amount with the currency's symbol, separators and
// template. Digits come from the decimal itself, so there is no upper bound.
func display(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return amount.StringFixed(2)
	}
	whole, frac, _ := strings.Cut(amount.Abs().StringFixed(int32(cur.Fraction)), ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && cur.Thousand != "" && (len(whole)-i)%3 == 0 {
			b.WriteString(cur.Thousand)
		}
		b.WriteRune(r)
	}
	if frac != "" {
		b.WriteString(cur.Decimal)
		b.WriteString(frac)
	}

	out := strings.Replace(cur.Template, "1", b.String(), 1)
	out = strings.Replace(out, "$", cur.Grapheme, 1)
	if amount.IsNegative() {
		out = "-" + out
	}
	return out
}
