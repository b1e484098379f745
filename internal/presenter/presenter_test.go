package presenter

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/Dan9191/emi-tracker/internal/date"
	"github.com/Dan9191/emi-tracker/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var today = date.MustParse("2026-10-15")

func loan(name, amount string, offset int, paid bool) models.Loan {
	l := models.Loan{
		ID:      uuid.New(),
		Name:    name,
		Amount:  models.RequireAmount(amount),
		EMIDate: today.Add(offset),
	}
	if paid {
		on := today.Add(offset)
		l.Paid = true
		l.PaidDate = &on
	}
	return l
}

func TestProject_SortInvariant(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for round := 0; round < 50; round++ {
		var loans []models.Loan
		n := r.Intn(20)
		for i := 0; i < n; i++ {
			loans = append(loans, loan("L", "10", r.Intn(60)-30, r.Intn(2) == 0))
		}
		byID := map[uuid.UUID]models.Loan{}
		for _, l := range loans {
			byID[l.ID] = l
		}

		p := Project(loans, today, NormalView, "INR")
		seenPaid := false
		var last date.Date
		for i, row := range p.Rows {
			l := byID[row.ID]
			if l.Paid && !seenPaid {
				seenPaid = true
				last = date.Date{}
			}
			if !l.Paid && seenPaid {
				t.Fatalf("round %d: unpaid row %d after a paid one", round, i)
			}
			if !last.IsZero() && l.EMIDate.Before(last) {
				t.Fatalf("round %d: row %d due %s before %s", round, i, l.EMIDate, last)
			}
			last = l.EMIDate
		}
	}
}

func TestProject_DoesNotModifyInput(t *testing.T) {
	loans := []models.Loan{loan("Late", "1", 5, false), loan("Early", "1", 1, false)}
	Project(loans, today, NormalView, "INR")
	if loans[0].Name != "Late" {
		t.Errorf("expected input order preserved")
	}
}

func TestProject_DaysLeftAndStatus(t *testing.T) {
	loans := []models.Loan{
		loan("Today", "1", 0, false),
		loan("Future", "1", 7, false),
		loan("Past", "1", -3, false),
		loan("Paid", "1", -10, true),
	}
	p := Project(loans, today, NormalView, "INR")

	want := map[string]struct {
		days      int
		status    Status
		countdown string
	}{
		"Past":   {-3, StatusOverdue, "Overdue"},
		"Today":  {0, StatusPending, "0 day(s)"},
		"Future": {7, StatusPending, "7 day(s)"},
		"Paid":   {-10, StatusPaid, "Paid on 2026-10-05"},
	}
	order := []string{"Past", "Today", "Future", "Paid"}
	for i, row := range p.Rows {
		if row.Name != order[i] {
			t.Errorf("row %d: expected %s, got %s", i, order[i], row.Name)
		}
		w := want[row.Name]
		if row.DaysLeft != w.days || row.Status != w.status || row.Countdown() != w.countdown {
			t.Errorf("%s: got days=%d status=%s countdown=%q", row.Name, row.DaysLeft, row.Status, row.Countdown())
		}
	}
	if got := p.Rows[2].CardStatus(); got != "7 day(s) left" {
		t.Errorf("unexpected card status %q", got)
	}
}

func TestProject_Totals(t *testing.T) {
	loans := []models.Loan{
		loan("A", "0.1", 1, false),
		loan("B", "0.2", 2, false),
		loan("C", "5000", 3, true),
		loan("D", "12000.55", 4, true),
	}
	p := Project(loans, today, NormalView, "INR")

	if p.Totals.DueText != "0.30" {
		t.Errorf("expected due 0.30, got %s", p.Totals.DueText)
	}
	if p.Totals.PaidText != "17000.55" {
		t.Errorf("expected paid 17000.55, got %s", p.Totals.PaidText)
	}
	all := decimal.Zero
	for _, l := range loans {
		all = all.Add(l.Amount.Decimal)
	}
	if !p.Totals.Paid.Add(p.Totals.Due).Equal(all) {
		t.Errorf("paid + due != sum of all amounts")
	}
	if p.Totals.PaidAmount != "₹17,000.55" {
		t.Errorf("unexpected paid display %q", p.Totals.PaidAmount)
	}
}

func TestProject_EmptyList(t *testing.T) {
	p := Project(nil, today, SmartView, "INR")
	if len(p.Rows) != 0 || p.Totals.PaidText != "0.00" || p.Totals.DueText != "0.00" {
		t.Errorf("unexpected empty projection %+v", p)
	}
	if p.Mode != "Smart View" {
		t.Errorf("unexpected mode %q", p.Mode)
	}
}

func TestRenderView_Table(t *testing.T) {
	loans := []models.Loan{
		loan("<script>x</script>", "100", 2, false),
		loan("Overdue", "50", -1, false),
		loan("Done", "25", -5, true),
	}
	html, err := RenderView(Project(loans, today, NormalView, "INR"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := string(html)
	for _, want := range []string{
		`id="loanTable"`,
		`class="due-row"`,
		`class="paid-row"`,
		"Paid on 2026-10-10",
		"2 day(s)",
		"Paid: 25.00",
		"Due: 150.00",
		"&lt;script&gt;",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("table view misses %q", want)
		}
	}
	if strings.Contains(out, "<script>") {
		t.Errorf("loan names must be escaped")
	}
	if strings.Count(out, "disabled") != 1 {
		t.Errorf("expected exactly the paid loan's Paid button disabled")
	}
}

func TestRenderView_Cards(t *testing.T) {
	loans := []models.Loan{loan("Car", "5000", 1, false), loan("Home", "12000", -2, false)}
	html, err := RenderView(Project(loans, today, SmartView, "INR"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := string(html)
	for _, want := range []string{
		"Amount: ₹5,000.00",
		"1 day(s) left",
		"❌ Overdue",
		"bg-danger",
		"Paid: ₹0.00 | Due: ₹17,000.00",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("card view misses %q", want)
		}
	}
	if strings.Contains(out, "loanTable") {
		t.Errorf("card view must not render the table")
	}
}

func TestRenderView_Idempotent(t *testing.T) {
	loans := []models.Loan{loan("Car", "5000", 1, false), loan("Home", "12000", 3, true)}
	first, _ := RenderView(Project(loans, today, NormalView, "INR"))
	second, _ := RenderView(Project(loans, today, NormalView, "INR"))
	if first != second {
		t.Errorf("expected identical renders")
	}
}

func TestRenderPage(t *testing.T) {
	var b strings.Builder
	page := Page{
		View:    "<p>view</p>",
		Mode:    SmartView,
		Editing: true,
		MinDate: "2026-10-15",
		Dialog:  &Dialog{Message: "Mark this loan as paid?"},
	}
	if err := RenderPage(&b, page); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := b.String()
	for _, want := range []string{"<p>view</p>", ">Update<", ">Normal View<", `min="2026-10-15"`, "Mark this loan as paid?"} {
		if !strings.Contains(out, want) {
			t.Errorf("page misses %q", want)
		}
	}
	if strings.Contains(out, `http-equiv="refresh"`) {
		t.Errorf("page must not auto refresh while editing")
	}

	b.Reset()
	if err := RenderPage(&b, Page{MinDate: "2026-10-15"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out := b.String(); !strings.Contains(out, `http-equiv="refresh"`) || !strings.Contains(out, ">Add<") || !strings.Contains(out, ">Smart View<") {
		t.Errorf("unexpected idle page:\n%s", out)
	}
}

func TestProject_HugeAmount(t *testing.T) {
	loans := []models.Loan{loan("Big", "100000000000000000000", 1, false)}
	const want = "₹100,000,000,000,000,000,000.00"

	p := Project(loans, today, SmartView, "INR")
	if p.Rows[0].AmountDisplay != want || p.Totals.DueAmount != want {
		t.Errorf("unexpected display %q / %q", p.Rows[0].AmountDisplay, p.Totals.DueAmount)
	}
	if p.Totals.DueText != "100000000000000000000.00" {
		t.Errorf("unexpected due %s", p.Totals.DueText)
	}

	cards, err := RenderView(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(cards), "Amount: "+want) {
		t.Errorf("card view misses %q", want)
	}
	table, err := RenderView(Project(loans, today, NormalView, "INR"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(table), "Due: 100000000000000000000.00") {
		t.Errorf("table view shows the wrong total")
	}
}

func TestDisplay(t *testing.T) {
	tests := []struct {
		amount, currency, want string
	}{
		{"0", "INR", "₹0.00"},
		{"999.5", "INR", "₹999.50"},
		{"1234567.891", "INR", "₹1,234,567.89"},
		{"1500", "JPY", "¥1,500"},
		{"1234.5", "SEK", "1,234.50 kr"},
		{"-12", "USD", "-$12.00"},
		{"3.14159", "XYZ", "3.14"},
	}
	for _, tt := range tests {
		if got := display(decimal.RequireFromString(tt.amount), tt.currency); got != tt.want {
			t.Errorf("display(%s, %s) = %q, want %q", tt.amount, tt.currency, got, tt.want)
		}
	}
}

func TestRow_PaidWithoutDate(t *testing.T) {
	l := loan("Old", "10", -3, true)
	l.PaidDate = nil
	row := Project([]models.Loan{l}, today, NormalView, "INR").Rows[0]
	if row.Countdown() != "Paid" || row.CardStatus() != "✅ Paid" {
		t.Errorf("unexpected paid labels %q / %q", row.Countdown(), row.CardStatus())
	}
}
