package service

import (
	"testing"

	"github.com/Dan9191/emi-tracker/internal/date"
)

func TestValidateAmount(t *testing.T) {
	for _, raw := range []string{"0.01", "1", "5000", "12000.50", "100000000000000000000"} {
		if _, err := ValidateAmount(raw); err != nil {
			t.Errorf("ValidateAmount(%q) error = %v, want nil", raw, err)
		}
	}
	for _, raw := range []string{"0", "-1", "abc", "1,000", "NaN", "1e3", "1E20"} {
		if _, err := ValidateAmount(raw); !IsValidation(err) {
			t.Errorf("ValidateAmount(%q) error = %v, want validation error", raw, err)
		}
	}
}

func TestValidateEMIDate(t *testing.T) {
	today := date.MustParse("2026-10-15")
	for _, raw := range []string{"2026-10-15", "2026-10-16", "2027-01-01"} {
		if _, err := ValidateEMIDate(raw, today); err != nil {
			t.Errorf("ValidateEMIDate(%q) error = %v, want nil", raw, err)
		}
	}
	for _, raw := range []string{"2026-10-14", "2020-01-01", "2026-10-1x", "10/16/2026"} {
		if _, err := ValidateEMIDate(raw, today); !IsValidation(err) {
			t.Errorf("ValidateEMIDate(%q) error = %v, want validation error", raw, err)
		}
	}
}

func TestValidateAmount_KeepsText(t *testing.T) {
	amount, err := ValidateAmount("5000.50")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if amount.String() != "5000.50" {
		t.Errorf("expected the entered text kept, got %q", amount.String())
	}
}
