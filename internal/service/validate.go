package service

import (
	"errors"
	"strings"

	"github.com/Dan9191/emi-tracker/internal/date"
	"github.com/Dan9191/emi-tracker/internal/models"
)

// ValidationError is a user input problem; Message is shown to the user as is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// IsValidation reports whether err is a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

const msgMissingFields = "Please fill all fields!"

// validateInput checks the form fields against today and returns the parsed
// values.
func validateInput(in models.LoanInput, today date.Date) (name string, amount models.Amount, on date.Date, err error) {
	name = strings.TrimSpace(in.Name)
	rawAmount := strings.TrimSpace(in.Amount)
	rawDate := strings.TrimSpace(in.EMIDate)
	switch {
	case name == "":
		return "", amount, on, &ValidationError{Field: "name", Message: msgMissingFields}
	case rawAmount == "":
		return "", amount, on, &ValidationError{Field: "amount", Message: msgMissingFields}
	case rawDate == "":
		return "", amount, on, &ValidationError{Field: "emiDate", Message: msgMissingFields}
	}

	amount, err = ValidateAmount(rawAmount)
	if err != nil {
		return "", amount, on, err
	}
	on, err = ValidateEMIDate(rawDate, today)
	if err != nil {
		return "", amount, on, err
	}
	return name, amount, on, nil
}

// ValidateAmount parses a strictly positive amount written in plain decimal
// notation.
func ValidateAmount(raw string) (models.Amount, error) {
	invalid := &ValidationError{Field: "amount", Message: "Amount must be a positive number!"}
	if strings.ContainsAny(raw, "eE") {
		return models.Amount{}, invalid
	}
	amount, err := models.ParseAmount(raw)
	if err != nil || !amount.IsPositive() {
		return models.Amount{}, invalid
	}
	return amount, nil
}

// ValidateEMIDate parses a YYYY-MM-DD date that is not before today.
func ValidateEMIDate(raw string, today date.Date) (date.Date, error) {
	on, err := date.Parse(raw)
	if err != nil {
		return date.Date{}, &ValidationError{Field: "emiDate", Message: "EMI date must be a valid date!"}
	}
	if on.Before(today) {
		return date.Date{}, &ValidationError{Field: "emiDate", Message: "EMI date cannot be in the past!"}
	}
	return on, nil
}
