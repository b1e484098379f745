package models

import (
	"encoding/json"
	"strconv"

	"github.com/shopspring/decimal"
)

// Amount is a loan amount that keeps the text it was entered or stored as,
// so a saved list reads back exactly as written.
type Amount struct {
	decimal.Decimal
	text string
}

// ParseAmount parses text as a decimal amount
func ParseAmount(text string) (Amount, error) {
	d, err := decimal.NewFromString(text)
	if err != nil {
		return Amount{}, err
	}
	return Amount{Decimal: d, text: text}, nil
}

// RequireAmount is like ParseAmount but panics on error
func RequireAmount(text string) Amount {
	a, err := ParseAmount(text)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Amount) String() string {
	if a.text != "" {
		return a.text
	}
	return a.Decimal.String()
}

// MarshalJSON always writes the amount as a JSON string
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts a JSON string or number
func (a *Amount) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*a = Amount{}
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return err
	}
	text := string(b)
	if s, err := strconv.Unquote(text); err == nil {
		text = s
	}
	*a = Amount{Decimal: d, text: text}
	return nil
}
