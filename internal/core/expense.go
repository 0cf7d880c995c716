// Package core defines the validated expense domain: the Expense value,
// the closed category set, and the parsing rules that guard both.
package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the only accepted date form, YYYY-MM-DD. The fixed width
// and zero padding make lexicographic order equal to chronological order,
// which the report engine relies on.
const DateLayout = "2006-01-02"

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidDate     = errors.New("invalid date")
)

// Expense is a single validated transaction record. Values are immutable
// once constructed; an edit is a delete followed by a re-add.
type Expense struct {
	Date        string
	Category    Category
	Amount      decimal.Decimal
	Description string
}

// New builds an Expense from raw field values. It returns either a fully
// valid Expense or an error wrapping exactly one of ErrInvalidAmount,
// ErrInvalidCategory or ErrInvalidDate; no partially valid value escapes.
func New(amount, category, date, description string) (Expense, error) {
	amt, err := ParseAmount(amount)
	if err != nil {
		return Expense{}, err
	}
	cat, err := ParseCategory(category)
	if err != nil {
		return Expense{}, err
	}
	if err := validateDate(date); err != nil {
		return Expense{}, err
	}
	return Expense{
		Date:        date,
		Category:    cat,
		Amount:      amt,
		Description: strings.TrimSpace(description),
	}, nil
}

func validateDate(date string) error {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return fmt.Errorf("%w: %q is not a calendar date in YYYY-MM-DD form", ErrInvalidDate, date)
	}
	return nil
}

// Equal reports whether two expenses carry the same four field values.
// Deletion matches expenses by this value identity.
func (e Expense) Equal(other Expense) bool {
	return e.Date == other.Date &&
		e.Category == other.Category &&
		e.Amount.Equal(other.Amount) &&
		e.Description == other.Description
}

// Record returns the persisted field values in file column order:
// date, category, amount with two fractional digits, description.
func (e Expense) Record() []string {
	return []string{e.Date, string(e.Category), e.Amount.StringFixed(2), e.Description}
}
