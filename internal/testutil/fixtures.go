// Package testutil provides shared helpers for package tests.
package testutil

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/jnx001/finance-manager/internal/core"
)

// MustExpense builds a validated expense or fails the test immediately.
func MustExpense(t *testing.T, amount, category, date, description string) core.Expense {
	t.Helper()
	e, err := core.New(amount, category, date, description)
	if err != nil {
		t.Fatalf("build expense (%s, %s, %s): %v", amount, category, date, err)
	}
	return e
}

// AssertAmount fails the test when got does not equal the decimal value
// encoded in want.
func AssertAmount(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	if !decimal.RequireFromString(want).Equal(got) {
		t.Errorf("expected amount %s, got %s", want, got)
	}
}

// AssertNoError fails the test immediately on an unexpected error.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
