// Package services coordinates the expense domain: validation,
// persistence and reporting behind one facade for the application
// shell.
package services

import (
	"errors"
	"fmt"

	"github.com/jnx001/finance-manager/internal/core"
	"github.com/jnx001/finance-manager/internal/log"
	"github.com/jnx001/finance-manager/internal/report"
	"github.com/jnx001/finance-manager/internal/storage"
)

// ErrExpenseNotFound means no expense in the collection matches the one
// to delete.
var ErrExpenseNotFound = errors.New("expense not found")

// ExpenseService owns the in-memory expense collection and keeps it in
// step with the store. Mutations persist the whole collection; when a
// save fails the in-memory state is left exactly as it was.
type ExpenseService struct {
	store  *storage.CSVStore
	logger *log.Logger

	expenses []core.Expense
}

func NewExpenseService(store *storage.CSVStore, logger *log.Logger) *ExpenseService {
	return &ExpenseService{
		store:  store,
		logger: logger.WithComponent(log.ComponentExpense),
	}
}

// Load replaces the in-memory collection with the persisted one. Rows
// that failed validation are logged and dropped, never fatal.
func (s *ExpenseService) Load() error {
	expenses, warnings, err := s.store.Load()
	if err != nil {
		return fmt.Errorf("load expenses: %w", err)
	}

	for _, w := range warnings {
		s.logger.Warn("Skipping invalid expense row", log.FieldRow, w.Row, log.FieldError, w.Err)
	}
	s.expenses = expenses

	s.logger.Info("Expenses loaded",
		log.FieldCount, len(expenses),
		log.FieldSkipped, len(warnings))
	return nil
}

// AddExpense validates the raw input, appends the expense and persists
// the collection. The new expense is returned for rendering.
func (s *ExpenseService) AddExpense(amount, category, date, description string) (core.Expense, error) {
	e, err := core.New(amount, category, date, description)
	if err != nil {
		return core.Expense{}, err
	}

	next := append(copyExpenses(s.expenses), e)
	if err := s.store.Save(next); err != nil {
		return core.Expense{}, fmt.Errorf("save expenses: %w", err)
	}
	s.expenses = next

	s.logger.Info("Expense added",
		log.FieldCategory, e.Category,
		log.FieldAmount, e.Amount,
		log.FieldDate, e.Date)
	return e, nil
}

// DeleteExpense removes the first expense structurally equal to e and
// persists the result.
func (s *ExpenseService) DeleteExpense(e core.Expense) error {
	idx := -1
	for i := range s.expenses {
		if s.expenses[i].Equal(e) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrExpenseNotFound
	}

	next := copyExpenses(s.expenses)
	next = append(next[:idx], next[idx+1:]...)
	if err := s.store.Save(next); err != nil {
		return fmt.Errorf("save expenses: %w", err)
	}
	s.expenses = next

	s.logger.Info("Expense deleted",
		log.FieldCategory, e.Category,
		log.FieldAmount, e.Amount,
		log.FieldDate, e.Date)
	return nil
}

// ListExpenses returns a copy of the collection in insertion order;
// consumers sort ad hoc for display.
func (s *ExpenseService) ListExpenses() []core.Expense {
	return copyExpenses(s.expenses)
}

// Summary aggregates the whole collection.
func (s *ExpenseService) Summary() report.Summary {
	return report.Summarize(s.expenses)
}

// MonthlyReport aggregates one calendar month.
func (s *ExpenseService) MonthlyReport(year, month int) report.Summary {
	return report.Monthly(s.expenses, year, month)
}

// TopExpenses returns the n largest expenses, descending.
func (s *ExpenseService) TopExpenses(n int) []core.Expense {
	return report.Top(s.expenses, n)
}

// Search filters the collection by the given criteria.
func (s *ExpenseService) Search(f report.Filter) []core.Expense {
	return report.Search(s.expenses, f)
}

// Backup snapshots the data file and returns the backup's name.
func (s *ExpenseService) Backup() (string, error) {
	return s.store.Backup()
}

// RestoreFromBackup overwrites the data file with the named backup. The
// in-memory collection is not refreshed; callers decide when to Load.
func (s *ExpenseService) RestoreFromBackup(name string) error {
	return s.store.Restore(name)
}

// ListBackups returns available backup names, most recent first.
func (s *ExpenseService) ListBackups() ([]string, error) {
	return s.store.ListBackups()
}

func copyExpenses(expenses []core.Expense) []core.Expense {
	out := make([]core.Expense, len(expenses))
	copy(out, expenses)
	return out
}
