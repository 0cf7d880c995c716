package cli

import (
	"bytes"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jnx001/finance-manager/internal/config"
	"github.com/jnx001/finance-manager/internal/log"
	"github.com/jnx001/finance-manager/internal/services"
	"github.com/jnx001/finance-manager/internal/storage"
)

func newTestShell(t *testing.T, input string) (*Shell, *services.ExpenseService, *bytes.Buffer) {
	t.Helper()

	dir := t.TempDir()
	store, err := storage.New(filepath.Join(dir, "data", "expenses.csv"), filepath.Join(dir, "backups"))
	if err != nil {
		t.Fatalf("storage.New() error = %v", err)
	}
	logger := log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
	service := services.NewExpenseService(store, logger)
	if err := service.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	out := &bytes.Buffer{}
	cfg := &config.Config{DefaultTopN: 2}
	return NewShell(service, cfg, strings.NewReader(input), out, logger), service, out
}

func mustAdd(t *testing.T, service *services.ExpenseService, amount, category, date, description string) {
	t.Helper()
	if _, err := service.AddExpense(amount, category, date, description); err != nil {
		t.Fatalf("AddExpense(%s, %s, %s, %s) error = %v", amount, category, date, description, err)
	}
}

func runShell(t *testing.T, shell *Shell) {
	t.Helper()
	if err := shell.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}

func TestShellExit(t *testing.T) {
	shell, _, out := newTestShell(t, "0\n")
	runShell(t, shell)

	if !strings.Contains(out.String(), "Thank you for using Personal Finance Manager!") {
		t.Errorf("missing goodbye message in output:\n%s", out.String())
	}
}

func TestShellExitsOnEOF(t *testing.T) {
	shell, _, out := newTestShell(t, "")
	if err := shell.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "MAIN MENU:") {
		t.Errorf("menu was never printed:\n%s", out.String())
	}
}

func TestShellRejectsUnknownChoice(t *testing.T) {
	shell, _, out := newTestShell(t, "x\n0\n")
	runShell(t, shell)

	if !strings.Contains(out.String(), "Invalid choice. Please try again.") {
		t.Errorf("missing invalid-choice message in output:\n%s", out.String())
	}
}

func TestShellAddAndViewExpense(t *testing.T) {
	shell, _, out := newTestShell(t, "1\n12.504\nfood\n2024-03-10\ncoffee beans\n2\n0\n")
	runShell(t, shell)

	got := out.String()
	if !strings.Contains(got, "Expense added successfully!") {
		t.Fatalf("missing add confirmation in output:\n%s", got)
	}
	if !strings.Contains(got, "[  1] 2024-03-10 | Food            | ₹     12.50 | coffee beans") {
		t.Errorf("missing expense line in output:\n%s", got)
	}
	if !strings.Contains(got, "Total Expenses: ₹12.50 | Count: 1 | Average: ₹12.50") {
		t.Errorf("missing totals footer in output:\n%s", got)
	}
}

func TestShellAddDefaultsDateToToday(t *testing.T) {
	shell, _, out := newTestShell(t, "1\n10\nfood\n\nsnack\n2\n0\n")
	shell.now = func() time.Time { return time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC) }
	runShell(t, shell)

	if !strings.Contains(out.String(), "2024-05-06") {
		t.Errorf("expense did not default to today's date:\n%s", out.String())
	}
}

func TestShellAddReportsValidationError(t *testing.T) {
	shell, service, out := newTestShell(t, "1\n-5\nfood\n2024-03-10\nbad row\n0\n")
	runShell(t, shell)

	if !strings.Contains(out.String(), "Error: invalid amount") {
		t.Errorf("missing validation error in output:\n%s", out.String())
	}
	if got := len(service.ListExpenses()); got != 0 {
		t.Errorf("ListExpenses() len = %d after rejected add, want 0", got)
	}
}

func TestShellViewAllEmpty(t *testing.T) {
	shell, _, out := newTestShell(t, "2\n0\n")
	runShell(t, shell)

	if !strings.Contains(out.String(), "No expenses recorded yet.") {
		t.Errorf("missing empty-state message in output:\n%s", out.String())
	}
}

func TestShellViewAllOrdersByDateDescending(t *testing.T) {
	shell, service, out := newTestShell(t, "2\n0\n")
	mustAdd(t, service, "10", "food", "2024-01-05", "older")
	mustAdd(t, service, "20", "transport", "2024-03-05", "newer")
	runShell(t, shell)

	got := out.String()
	newer := strings.Index(got, "newer")
	older := strings.Index(got, "older")
	if newer == -1 || older == -1 {
		t.Fatalf("missing expense lines in output:\n%s", got)
	}
	if newer > older {
		t.Errorf("expenses are not listed newest first:\n%s", got)
	}
}

func TestShellCategorySummary(t *testing.T) {
	shell, service, out := newTestShell(t, "3\n0\n")
	mustAdd(t, service, "100", "food", "2024-02-05", "groceries")
	mustAdd(t, service, "300", "utilities", "2024-02-20", "power bill")
	runShell(t, shell)

	got := out.String()
	for _, want := range []string{
		"₹     100.00 |      25.0%",
		"₹     300.00 |      75.0%",
		"TOTAL                | ₹     400.00 |     100.0%",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if food, utils := strings.Index(got, "Food"), strings.Index(got, "Utilities"); food > utils {
		t.Errorf("categories are not listed alphabetically:\n%s", got)
	}
}

func TestShellMonthlyReport(t *testing.T) {
	t.Run("month with expenses", func(t *testing.T) {
		shell, service, out := newTestShell(t, "4\n2024\n2\n0\n")
		mustAdd(t, service, "100", "food", "2024-02-05", "groceries")
		mustAdd(t, service, "300", "utilities", "2024-02-20", "power bill")
		mustAdd(t, service, "50", "food", "2024-03-01", "match next month")
		runShell(t, shell)

		got := out.String()
		for _, want := range []string{
			"Report for February 2024",
			"Total Expenses: ₹400.00",
			"Number of Transactions: 2",
			"Average per Transaction: ₹200.00",
			"₹    300.00 ( 75.0%)",
			"₹    100.00 ( 25.0%)",
		} {
			if !strings.Contains(got, want) {
				t.Errorf("output missing %q:\n%s", want, got)
			}
		}
		if utils, food := strings.Index(got, "Utilities"), strings.Index(got, "Food"); utils == -1 || food == -1 || utils > food {
			t.Errorf("breakdown is not ordered by amount descending:\n%s", got)
		}
	})

	t.Run("empty month", func(t *testing.T) {
		shell, _, out := newTestShell(t, "4\n2024\n2\n0\n")
		runShell(t, shell)
		if !strings.Contains(out.String(), "No expenses for this month.") {
			t.Errorf("missing empty-month message:\n%s", out.String())
		}
	})

	t.Run("rejects month out of range", func(t *testing.T) {
		shell, _, out := newTestShell(t, "4\n2024\n13\n0\n")
		runShell(t, shell)
		if !strings.Contains(out.String(), "Invalid month. Must be between 1 and 12.") {
			t.Errorf("missing invalid-month message:\n%s", out.String())
		}
	})

	t.Run("rejects non-numeric year", func(t *testing.T) {
		shell, _, out := newTestShell(t, "4\ntwenty\n0\n")
		runShell(t, shell)
		if !strings.Contains(out.String(), "Invalid year.") {
			t.Errorf("missing invalid-year message:\n%s", out.String())
		}
	})
}

func TestShellSearch(t *testing.T) {
	seed := func(t *testing.T, service *services.ExpenseService) {
		mustAdd(t, service, "4.50", "food", "2024-01-15", "coffee beans")
		mustAdd(t, service, "30", "transport", "2024-01-20", "bus pass")
	}

	t.Run("keyword is case insensitive", func(t *testing.T) {
		shell, service, out := newTestShell(t, "5\nCOFFEE\n\n\n\n0\n")
		seed(t, service)
		runShell(t, shell)

		got := out.String()
		if !strings.Contains(got, "Found 1 matching expenses") {
			t.Errorf("missing match count in output:\n%s", got)
		}
		if !strings.Contains(got, "coffee beans") || strings.Contains(got, "bus pass") {
			t.Errorf("wrong expenses listed:\n%s", got)
		}
	})

	t.Run("unknown category leaves filter open", func(t *testing.T) {
		shell, service, out := newTestShell(t, "5\n\nnot-a-category\n\n\n0\n")
		seed(t, service)
		runShell(t, shell)

		if !strings.Contains(out.String(), "Found 2 matching expenses") {
			t.Errorf("unparseable category should not filter:\n%s", out.String())
		}
	})

	t.Run("no matches", func(t *testing.T) {
		shell, service, out := newTestShell(t, "5\nyacht\n\n\n\n0\n")
		seed(t, service)
		runShell(t, shell)

		if !strings.Contains(out.String(), "No matching expenses found.") {
			t.Errorf("missing no-match message:\n%s", out.String())
		}
	})
}

func TestShellTopExpenses(t *testing.T) {
	seed := func(t *testing.T, service *services.ExpenseService) {
		mustAdd(t, service, "50", "food", "2024-01-01", "medium")
		mustAdd(t, service, "500", "utilities", "2024-01-02", "largest")
		mustAdd(t, service, "10", "food", "2024-01-03", "smallest")
	}

	t.Run("blank input uses the configured default", func(t *testing.T) {
		shell, service, out := newTestShell(t, "6\n\n0\n")
		seed(t, service)
		runShell(t, shell)

		got := out.String()
		if !strings.Contains(got, "Top 2 Expenses:") {
			t.Errorf("missing default-sized heading in output:\n%s", got)
		}
		if strings.Contains(got, "smallest") {
			t.Errorf("expense beyond the cutoff was listed:\n%s", got)
		}
	})

	t.Run("explicit count", func(t *testing.T) {
		shell, service, out := newTestShell(t, "6\n1\n0\n")
		seed(t, service)
		runShell(t, shell)

		got := out.String()
		if !strings.Contains(got, "Top 1 Expenses:") || !strings.Contains(got, "largest") {
			t.Errorf("top-1 listing is wrong:\n%s", got)
		}
		if strings.Contains(got, "medium") {
			t.Errorf("expense beyond the cutoff was listed:\n%s", got)
		}
	})

	t.Run("rejects non-numeric count", func(t *testing.T) {
		shell, service, out := newTestShell(t, "6\nmany\n0\n")
		seed(t, service)
		runShell(t, shell)

		if !strings.Contains(out.String(), "Invalid number") {
			t.Errorf("missing invalid-number message:\n%s", out.String())
		}
	})
}

func TestShellBackupWithoutDataFile(t *testing.T) {
	shell, _, out := newTestShell(t, "7\n0\n")
	runShell(t, shell)

	if !strings.Contains(out.String(), "No data file to back up.") {
		t.Errorf("missing no-data-file message:\n%s", out.String())
	}
}

func TestShellBackupAndRestore(t *testing.T) {
	input := strings.Join([]string{
		"1", "100", "food", "2024-01-01", "first", // captured by the backup
		"7",
		"1", "200", "transport", "2024-02-02", "second", // added after the backup
		"8", "1",
		"2",
		"0",
	}, "\n") + "\n"
	shell, service, out := newTestShell(t, input)
	runShell(t, shell)

	got := out.String()
	if !strings.Contains(got, "Backup created: expenses_backup_") {
		t.Fatalf("missing backup confirmation:\n%s", got)
	}
	if !strings.Contains(got, "Data restored from: expenses_backup_") {
		t.Fatalf("missing restore confirmation:\n%s", got)
	}
	if !strings.Contains(got, "first") || strings.Contains(got, "second") {
		t.Errorf("restored listing should hold only the pre-backup expense:\n%s", got)
	}
	if got := len(service.ListExpenses()); got != 1 {
		t.Errorf("ListExpenses() len = %d after restore, want 1", got)
	}
}

func TestShellRestoreWithNoBackups(t *testing.T) {
	shell, _, out := newTestShell(t, "8\n0\n")
	runShell(t, shell)

	if !strings.Contains(out.String(), "No backup files found.") {
		t.Errorf("missing no-backups message:\n%s", out.String())
	}
}

func TestShellRestoreRejectsBadChoice(t *testing.T) {
	input := strings.Join([]string{
		"1", "100", "food", "2024-01-01", "first",
		"7",
		"8", "5",
		"0",
	}, "\n") + "\n"
	shell, _, out := newTestShell(t, input)
	runShell(t, shell)

	if !strings.Contains(out.String(), "Invalid choice") {
		t.Errorf("missing invalid-choice message:\n%s", out.String())
	}
}

func TestShellDeleteExpense(t *testing.T) {
	t.Run("confirmed deletion removes the picked row", func(t *testing.T) {
		shell, service, out := newTestShell(t, "9\n1\nyes\n0\n")
		mustAdd(t, service, "10", "food", "2024-01-05", "older")
		mustAdd(t, service, "20", "transport", "2024-03-05", "newer")
		runShell(t, shell)

		if !strings.Contains(out.String(), "Expense deleted successfully!") {
			t.Fatalf("missing delete confirmation:\n%s", out.String())
		}
		remaining := service.ListExpenses()
		if len(remaining) != 1 || remaining[0].Description != "older" {
			t.Errorf("remaining expenses = %+v, want only the older one", remaining)
		}
	})

	t.Run("anything but yes cancels", func(t *testing.T) {
		shell, service, out := newTestShell(t, "9\n1\nno\n0\n")
		mustAdd(t, service, "10", "food", "2024-01-05", "older")
		runShell(t, shell)

		if !strings.Contains(out.String(), "Deletion cancelled.") {
			t.Errorf("missing cancel message:\n%s", out.String())
		}
		if got := len(service.ListExpenses()); got != 1 {
			t.Errorf("ListExpenses() len = %d after cancel, want 1", got)
		}
	})

	t.Run("zero backs out silently", func(t *testing.T) {
		shell, service, _ := newTestShell(t, "9\n0\n0\n")
		mustAdd(t, service, "10", "food", "2024-01-05", "older")
		runShell(t, shell)

		if got := len(service.ListExpenses()); got != 1 {
			t.Errorf("ListExpenses() len = %d after backing out, want 1", got)
		}
	})

	t.Run("rejects out-of-range number", func(t *testing.T) {
		shell, service, out := newTestShell(t, "9\n7\n0\n")
		mustAdd(t, service, "10", "food", "2024-01-05", "older")
		runShell(t, shell)

		if !strings.Contains(out.String(), "Invalid expense number") {
			t.Errorf("missing out-of-range message:\n%s", out.String())
		}
	})
}
