package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jnx001/finance-manager/internal/config"
	"github.com/jnx001/finance-manager/internal/core"
	"github.com/jnx001/finance-manager/internal/log"
	"github.com/jnx001/finance-manager/internal/report"
	"github.com/jnx001/finance-manager/internal/services"
	"github.com/jnx001/finance-manager/internal/storage"
)

// Shell drives the interactive menu: it reads choices and form input
// from one stream, renders to another, and calls into the expense
// service for every behavior.
type Shell struct {
	service *services.ExpenseService
	in      *bufio.Scanner
	out     io.Writer
	logger  *log.Logger
	topN    int

	now func() time.Time // a blank date prompt means today
}

// NewShell wires the menu shell to its service and streams.
func NewShell(service *services.ExpenseService, cfg *config.Config, in io.Reader, out io.Writer, logger *log.Logger) *Shell {
	return &Shell{
		service: service,
		in:      bufio.NewScanner(in),
		out:     out,
		logger:  logger.WithComponent(log.ComponentShell),
		topN:    cfg.DefaultTopN,
		now:     time.Now,
	}
}

// Run loops over the menu until exit is chosen or input ends.
func (s *Shell) Run() error {
	for {
		s.printMenu()
		choice, ok := s.prompt("Enter your choice (0-9): ")
		if !ok {
			fmt.Fprintln(s.out)
			return s.in.Err()
		}

		switch choice {
		case "1":
			s.addExpense()
		case "2":
			s.viewAllExpenses()
		case "3":
			s.viewCategorySummary()
		case "4":
			s.monthlyReport()
		case "5":
			s.searchExpenses()
		case "6":
			s.topExpenses()
		case "7":
			s.backupData()
		case "8":
			s.restoreBackup()
		case "9":
			s.deleteExpense()
		case "0":
			line := strings.Repeat("=", 50)
			fmt.Fprintf(s.out, "\n%s\nThank you for using Personal Finance Manager!\n%s\n\n", line, line)
			return nil
		default:
			fmt.Fprintln(s.out, "\nInvalid choice. Please try again.")
		}
	}
}

func (s *Shell) printMenu() {
	line := strings.Repeat("=", 50)
	fmt.Fprintf(s.out, "\n%s\n", line)
	fmt.Fprintf(s.out, "%sPERSONAL FINANCE MANAGER\n", strings.Repeat(" ", 13))
	fmt.Fprintf(s.out, "%s\n\n", line)
	fmt.Fprintln(s.out, "MAIN MENU:")
	fmt.Fprintln(s.out, "1. Add New Expense")
	fmt.Fprintln(s.out, "2. View All Expenses")
	fmt.Fprintln(s.out, "3. View Category-wise Summary")
	fmt.Fprintln(s.out, "4. Generate Monthly Report")
	fmt.Fprintln(s.out, "5. Search Expenses")
	fmt.Fprintln(s.out, "6. View Top Expenses")
	fmt.Fprintln(s.out, "7. Backup Data")
	fmt.Fprintln(s.out, "8. Restore from Backup")
	fmt.Fprintln(s.out, "9. Delete Expense")
	fmt.Fprintln(s.out, "0. Exit")
	fmt.Fprintf(s.out, "\n%s\n", strings.Repeat("-", 50))
}

func (s *Shell) addExpense() {
	s.banner("ADD NEW EXPENSE")

	amount, ok := s.prompt("Enter amount: ₹")
	if !ok {
		return
	}
	fmt.Fprintf(s.out, "\nCategories: %s\n", core.CategoryNames())
	category, ok := s.prompt("Enter category: ")
	if !ok {
		return
	}
	date, ok := s.prompt("Enter date (YYYY-MM-DD) [or press Enter for today]: ")
	if !ok {
		return
	}
	if date == "" {
		date = s.now().Format(core.DateLayout)
	}
	description, ok := s.prompt("Enter description: ")
	if !ok {
		return
	}

	if _, err := s.service.AddExpense(amount, category, date, description); err != nil {
		fmt.Fprintf(s.out, "\nError: %v\n", err)
		return
	}
	fmt.Fprintln(s.out, "\nExpense added successfully!")
}

func (s *Shell) viewAllExpenses() {
	s.banner("ALL EXPENSES")

	expenses := s.service.ListExpenses()
	if len(expenses) == 0 {
		fmt.Fprintln(s.out, "No expenses recorded yet.")
		return
	}

	sortByDateDesc(expenses)
	s.printListing(expenses, true)

	summary := s.service.Summary()
	fmt.Fprintln(s.out, strings.Repeat("-", 80))
	fmt.Fprintf(s.out, "Total Expenses: ₹%s | Count: %d | Average: ₹%s\n",
		summary.Total.StringFixed(2), summary.Count, summary.Average.StringFixed(2))
}

func (s *Shell) viewCategorySummary() {
	s.banner("CATEGORY-WISE SUMMARY")

	summary := s.service.Summary()
	if summary.Count == 0 {
		fmt.Fprintln(s.out, "No expenses recorded yet.")
		return
	}

	fmt.Fprintf(s.out, "%-20s | %12s | %10s\n", "Category", "Amount", "Percentage")
	fmt.Fprintln(s.out, strings.Repeat("-", 50))
	for _, row := range summary.CategoryTotals() {
		fmt.Fprintf(s.out, "%-20s | ₹%11s | %9s%%\n",
			row.Category, row.Amount.StringFixed(2), percent(row.Amount, summary.Total).StringFixed(1))
	}
	fmt.Fprintln(s.out, strings.Repeat("-", 50))
	fmt.Fprintf(s.out, "%-20s | ₹%11s | %9s%%\n", "TOTAL", summary.Total.StringFixed(2), "100.0")
}

func (s *Shell) monthlyReport() {
	s.banner("MONTHLY REPORT")

	rawYear, ok := s.prompt("Enter year (YYYY): ")
	if !ok {
		return
	}
	year, err := strconv.Atoi(rawYear)
	if err != nil || year < 1 {
		fmt.Fprintln(s.out, "Invalid year.")
		return
	}

	rawMonth, ok := s.prompt("Enter month (1-12): ")
	if !ok {
		return
	}
	month, err := strconv.Atoi(rawMonth)
	if err != nil || month < 1 || month > 12 {
		fmt.Fprintln(s.out, "Invalid month. Must be between 1 and 12.")
		return
	}

	summary := s.service.MonthlyReport(year, month)
	s.logger.Debug("Monthly report rendered",
		log.FieldYear, year,
		log.FieldMonth, month,
		log.FieldCount, summary.Count)

	fmt.Fprintf(s.out, "\nReport for %s %d\n", time.Month(month), year)
	fmt.Fprintln(s.out, strings.Repeat("-", 50))

	if summary.Count == 0 {
		fmt.Fprintln(s.out, "No expenses for this month.")
		return
	}

	fmt.Fprintf(s.out, "Total Expenses: ₹%s\n", summary.Total.StringFixed(2))
	fmt.Fprintf(s.out, "Number of Transactions: %d\n", summary.Count)
	fmt.Fprintf(s.out, "Average per Transaction: ₹%s\n", summary.Average.StringFixed(2))

	fmt.Fprintln(s.out, "\nCategory Breakdown:")
	for _, row := range summary.TopCategories() {
		fmt.Fprintf(s.out, "  %-20s: ₹%10s (%5s%%)\n",
			row.Category, row.Amount.StringFixed(2), percent(row.Amount, summary.Total).StringFixed(1))
	}
}

func (s *Shell) searchExpenses() {
	s.banner("SEARCH EXPENSES")

	keyword, ok := s.prompt("Enter keyword (or press Enter to skip): ")
	if !ok {
		return
	}
	fmt.Fprintf(s.out, "\nCategories: %s\n", core.CategoryNames())
	rawCategory, ok := s.prompt("Enter category (or press Enter to skip): ")
	if !ok {
		return
	}
	startDate, ok := s.prompt("Enter start date (YYYY-MM-DD) (or press Enter to skip): ")
	if !ok {
		return
	}
	endDate, ok := s.prompt("Enter end date (YYYY-MM-DD) (or press Enter to skip): ")
	if !ok {
		return
	}

	filter := report.Filter{
		Keyword:   keyword,
		StartDate: startDate,
		EndDate:   endDate,
	}
	// A category answer that does not parse leaves the filter open.
	if category, err := core.ParseCategory(rawCategory); err == nil {
		filter.Category = category
	}

	results := s.service.Search(filter)
	s.logger.Debug("Search completed", log.FieldMatches, len(results))

	fmt.Fprintf(s.out, "\nFound %d matching expenses:\n\n", len(results))
	if len(results) == 0 {
		fmt.Fprintln(s.out, "No matching expenses found.")
		return
	}
	sortByDateDesc(results)
	s.printListing(results, false)
}

func (s *Shell) topExpenses() {
	s.banner("TOP EXPENSES")

	if len(s.service.ListExpenses()) == 0 {
		fmt.Fprintln(s.out, "No expenses recorded yet.")
		return
	}

	raw, ok := s.prompt(fmt.Sprintf("How many top expenses to display? (default: %d): ", s.topN))
	if !ok {
		return
	}
	n := s.topN
	if raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			fmt.Fprintln(s.out, "Invalid number")
			return
		}
		n = parsed
	}

	top := s.service.TopExpenses(n)
	fmt.Fprintf(s.out, "\nTop %d Expenses:\n", len(top))
	s.printListing(top, true)
}

func (s *Shell) backupData() {
	s.banner("BACKUP DATA")

	name, err := s.service.Backup()
	if errors.Is(err, storage.ErrNoDataFile) {
		fmt.Fprintln(s.out, "No data file to back up.")
		return
	}
	if err != nil {
		fmt.Fprintf(s.out, "Error creating backup: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "Backup created: %s\n", name)
}

func (s *Shell) restoreBackup() {
	s.banner("RESTORE FROM BACKUP")

	backups, err := s.service.ListBackups()
	if err != nil {
		fmt.Fprintf(s.out, "Error listing backups: %v\n", err)
		return
	}
	if len(backups) == 0 {
		fmt.Fprintln(s.out, "No backup files found.")
		return
	}

	fmt.Fprintln(s.out, "Available backups:")
	for i, backup := range backups {
		fmt.Fprintf(s.out, "%d. %s\n", i+1, backup)
	}

	raw, ok := s.prompt("\nEnter backup number to restore: ")
	if !ok {
		return
	}
	choice, err := strconv.Atoi(raw)
	if err != nil {
		fmt.Fprintln(s.out, "Invalid input")
		return
	}
	if choice < 1 || choice > len(backups) {
		fmt.Fprintln(s.out, "Invalid choice")
		return
	}

	name := backups[choice-1]
	if err := s.service.RestoreFromBackup(name); err != nil {
		fmt.Fprintf(s.out, "Error restoring backup: %v\n", err)
		return
	}
	if err := s.service.Load(); err != nil {
		fmt.Fprintf(s.out, "Error reloading expenses: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "Data restored from: %s\n", name)
}

func (s *Shell) deleteExpense() {
	s.banner("DELETE EXPENSE")

	expenses := s.service.ListExpenses()
	if len(expenses) == 0 {
		fmt.Fprintln(s.out, "No expenses to delete.")
		return
	}

	sortByDateDesc(expenses)
	s.printListing(expenses, true)

	raw, ok := s.prompt("\nEnter expense number to delete (0 to cancel): ")
	if !ok {
		return
	}
	choice, err := strconv.Atoi(raw)
	if err != nil {
		fmt.Fprintln(s.out, "Invalid input")
		return
	}
	if choice == 0 {
		return
	}
	if choice < 1 || choice > len(expenses) {
		fmt.Fprintln(s.out, "Invalid expense number")
		return
	}

	target := expenses[choice-1]
	fmt.Fprintf(s.out, "\nDelete: %s\n", formatExpense(target))
	confirm, ok := s.prompt("Are you sure? (yes/no): ")
	if !ok {
		return
	}
	if strings.ToLower(confirm) != "yes" {
		fmt.Fprintln(s.out, "Deletion cancelled.")
		return
	}

	if err := s.service.DeleteExpense(target); err != nil {
		fmt.Fprintf(s.out, "Error deleting expense: %v\n", err)
		return
	}
	fmt.Fprintln(s.out, "Expense deleted successfully!")
}

// prompt writes the label and reads one trimmed input line. ok is false
// once input is exhausted.
func (s *Shell) prompt(label string) (string, bool) {
	fmt.Fprint(s.out, label)
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

func (s *Shell) banner(title string) {
	line := strings.Repeat("=", 50)
	fmt.Fprintf(s.out, "\n%s\n%s\n%s\n\n", line, title, line)
}

func (s *Shell) printListing(expenses []core.Expense, numbered bool) {
	fmt.Fprintf(s.out, "%-12s | %-15s | %12s | %s\n", "Date", "Category", "Amount", "Description")
	fmt.Fprintln(s.out, strings.Repeat("-", 80))
	for i, e := range expenses {
		if numbered {
			fmt.Fprintf(s.out, "[%3d] %s\n", i+1, formatExpense(e))
		} else {
			fmt.Fprintln(s.out, formatExpense(e))
		}
	}
}

func formatExpense(e core.Expense) string {
	return fmt.Sprintf("%s | %-15s | ₹%10s | %s",
		e.Date, e.Category, e.Amount.StringFixed(2), e.Description)
}

func sortByDateDesc(expenses []core.Expense) {
	sort.SliceStable(expenses, func(i, j int) bool {
		return expenses[i].Date > expenses[j].Date
	})
}

func percent(part, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return part.Div(total).Mul(decimal.NewFromInt(100))
}
