// Package report computes aggregates over in-memory expense collections.
// Every function is pure: inputs are never mutated and nothing touches
// storage.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jnx001/finance-manager/internal/core"
)

// Summary holds aggregate statistics for a set of expenses.
type Summary struct {
	Total      decimal.Decimal
	Count      int
	Average    decimal.Decimal
	ByCategory map[core.Category]decimal.Decimal
}

// CategoryTotal is one per-category row of a summary, for rendering.
type CategoryTotal struct {
	Category core.Category
	Amount   decimal.Decimal
}

// Summarize computes total, count, average and per-category sums.
// Categories with no expenses are absent from the mapping, not zero.
func Summarize(expenses []core.Expense) Summary {
	s := Summary{
		ByCategory: make(map[core.Category]decimal.Decimal, len(core.Categories())),
	}

	for _, e := range expenses {
		s.Total = s.Total.Add(e.Amount)
		s.ByCategory[e.Category] = s.ByCategory[e.Category].Add(e.Amount)
	}
	s.Count = len(expenses)
	if s.Count > 0 {
		s.Average = s.Total.Div(decimal.NewFromInt(int64(s.Count)))
	}

	return s
}

// Monthly filters the collection to the given calendar year and month,
// then summarizes the result. Dates are valid fixed-width YYYY-MM-DD
// strings, so a prefix match selects exactly the requested month.
func Monthly(expenses []core.Expense, year, month int) Summary {
	prefix := fmt.Sprintf("%04d-%02d-", year, month)

	var matched []core.Expense
	for _, e := range expenses {
		if strings.HasPrefix(e.Date, prefix) {
			matched = append(matched, e)
		}
	}

	return Summarize(matched)
}

// Top returns the n highest-amount expenses in descending order. Ties
// keep their original relative order. n larger than the collection
// returns everything; n <= 0 returns nothing.
func Top(expenses []core.Expense, n int) []core.Expense {
	if n <= 0 {
		return nil
	}

	out := make([]core.Expense, len(expenses))
	copy(out, expenses)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.GreaterThan(out[j].Amount)
	})

	if n < len(out) {
		out = out[:n]
	}
	return out
}

// Filter describes optional search criteria. Zero-value fields are not
// applied; set fields compose with logical AND.
type Filter struct {
	Keyword   string        // case-insensitive substring of description
	Category  core.Category // exact match
	StartDate string        // inclusive YYYY-MM-DD lower bound
	EndDate   string        // inclusive YYYY-MM-DD upper bound
}

// Search returns the expenses matching every set criterion of f, in
// collection order. Date bounds compare lexicographically, which equals
// chronological order for the fixed-width date format.
func Search(expenses []core.Expense, f Filter) []core.Expense {
	keyword := strings.ToLower(f.Keyword)

	var results []core.Expense
	for _, e := range expenses {
		if keyword != "" && !strings.Contains(strings.ToLower(e.Description), keyword) {
			continue
		}
		if f.Category != "" && e.Category != f.Category {
			continue
		}
		if f.StartDate != "" && e.Date < f.StartDate {
			continue
		}
		if f.EndDate != "" && e.Date > f.EndDate {
			continue
		}
		results = append(results, e)
	}

	return results
}

// CategoryTotals returns the summary's per-category rows sorted
// alphabetically by category name.
func (s Summary) CategoryTotals() []CategoryTotal {
	rows := s.categoryRows()
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Category < rows[j].Category
	})
	return rows
}

// TopCategories returns the summary's per-category rows sorted by
// amount, largest first. Equal amounts order alphabetically.
func (s Summary) TopCategories() []CategoryTotal {
	rows := s.categoryRows()
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Amount.Equal(rows[j].Amount) {
			return rows[i].Category < rows[j].Category
		}
		return rows[i].Amount.GreaterThan(rows[j].Amount)
	})
	return rows
}

func (s Summary) categoryRows() []CategoryTotal {
	rows := make([]CategoryTotal, 0, len(s.ByCategory))
	for c, amount := range s.ByCategory {
		rows = append(rows, CategoryTotal{Category: c, Amount: amount})
	}
	return rows
}
