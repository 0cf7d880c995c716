package core

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category is one of the fixed spending categories an expense may carry.
// The set is closed: values exist only through the constants below or
// ParseCategory.
type Category string

const (
	CategoryFood          Category = "Food"
	CategoryTransport     Category = "Transport"
	CategoryEntertainment Category = "Entertainment"
	CategoryShopping      Category = "Shopping"
	CategoryUtilities     Category = "Utilities"
	CategoryHealthcare    Category = "Healthcare"
	CategoryEducation     Category = "Education"
	CategoryOther         Category = "Other"
)

var categories = []Category{
	CategoryFood,
	CategoryTransport,
	CategoryEntertainment,
	CategoryShopping,
	CategoryUtilities,
	CategoryHealthcare,
	CategoryEducation,
	CategoryOther,
}

// Categories returns the valid categories in canonical order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// CategoryNames returns the canonical category names joined for prompts
// and error messages.
func CategoryNames() string {
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

// ParseCategory normalizes raw input (trim, title case) and requires
// membership in the closed category set.
func ParseCategory(s string) (Category, error) {
	normalized := cases.Title(language.English).String(strings.TrimSpace(s))
	for _, c := range categories {
		if Category(normalized) == c {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q is not one of: %s", ErrInvalidCategory, s, CategoryNames())
}

func (c Category) String() string { return string(c) }
