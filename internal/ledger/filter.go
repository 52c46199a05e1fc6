package ledger

import (
	"slices"
	"time"

	"github.com/gestao-mpe/gmpe/internal/model"
)

// All disables a Filter field.
const All = "all"

// Filter selects ledger entries. Empty or All fields match everything.
type Filter struct {
	Month        string // YYYY-MM
	Type         string // income, expense or all
	AccountID    string
	CostCenterID string
}

func matches(want, got string) bool {
	return want == "" || want == All || want == got
}

// Match reports whether t passes every field of f.
func (f Filter) Match(t model.Transaction) bool {
	return matches(f.Month, t.Month()) &&
		matches(f.Type, string(t.Type)) &&
		matches(f.AccountID, t.AccountID) &&
		matches(f.CostCenterID, t.CostCenterID)
}

// Apply returns the matching transactions, newest first.
func Apply(s model.State, f Filter) []model.Transaction {
	var out []model.Transaction
	for _, t := range s.Tx {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	SortByDateDesc(out)
	return out
}

// CurrentMonth formats now as "YYYY-MM".
func CurrentMonth(now time.Time) string {
	return now.Format("2006-01")
}

// MonthOptions lists the distinct months present in the ledger plus the
// current month, newest first.
func MonthOptions(s model.State, now time.Time) []string {
	seen := map[string]bool{CurrentMonth(now): true}
	for _, t := range s.Tx {
		if m := t.Month(); m != "" {
			seen[m] = true
		}
	}
	months := make([]string, 0, len(seen))
	for m := range seen {
		months = append(months, m)
	}
	slices.Sort(months)
	slices.Reverse(months)
	return months
}

// Years lists the distinct years present in the ledger plus the current
// year, newest first.
func Years(s model.State, now time.Time) []string {
	seen := map[string]bool{now.Format("2006"): true}
	for _, t := range s.Tx {
		if y := t.Year(); len(y) == 4 {
			seen[y] = true
		}
	}
	years := make([]string, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	slices.Sort(years)
	slices.Reverse(years)
	return years
}
