// Package insights turns a year of ledger entries into rule-based advice:
// cash runway, expense concentration, loss-making months and recurring
// expense categories.
package insights

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/gestao-mpe/gmpe/internal/ledger"
	"github.com/gestao-mpe/gmpe/internal/model"
)

// Fixed thresholds.
var (
	RunwayAlertMonths  = decimal.NewFromInt(2)
	ConcentrationAlert = decimal.RequireFromString("0.35")
)

const (
	// RecurrenceMinMonths is how many distinct months make a category recurring.
	RecurrenceMinMonths = 6
	// RecurrenceTop caps the recurring categories reported.
	RecurrenceTop = 3
)

// Concentration is the share of yearly expense held by the largest
// expense category.
type Concentration struct {
	Category string
	Amount   decimal.Decimal
	Share    decimal.Decimal // 0..1
	OK       bool            // false when the year has no expense
	Flagged  bool
}

// Recurrence is an expense category seen across many months.
type Recurrence struct {
	Category string
	Months   int
}

// Report is the yearly insight panel.
type Report struct {
	Year                  string
	Totals                ledger.Totals
	Series                [12]ledger.Totals
	Balance               decimal.Decimal
	AverageMonthlyExpense decimal.Decimal
	Runway                decimal.Decimal // months
	RunwayOK              bool            // false when there is no expense to divide by
	Concentration         Concentration
	NegativeMonths        int
	Recurring             []Recurrence
	TopExpenses           []model.Transaction
	ByCategory            []ledger.Group
	Advisories            []string
}

// Analyze builds the insight report for year ("YYYY").
func Analyze(s model.State, year string) Report {
	txs := ledger.YearSlice(s, year)
	series := ledger.MonthlySeries(txs, year)
	balance := ledger.BalanceOverall(s)

	r := Report{
		Year:                  year,
		Totals:                ledger.YearTotals(txs, year),
		Series:                series,
		Balance:               balance,
		AverageMonthlyExpense: AverageMonthlyExpense(series),
		Concentration:         ConcentrationOf(txs),
		NegativeMonths:        NegativeMonths(series),
		Recurring:             Recurring(txs),
		TopExpenses:           ledger.TopExpenses(txs, ledger.DefaultTopN),
		ByCategory:            ledger.ByCategory(txs),
	}
	r.Runway, r.RunwayOK = Runway(balance, r.AverageMonthlyExpense)
	r.Advisories = advisories(r)
	return r
}

// AverageMonthlyExpense averages the expense of months that had any.
// Months without expense are left out rather than counted as zero.
func AverageMonthlyExpense(series [12]ledger.Totals) decimal.Decimal {
	total := decimal.Zero
	months := 0
	for _, m := range series {
		if m.Expense.IsPositive() {
			total = total.Add(m.Expense)
			months++
		}
	}
	if months == 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(months)))
}

// Runway is how many months balance covers at the average expense. It
// cannot be computed when the average is zero.
func Runway(balance, avgMonthlyExpense decimal.Decimal) (decimal.Decimal, bool) {
	if avgMonthlyExpense.IsZero() {
		return decimal.Zero, false
	}
	return balance.Div(avgMonthlyExpense), true
}

// ConcentrationOf finds the largest expense category and its share of the
// total expense.
func ConcentrationOf(txs []model.Transaction) Concentration {
	var expenses []model.Transaction
	total := decimal.Zero
	for _, t := range txs {
		if t.Type == model.TypeExpense {
			expenses = append(expenses, t)
			total = total.Add(t.Amount)
		}
	}
	if !total.IsPositive() {
		return Concentration{}
	}

	top := ledger.ByCategory(expenses)[0]
	amount := top.Value.Abs()
	share := amount.Div(total)
	return Concentration{
		Category: top.Key,
		Amount:   amount,
		Share:    share,
		OK:       true,
		Flagged:  share.GreaterThanOrEqual(ConcentrationAlert),
	}
}

// NegativeMonths counts months whose net result is below zero.
func NegativeMonths(series [12]ledger.Totals) int {
	n := 0
	for _, m := range series {
		if m.Net.IsNegative() {
			n++
		}
	}
	return n
}

// Recurring reports expense categories present in at least
// RecurrenceMinMonths distinct months, most frequent first, capped at
// RecurrenceTop. Equal counts are ordered by category name.
func Recurring(txs []model.Transaction) []Recurrence {
	var order []string
	months := make(map[string]map[string]bool)
	for _, t := range txs {
		if t.Type != model.TypeExpense {
			continue
		}
		cat := ledger.CategoryKey(t)
		if months[cat] == nil {
			months[cat] = make(map[string]bool)
			order = append(order, cat)
		}
		months[cat][t.Month()] = true
	}

	var out []Recurrence
	for _, cat := range order {
		if n := len(months[cat]); n >= RecurrenceMinMonths {
			out = append(out, Recurrence{Category: cat, Months: n})
		}
	}
	slices.SortFunc(out, func(a, b Recurrence) int {
		if c := cmp.Compare(b.Months, a.Months); c != 0 {
			return c
		}
		return strings.Compare(a.Category, b.Category)
	})
	if len(out) > RecurrenceTop {
		out = out[:RecurrenceTop]
	}
	return out
}

func advisories(r Report) []string {
	var out []string
	if r.RunwayOK && r.Runway.LessThan(RunwayAlertMonths) {
		out = append(out, fmt.Sprintf(
			"Runway de %s meses: o saldo cobre menos de 2 meses de saídas médias. Reforce o caixa ou reduza custos fixos.",
			r.Runway.StringFixed(1)))
	}
	if r.Concentration.Flagged {
		out = append(out, fmt.Sprintf(
			"A categoria %q concentra %s%% das saídas do ano. Negocie ou busque alternativas para reduzir a dependência.",
			r.Concentration.Category, r.Concentration.Share.Shift(2).StringFixed(0)))
	}
	return out
}
