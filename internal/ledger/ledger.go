// Package ledger derives balances, totals and rankings from a book. Every
// function is pure: states and slices passed in are never modified.
package ledger

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/gestao-mpe/gmpe/internal/model"
)

// Uncategorized labels transactions with an empty category in reports.
const Uncategorized = "Sem categoria"

// DefaultTopN is the size of TopExpenses when n is not positive.
const DefaultTopN = 5

// AccountBalance is the account's initial balance plus the signed sum of
// its transactions.
func AccountBalance(s model.State, accountID string) decimal.Decimal {
	total := decimal.Zero
	if a, ok := s.Account(accountID); ok {
		total = a.InitialBalance
	}
	for _, t := range s.Tx {
		if t.AccountID == accountID {
			total = total.Add(t.Signed())
		}
	}
	return total
}

// BalanceOverall is the sum of all initial balances plus the signed sum of
// the whole ledger.
func BalanceOverall(s model.State) decimal.Decimal {
	total := decimal.Zero
	for _, a := range s.Accounts {
		total = total.Add(a.InitialBalance)
	}
	for _, t := range s.Tx {
		total = total.Add(t.Signed())
	}
	return total
}

// Totals splits a set of transactions into income and expense.
type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Net     decimal.Decimal
}

// Sum totals the transactions matching pred. A nil pred matches all.
func Sum(txs []model.Transaction, pred func(model.Transaction) bool) Totals {
	income, expense := decimal.Zero, decimal.Zero
	for _, t := range txs {
		if pred != nil && !pred(t) {
			continue
		}
		switch t.Type {
		case model.TypeIncome:
			income = income.Add(t.Amount)
		case model.TypeExpense:
			expense = expense.Add(t.Amount)
		}
	}
	return Totals{Income: income, Expense: expense, Net: income.Sub(expense)}
}

// TotalsForMonth totals the ledger entries dated in month ("YYYY-MM").
func TotalsForMonth(s model.State, month string) Totals {
	return Sum(s.Tx, func(t model.Transaction) bool { return t.Month() == month })
}

// Group is one entry of an impact ranking.
type Group struct {
	Key   string
	Value decimal.Decimal
}

// GroupSignedBy sums signed amounts per key and ranks the groups by
// descending absolute value. Ties keep first-seen order.
func GroupSignedBy(txs []model.Transaction, key func(model.Transaction) string) []Group {
	var groups []Group
	index := make(map[string]int)
	for _, t := range txs {
		k := key(t)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group{Key: k, Value: decimal.Zero})
		}
		groups[i].Value = groups[i].Value.Add(t.Signed())
	}
	slices.SortStableFunc(groups, func(a, b Group) int {
		return b.Value.Abs().Cmp(a.Value.Abs())
	})
	return groups
}

// CategoryKey names a transaction's category for grouping.
func CategoryKey(t model.Transaction) string {
	if t.Category == "" {
		return Uncategorized
	}
	return t.Category
}

// ByCategory ranks categories by signed impact.
func ByCategory(txs []model.Transaction) []Group {
	return GroupSignedBy(txs, CategoryKey)
}

// ByAccount ranks accounts (by name) by signed impact.
func ByAccount(s model.State, txs []model.Transaction) []Group {
	return GroupSignedBy(txs, func(t model.Transaction) string {
		if a, ok := s.Account(t.AccountID); ok {
			return a.Name
		}
		return t.AccountID
	})
}

// ByCostCenter ranks cost centers (by name) by signed impact.
func ByCostCenter(s model.State, txs []model.Transaction) []Group {
	return GroupSignedBy(txs, func(t model.Transaction) string {
		if c, ok := s.CostCenter(t.CostCenterID); ok {
			return c.Name
		}
		return t.CostCenterID
	})
}

// TopExpenses returns the n largest expenses. Equal amounts keep their
// original relative order.
func TopExpenses(txs []model.Transaction, n int) []model.Transaction {
	if n <= 0 {
		n = DefaultTopN
	}
	var expenses []model.Transaction
	for _, t := range txs {
		if t.Type == model.TypeExpense {
			expenses = append(expenses, t)
		}
	}
	slices.SortStableFunc(expenses, func(a, b model.Transaction) int {
		return b.Amount.Cmp(a.Amount)
	})
	if len(expenses) > n {
		expenses = expenses[:n]
	}
	return expenses
}

// SortByDateDesc orders transactions newest first. Dates are zero-padded
// ISO strings, so string order is date order. Equal dates keep their
// relative order.
func SortByDateDesc(txs []model.Transaction) {
	slices.SortStableFunc(txs, func(a, b model.Transaction) int {
		return cmp.Compare(b.Date, a.Date)
	})
}
