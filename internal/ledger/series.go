package ledger

import (
	"fmt"

	"github.com/gestao-mpe/gmpe/internal/model"
)

// YearSlice returns the ledger entries dated in year ("YYYY"), in ledger
// order.
func YearSlice(s model.State, year string) []model.Transaction {
	var out []model.Transaction
	for _, t := range s.Tx {
		if t.Year() == year {
			out = append(out, t)
		}
	}
	return out
}

// MonthlySeries reduces a year's transactions to one Totals per calendar
// month, January first. Entries outside year are ignored.
func MonthlySeries(txs []model.Transaction, year string) [12]Totals {
	var series [12]Totals
	for i := range series {
		month := fmt.Sprintf("%s-%02d", year, i+1)
		series[i] = Sum(txs, func(t model.Transaction) bool { return t.Month() == month })
	}
	return series
}

// YearTotals totals a year's transactions.
func YearTotals(txs []model.Transaction, year string) Totals {
	return Sum(txs, func(t model.Transaction) bool { return t.Year() == year })
}
