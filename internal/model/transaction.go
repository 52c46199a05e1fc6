package model

import (
	"github.com/shopspring/decimal"
)

// TxType is the direction of a transaction.
type TxType string

const (
	TypeIncome  TxType = "income"
	TypeExpense TxType = "expense"
)

// Valid reports whether t is one of the known transaction types.
func (t TxType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction is one dated ledger entry. Amount is never negative; the
// sign comes from Type.
type Transaction struct {
	ID           string          `json:"id"`
	Type         TxType          `json:"type"`
	Date         string          `json:"date"` // YYYY-MM-DD
	Amount       decimal.Decimal `json:"amount"`
	AccountID    string          `json:"accountId"`
	CostCenterID string          `json:"costCenterId"`
	Category     string          `json:"category"`
	Note         string          `json:"note"`
}

// Signed returns +Amount for income and -Amount for expense.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == TypeExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Month returns the "YYYY-MM" prefix of the transaction date.
func (t Transaction) Month() string {
	if len(t.Date) < 7 {
		return t.Date
	}
	return t.Date[:7]
}

// Year returns the "YYYY" prefix of the transaction date.
func (t Transaction) Year() string {
	if len(t.Date) < 4 {
		return t.Date
	}
	return t.Date[:4]
}
