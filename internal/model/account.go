package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Default entity identifiers. They are fixed so that a freshly created
// state is reproducible.
const (
	DefaultAccountID      = "acc-caixa"
	DefaultAccountName    = "Caixa"
	DefaultCostCenterID   = "cc-operacional"
	DefaultCostCenterName = "Operacional"
)

// Account is a place money sits in (cash drawer, bank account, card).
type Account struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
}

// CostCenter groups transactions by business area.
type CostCenter struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SameName reports whether two entity names match case-insensitively,
// ignoring surrounding whitespace.
func SameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
