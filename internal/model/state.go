package model

import (
	"slices"

	"github.com/gestao-mpe/gmpe/internal/buildinfo"
)

// SchemaVersion is the version of the persisted state shape.
const SchemaVersion = 3

// DefaultCurrency is used when no currency was configured.
const DefaultCurrency = "BRL"

// Theme is the UI color scheme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// NormalizeTheme maps anything other than "light" to dark.
func NormalizeTheme(s string) Theme {
	if s == string(ThemeLight) {
		return ThemeLight
	}
	return ThemeDark
}

// Config holds the business-level preferences stored with the data.
type Config struct {
	Company  string `json:"company"`
	Currency string `json:"currency"`
	Theme    Theme  `json:"theme"`
}

// Meta identifies the producer and shape of a persisted state.
type Meta struct {
	App           string `json:"app"`
	AppVersion    string `json:"appVersion"`
	SchemaVersion int    `json:"schemaVersion"`
}

// CurrentMeta returns the meta block for states written by this build.
func CurrentMeta() Meta {
	return Meta{
		App:           buildinfo.AppName,
		AppVersion:    buildinfo.AppVersion,
		SchemaVersion: SchemaVersion,
	}
}

// State is the whole persisted book: configuration, entities and ledger.
type State struct {
	Meta        Meta          `json:"meta"`
	Cfg         Config        `json:"cfg"`
	Accounts    []Account     `json:"accounts"`
	CostCenters []CostCenter  `json:"costCenters"`
	Tx          []Transaction `json:"tx"`
}

// DefaultState returns a fresh book with one account, one cost center and
// an empty ledger.
func DefaultState() State {
	return State{
		Meta: CurrentMeta(),
		Cfg: Config{
			Company:  "",
			Currency: DefaultCurrency,
			Theme:    ThemeDark,
		},
		Accounts:    []Account{{ID: DefaultAccountID, Name: DefaultAccountName}},
		CostCenters: []CostCenter{{ID: DefaultCostCenterID, Name: DefaultCostCenterName}},
		Tx:          []Transaction{},
	}
}

// Clone returns a deep copy of s. Decimals are immutable values and are
// shared safely.
func (s State) Clone() State {
	c := s
	c.Accounts = slices.Clone(s.Accounts)
	c.CostCenters = slices.Clone(s.CostCenters)
	c.Tx = slices.Clone(s.Tx)
	if c.Accounts == nil {
		c.Accounts = []Account{}
	}
	if c.CostCenters == nil {
		c.CostCenters = []CostCenter{}
	}
	if c.Tx == nil {
		c.Tx = []Transaction{}
	}
	return c
}

// Account returns the account with the given id.
func (s State) Account(id string) (Account, bool) {
	for _, a := range s.Accounts {
		if a.ID == id {
			return a, true
		}
	}
	return Account{}, false
}

// CostCenter returns the cost center with the given id.
func (s State) CostCenter(id string) (CostCenter, bool) {
	for _, c := range s.CostCenters {
		if c.ID == id {
			return c, true
		}
	}
	return CostCenter{}, false
}

// AccountByName finds an account by case-insensitive name.
func (s State) AccountByName(name string) (Account, bool) {
	for _, a := range s.Accounts {
		if SameName(a.Name, name) {
			return a, true
		}
	}
	return Account{}, false
}

// CostCenterByName finds a cost center by case-insensitive name.
func (s State) CostCenterByName(name string) (CostCenter, bool) {
	for _, c := range s.CostCenters {
		if SameName(c.Name, name) {
			return c, true
		}
	}
	return CostCenter{}, false
}

// AccountInUse reports whether any transaction references the account.
func (s State) AccountInUse(id string) bool {
	return slices.ContainsFunc(s.Tx, func(t Transaction) bool { return t.AccountID == id })
}

// CostCenterInUse reports whether any transaction references the cost center.
func (s State) CostCenterInUse(id string) bool {
	return slices.ContainsFunc(s.Tx, func(t Transaction) bool { return t.CostCenterID == id })
}

// HasTransaction reports whether a transaction with the id exists.
func (s State) HasTransaction(id string) bool {
	return slices.ContainsFunc(s.Tx, func(t Transaction) bool { return t.ID == id })
}
