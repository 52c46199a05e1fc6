// Package books holds the book of a single business: the pure commands
// that derive a new state from the current one, and the Service that
// applies them one at a time and persists the result.
package books

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gestao-mpe/gmpe/internal/ledger"
	"github.com/gestao-mpe/gmpe/internal/model"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

var lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// singleLine trims v and turns its line breaks into spaces.
func singleLine(v string) string {
	return strings.TrimSpace(lineBreaks.Replace(v))
}

// AddAccount appends an account. Names are unique ignoring case.
func AddAccount(s model.State, id, name string, initial decimal.Decimal) (model.State, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return s, fmt.Errorf("%w: account name is required", ErrInvalid)
	}
	if _, ok := s.AccountByName(name); ok {
		return s, fmt.Errorf("%w: account %q already exists", ErrInvalid, name)
	}
	s.Accounts = append(slices.Clip(s.Accounts), model.Account{ID: id, Name: name, InitialBalance: initial})
	return s, nil
}

// DeleteAccount removes an account that no transaction references. The
// last remaining account is never removed.
func DeleteAccount(s model.State, id string) (model.State, error) {
	i := slices.IndexFunc(s.Accounts, func(a model.Account) bool { return a.ID == id })
	switch {
	case i < 0:
		return s, fmt.Errorf("account %q: %w", id, ErrNotFound)
	case len(s.Accounts) == 1:
		return s, ErrLastAccount
	case s.AccountInUse(id):
		return s, fmt.Errorf("%q: %w", s.Accounts[i].Name, ErrAccountInUse)
	}
	s.Accounts = slices.Delete(slices.Clone(s.Accounts), i, i+1)
	return s, nil
}

// AddCostCenter appends a cost center. Names are unique ignoring case.
func AddCostCenter(s model.State, id, name string) (model.State, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return s, fmt.Errorf("%w: cost center name is required", ErrInvalid)
	}
	if _, ok := s.CostCenterByName(name); ok {
		return s, fmt.Errorf("%w: cost center %q already exists", ErrInvalid, name)
	}
	s.CostCenters = append(slices.Clip(s.CostCenters), model.CostCenter{ID: id, Name: name})
	return s, nil
}

// DeleteCostCenter removes a cost center that no transaction references.
// The last remaining cost center is never removed.
func DeleteCostCenter(s model.State, id string) (model.State, error) {
	i := slices.IndexFunc(s.CostCenters, func(c model.CostCenter) bool { return c.ID == id })
	switch {
	case i < 0:
		return s, fmt.Errorf("cost center %q: %w", id, ErrNotFound)
	case len(s.CostCenters) == 1:
		return s, ErrLastCostCenter
	case s.CostCenterInUse(id):
		return s, fmt.Errorf("%q: %w", s.CostCenters[i].Name, ErrCostCenterInUse)
	}
	s.CostCenters = slices.Delete(slices.Clone(s.CostCenters), i, i+1)
	return s, nil
}

// TxInput holds the fields of a new transaction. Empty account or cost
// center ids select the first entity.
type TxInput struct {
	Type         model.TxType
	Date         string
	Amount       decimal.Decimal
	AccountID    string
	CostCenterID string
	Category     string
	Note         string
}

// AddTransaction puts a new transaction at the head of the ledger.
func AddTransaction(s model.State, id string, in TxInput) (model.State, error) {
	if !in.Type.Valid() {
		return s, fmt.Errorf("%w: unknown type %q", ErrInvalid, in.Type)
	}
	if !datePattern.MatchString(in.Date) {
		return s, fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrInvalid, in.Date)
	}
	if _, err := time.Parse(time.DateOnly, in.Date); err != nil {
		return s, fmt.Errorf("%w: date %q is not a calendar date", ErrInvalid, in.Date)
	}
	if in.Amount.IsNegative() {
		return s, fmt.Errorf("%w: amount must not be negative", ErrInvalid)
	}
	category := singleLine(in.Category)
	if category == "" {
		return s, fmt.Errorf("%w: category is required", ErrInvalid)
	}

	accountID := in.AccountID
	if accountID == "" && len(s.Accounts) > 0 {
		accountID = s.Accounts[0].ID
	}
	if _, ok := s.Account(accountID); !ok {
		return s, fmt.Errorf("account %q: %w", accountID, ErrNotFound)
	}
	costCenterID := in.CostCenterID
	if costCenterID == "" && len(s.CostCenters) > 0 {
		costCenterID = s.CostCenters[0].ID
	}
	if _, ok := s.CostCenter(costCenterID); !ok {
		return s, fmt.Errorf("cost center %q: %w", costCenterID, ErrNotFound)
	}

	t := model.Transaction{
		ID:           id,
		Type:         in.Type,
		Date:         in.Date,
		Amount:       in.Amount,
		AccountID:    accountID,
		CostCenterID: costCenterID,
		Category:     category,
		Note:         singleLine(in.Note),
	}
	s.Tx = append([]model.Transaction{t}, s.Tx...)
	return s, nil
}

// DeleteTransaction removes a transaction by id.
func DeleteTransaction(s model.State, id string) (model.State, error) {
	i := slices.IndexFunc(s.Tx, func(t model.Transaction) bool { return t.ID == id })
	if i < 0 {
		return s, fmt.Errorf("transaction %q: %w", id, ErrNotFound)
	}
	s.Tx = slices.Delete(slices.Clone(s.Tx), i, i+1)
	return s, nil
}

// UpdateConfig sets the company name and currency. A blank currency means
// the default one.
func UpdateConfig(s model.State, company, currency string) (model.State, error) {
	s.Cfg.Company = strings.TrimSpace(company)
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = model.DefaultCurrency
	}
	s.Cfg.Currency = currency
	return s, nil
}

// SetTheme stores the preferred theme; anything but "light" is dark.
func SetTheme(s model.State, theme string) (model.State, error) {
	s.Cfg.Theme = model.NormalizeTheme(theme)
	return s, nil
}

// sample is the demo month added by Seed.
var sample = []struct {
	typ      model.TxType
	day      string
	amount   int64
	category string
	note     string
}{
	{model.TypeIncome, "02", 4200, "Vendas", "PIX / cartão"},
	{model.TypeExpense, "05", 1200, "Aluguel", "Sala comercial"},
	{model.TypeExpense, "10", 450, "Internet", "Plano mensal"},
	{model.TypeExpense, "12", 600, "Marketing", "Anúncios"},
	{model.TypeIncome, "15", 2800, "Serviços", "Projeto"},
}

// Seed puts a month of demo transactions dated in the month of now at the
// head of the ledger, booked against the first account and cost center.
func Seed(s model.State, now time.Time, newID func() string) (model.State, error) {
	month := ledger.CurrentMonth(now)
	seeded := make([]model.Transaction, 0, len(sample)+len(s.Tx))
	for _, e := range sample {
		seeded = append(seeded, model.Transaction{
			ID:           newID(),
			Type:         e.typ,
			Date:         month + "-" + e.day,
			Amount:       decimal.NewFromInt(e.amount),
			AccountID:    s.Accounts[0].ID,
			CostCenterID: s.CostCenters[0].ID,
			Category:     e.category,
			Note:         e.note,
		})
	}
	s.Tx = append(seeded, s.Tx...)
	return s, nil
}

// Wipe clears the ledger, keeping entities and configuration.
func Wipe(s model.State) (model.State, error) {
	s.Tx = []model.Transaction{}
	return s, nil
}

// ResolveAccount finds an account by id or, failing that, by name.
func ResolveAccount(s model.State, ref string) (model.Account, error) {
	if a, ok := s.Account(ref); ok {
		return a, nil
	}
	if a, ok := s.AccountByName(ref); ok {
		return a, nil
	}
	return model.Account{}, fmt.Errorf("account %q: %w", ref, ErrNotFound)
}

// ResolveCostCenter finds a cost center by id or, failing that, by name.
func ResolveCostCenter(s model.State, ref string) (model.CostCenter, error) {
	if c, ok := s.CostCenter(ref); ok {
		return c, nil
	}
	if c, ok := s.CostCenterByName(ref); ok {
		return c, nil
	}
	return model.CostCenter{}, fmt.Errorf("cost center %q: %w", ref, ErrNotFound)
}
