// Package importer maps external CSV rows onto the ledger.
package importer

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strings"

	"github.com/gestao-mpe/gmpe/internal/csvio"
	"github.com/gestao-mpe/gmpe/internal/id"
	"github.com/gestao-mpe/gmpe/internal/ledger"
	"github.com/gestao-mpe/gmpe/internal/model"
	"github.com/gestao-mpe/gmpe/internal/money"
)

// ErrMissingColumns is returned when the header lacks type, date or amount.
var ErrMissingColumns = errors.New("CSV header must contain type, date and amount")

var (
	requiredColumns = []string{"type", "date", "amount"}
	datePattern     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	expenseTokens   = []string{"expense", "saida", "saída"}
)

// Options tunes an import.
type Options struct {
	// NewID generates ids for rows without one and for created entities.
	// Defaults to id.New.
	NewID func() string
}

// Result summarizes an import.
type Result struct {
	Imported       int
	Skipped        int
	NewAccounts    []string
	NewCostCenters []string
}

// Import reads a CSV ledger from r and returns s with the accepted rows
// appended and the ledger re-sorted newest first. s itself is not modified.
// Rows with a bad date or amount, or an id already in the ledger, are
// skipped and counted.
func Import(s model.State, r io.Reader, opts Options) (model.State, Result, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return s, Result{}, fmt.Errorf("reading CSV: %w", err)
	}
	newID := opts.NewID
	if newID == nil {
		newID = id.New
	}

	var lines []string
	for _, l := range csvio.Records(string(raw)) {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) == 0 {
		return s, Result{}, ErrMissingColumns
	}

	cols := headerIndex(lines[0])
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return s, Result{}, fmt.Errorf("%w: missing %q", ErrMissingColumns, c)
		}
	}

	b := &batch{state: s.Clone(), newID: newID}
	for _, line := range lines[1:] {
		if b.add(cols, csvio.SplitLine(line)) {
			b.res.Imported++
		} else {
			b.res.Skipped++
		}
	}
	ledger.SortByDateDesc(b.state.Tx)
	return b.state, b.res, nil
}

func headerIndex(line string) map[string]int {
	line = strings.TrimPrefix(line, "\ufeff")
	cols := make(map[string]int)
	for i, name := range csvio.SplitLine(line) {
		name = strings.ToLower(strings.TrimSpace(name))
		if slices.Contains(csvio.Columns, name) {
			if _, dup := cols[name]; !dup {
				cols[name] = i
			}
		}
	}
	return cols
}

type batch struct {
	state model.State
	res   Result
	newID func() string
}

func (b *batch) add(cols map[string]int, fields []string) bool {
	get := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(fields) {
			return ""
		}
		return strings.TrimSpace(fields[i])
	}

	date := get("date")
	if !datePattern.MatchString(date) {
		return false
	}
	amount, err := money.ParseAmount(get("amount"))
	if err != nil {
		return false
	}

	txID := get("id")
	if txID != "" && b.state.HasTransaction(txID) {
		return false
	}
	if txID == "" {
		txID = b.freshID(b.state.HasTransaction)
	}

	b.state.Tx = append(b.state.Tx, model.Transaction{
		ID:           txID,
		Type:         parseType(get("type")),
		Date:         date,
		Amount:       amount,
		AccountID:    b.account(get("account")),
		CostCenterID: b.costCenter(get("costcenter")),
		Category:     get("category"),
		Note:         get("note"),
	})
	return true
}

// parseType maps a type token. Anything not naming an expense is income.
func parseType(token string) model.TxType {
	if slices.Contains(expenseTokens, strings.ToLower(token)) {
		return model.TypeExpense
	}
	return model.TypeIncome
}

func (b *batch) account(name string) string {
	if name == "" {
		if len(b.state.Accounts) == 0 {
			return ""
		}
		return b.state.Accounts[0].ID
	}
	if a, ok := b.state.AccountByName(name); ok {
		return a.ID
	}
	a := model.Account{ID: b.freshID(func(v string) bool { _, ok := b.state.Account(v); return ok }), Name: name}
	b.state.Accounts = append(b.state.Accounts, a)
	b.res.NewAccounts = append(b.res.NewAccounts, name)
	return a.ID
}

func (b *batch) costCenter(name string) string {
	if name == "" {
		if len(b.state.CostCenters) == 0 {
			return ""
		}
		return b.state.CostCenters[0].ID
	}
	if c, ok := b.state.CostCenterByName(name); ok {
		return c.ID
	}
	c := model.CostCenter{ID: b.freshID(func(v string) bool { _, ok := b.state.CostCenter(v); return ok }), Name: name}
	b.state.CostCenters = append(b.state.CostCenters, c)
	b.res.NewCostCenters = append(b.res.NewCostCenters, name)
	return c.ID
}

func (b *batch) freshID(taken func(string) bool) string {
	for {
		if v := b.newID(); !taken(v) {
			return v
		}
	}
}
