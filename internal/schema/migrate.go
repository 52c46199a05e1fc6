package schema

import (
	"strings"

	"github.com/gestao-mpe/gmpe/internal/id"
	"github.com/gestao-mpe/gmpe/internal/model"
)

// Storage keys per schema version, newest first.
const (
	KeyV3 = "gmpe_v03_state"
	KeyV2 = "gmpe_v02_state"
	KeyV1 = "gmpe_v01_state"
)

// CurrentKey is where the current schema is persisted.
const CurrentKey = KeyV3

// LegacyKeys are probed in order when CurrentKey is absent.
var LegacyKeys = []string{KeyV2, KeyV1}

// Migrate upgrades any decoded shape to a current-schema state. Known
// shapes:
//
//	v1: {cfg, tx}                     no accounts, tx without references
//	v2: {cfg, accounts, tx}           tx.accountId, no cost centers
//	v3: {meta, cfg, accounts, costCenters, tx}
//
// Missing or unusable fields take the defaults of model.DefaultState, and
// transactions whose references do not resolve are pointed at the first
// account or cost center. Migrate never panics and is idempotent on
// current-schema input.
func Migrate(v any) (s model.State) {
	defer func() {
		if r := recover(); r != nil {
			s = model.DefaultState()
		}
	}()

	s = model.DefaultState()
	obj, ok := v.(map[string]any)
	if !ok {
		return s
	}

	if cfg, ok := obj["cfg"].(map[string]any); ok {
		s.Cfg.Company = text(cfg["company"], "")
		s.Cfg.Currency = text(cfg["currency"], model.DefaultCurrency)
		s.Cfg.Theme = model.NormalizeTheme(text(cfg["theme"], string(model.ThemeDark)))
	}

	if accounts := migrateAccounts(obj["accounts"]); len(accounts) > 0 {
		s.Accounts = accounts
	}
	if costCenters := migrateCostCenters(obj["costCenters"]); len(costCenters) > 0 {
		s.CostCenters = costCenters
	}
	s.Tx = migrateTx(obj["tx"], s)
	s.Meta = model.CurrentMeta()
	return s
}

func migrateAccounts(v any) []model.Account {
	list, _ := v.([]any)
	var out []model.Account
	seen := make(map[string]bool)
	for _, raw := range list {
		a, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		name := text(a["name"], "")
		if strings.TrimSpace(name) == "" {
			continue
		}
		out = append(out, model.Account{
			ID:             freshID(text(a["id"], ""), seen),
			Name:           name,
			InitialBalance: number(a["initialBalance"]),
		})
	}
	return out
}

func migrateCostCenters(v any) []model.CostCenter {
	list, _ := v.([]any)
	var out []model.CostCenter
	seen := make(map[string]bool)
	for _, raw := range list {
		c, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		name := text(c["name"], "")
		if strings.TrimSpace(name) == "" {
			continue
		}
		out = append(out, model.CostCenter{
			ID:   freshID(text(c["id"], ""), seen),
			Name: name,
		})
	}
	return out
}

func migrateTx(v any, s model.State) []model.Transaction {
	list, _ := v.([]any)
	out := make([]model.Transaction, 0, len(list))
	seen := make(map[string]bool)
	for _, raw := range list {
		t, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		typ := model.TypeIncome
		if text(t["type"], "") == string(model.TypeExpense) {
			typ = model.TypeExpense
		}

		accountID := text(t["accountId"], "")
		if _, ok := s.Account(accountID); !ok {
			accountID = s.Accounts[0].ID
		}
		costCenterID := text(t["costCenterId"], "")
		if _, ok := s.CostCenter(costCenterID); !ok {
			costCenterID = s.CostCenters[0].ID
		}

		out = append(out, model.Transaction{
			ID:           freshID(text(t["id"], ""), seen),
			Type:         typ,
			Date:         text(t["date"], ""),
			Amount:       number(t["amount"]).Abs(),
			AccountID:    accountID,
			CostCenterID: costCenterID,
			Category:     text(t["category"], ""),
			Note:         text(t["note"], ""),
		})
	}
	return out
}

// freshID keeps candidate unless it is empty or already used in the same
// collection.
func freshID(candidate string, seen map[string]bool) string {
	if candidate == "" || seen[candidate] {
		candidate = id.Unique(func(v string) bool { return seen[v] })
	}
	seen[candidate] = true
	return candidate
}
