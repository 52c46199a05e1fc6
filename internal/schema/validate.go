package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/gestao-mpe/gmpe/internal/model"
)

// IsValidState reports whether v, a value produced by decoding JSON into
// an any, has the shape of a current-schema state. It never panics and
// accepts no partial matches. It does not check that transactions
// reference live accounts and cost centers; Validate does.
func IsValidState(v any) bool {
	obj, ok := v.(map[string]any)
	if !ok {
		return false
	}

	cfg, ok := obj["cfg"].(map[string]any)
	if !ok {
		return false
	}
	for _, key := range []string{"company", "currency", "theme"} {
		if _, ok := cfg[key].(string); !ok {
			return false
		}
	}

	accounts, ok := obj["accounts"].([]any)
	if !ok || len(accounts) == 0 {
		return false
	}
	for _, raw := range accounts {
		a, ok := raw.(map[string]any)
		if !ok || !isString(a["id"]) || !isName(a["name"]) {
			return false
		}
		if _, ok := finite(a["initialBalance"]); !ok {
			return false
		}
	}

	costCenters, ok := obj["costCenters"].([]any)
	if !ok || len(costCenters) == 0 {
		return false
	}
	for _, raw := range costCenters {
		c, ok := raw.(map[string]any)
		if !ok || !isString(c["id"]) || !isName(c["name"]) {
			return false
		}
	}

	txs, ok := obj["tx"].([]any)
	if !ok {
		return false
	}
	for _, raw := range txs {
		t, ok := raw.(map[string]any)
		if !ok || !isString(t["id"]) {
			return false
		}
		if typ, _ := t["type"].(string); !model.TxType(typ).Valid() {
			return false
		}
		if !isString(t["date"]) {
			return false
		}
		amount, ok := finite(t["amount"])
		if !ok || amount.IsNegative() {
			return false
		}
		for _, key := range []string{"accountId", "costCenterId", "category", "note"} {
			if !isString(t[key]) {
				return false
			}
		}
	}
	return true
}

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}

func isName(v any) bool {
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) != ""
}

// finite converts a decoded JSON number to a decimal. Strings are not
// numbers here.
func finite(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		return d, err == nil
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(n), true
	case float32:
		f := float64(n)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat32(n), true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case int32:
		return decimal.NewFromInt32(n), true
	case decimal.Decimal:
		return n, true
	default:
		return decimal.Zero, false
	}
}

// ValidationError describes a single rule violation in a typed state.
type ValidationError struct {
	Rule        string
	ID          string
	Description string
}

func (e ValidationError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s: %s", e.Rule, e.Description)
	}
	return fmt.Sprintf("%s [%s]: %s", e.Rule, e.ID, e.Description)
}

// Validate checks a typed state, including that every transaction points
// at a live account and cost center.
func Validate(s model.State) []ValidationError {
	var errs []ValidationError

	if len(s.Accounts) == 0 {
		errs = append(errs, ValidationError{Rule: "accounts", Description: "at least one account is required"})
	}
	if len(s.CostCenters) == 0 {
		errs = append(errs, ValidationError{Rule: "cost-centers", Description: "at least one cost center is required"})
	}

	accounts := make(map[string]bool, len(s.Accounts))
	for _, a := range s.Accounts {
		errs = append(errs, checkEntity("account", a.ID, a.Name, accounts)...)
		accounts[a.ID] = true
	}
	costCenters := make(map[string]bool, len(s.CostCenters))
	for _, c := range s.CostCenters {
		errs = append(errs, checkEntity("cost center", c.ID, c.Name, costCenters)...)
		costCenters[c.ID] = true
	}

	txIDs := make(map[string]bool, len(s.Tx))
	for _, t := range s.Tx {
		switch {
		case t.ID == "":
			errs = append(errs, ValidationError{Rule: "id", Description: "transaction without id"})
		case txIDs[t.ID]:
			errs = append(errs, ValidationError{Rule: "id", ID: t.ID, Description: "duplicate transaction id"})
		}
		txIDs[t.ID] = true

		if !t.Type.Valid() {
			errs = append(errs, ValidationError{Rule: "type", ID: t.ID, Description: fmt.Sprintf("unknown type %q", t.Type)})
		}
		if t.Amount.IsNegative() {
			errs = append(errs, ValidationError{Rule: "amount", ID: t.ID, Description: fmt.Sprintf("negative amount %s", t.Amount)})
		}
		if !accounts[t.AccountID] {
			errs = append(errs, ValidationError{Rule: "reference", ID: t.ID, Description: fmt.Sprintf("unknown account %q", t.AccountID)})
		}
		if !costCenters[t.CostCenterID] {
			errs = append(errs, ValidationError{Rule: "reference", ID: t.ID, Description: fmt.Sprintf("unknown cost center %q", t.CostCenterID)})
		}
	}

	return errs
}

func checkEntity(kind, id, name string, seen map[string]bool) []ValidationError {
	var errs []ValidationError
	switch {
	case id == "":
		errs = append(errs, ValidationError{Rule: "id", Description: kind + " without id"})
	case seen[id]:
		errs = append(errs, ValidationError{Rule: "id", ID: id, Description: "duplicate " + kind + " id"})
	}
	if strings.TrimSpace(name) == "" {
		errs = append(errs, ValidationError{Rule: "name", ID: id, Description: kind + " name is empty"})
	}
	return errs
}

// Check runs Validate and joins the violations into one error.
func Check(s model.State) error {
	verrs := Validate(s)
	if len(verrs) == 0 {
		return nil
	}
	errs := make([]error, len(verrs))
	for i, ve := range verrs {
		errs[i] = ve
	}
	return fmt.Errorf("invalid state: %w", errors.Join(errs...))
}
