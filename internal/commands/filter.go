package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gestao-mpe/gmpe/internal/books"
	"github.com/gestao-mpe/gmpe/internal/ledger"
	"github.com/gestao-mpe/gmpe/internal/model"
)

type filterFlags struct {
	month      string
	typ        string
	account    string
	costCenter string
}

func (f *filterFlags) bind(cmd *cobra.Command, monthDefault string) {
	cmd.Flags().StringVar(&f.month, "month", monthDefault, `month YYYY-MM, or "all"`)
	cmd.Flags().StringVar(&f.typ, "type", ledger.All, "income, expense or all")
	cmd.Flags().StringVar(&f.account, "account", ledger.All, "account id or name, or all")
	cmd.Flags().StringVar(&f.costCenter, "cost-center", ledger.All, "cost center id or name, or all")
}

// changed reports whether any filter flag was given explicitly.
func (f *filterFlags) changed(cmd *cobra.Command) bool {
	for _, name := range []string{"month", "type", "account", "cost-center"} {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

// resolve turns the flags into a ledger filter, mapping entity names to ids.
func (f *filterFlags) resolve(s model.State) (ledger.Filter, error) {
	out := ledger.Filter{Month: f.month, Type: f.typ, AccountID: f.account, CostCenterID: f.costCenter}

	switch f.typ {
	case ledger.All, string(model.TypeIncome), string(model.TypeExpense):
	default:
		return out, fmt.Errorf("invalid --type %q: must be income, expense or all", f.typ)
	}
	if f.account != "" && f.account != ledger.All {
		a, err := books.ResolveAccount(s, f.account)
		if err != nil {
			return out, err
		}
		out.AccountID = a.ID
	}
	if f.costCenter != "" && f.costCenter != ledger.All {
		c, err := books.ResolveCostCenter(s, f.costCenter)
		if err != nil {
			return out, err
		}
		out.CostCenterID = c.ID
	}
	return out, nil
}
