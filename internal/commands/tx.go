package commands

import (
	"github.com/spf13/cobra"

	"github.com/gestao-mpe/gmpe/internal/books"
	"github.com/gestao-mpe/gmpe/internal/ledger"
	"github.com/gestao-mpe/gmpe/internal/model"
	"github.com/gestao-mpe/gmpe/internal/money"
	"github.com/gestao-mpe/gmpe/internal/report"
)

func newTxCommand(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tx",
		Aliases: []string{"transaction", "transactions"},
		Short:   "Record and list transactions",
	}
	cmd.AddCommand(newTxListCommand(g), newTxAddCommand(g), newTxDeleteCommand(g))
	return cmd
}

func newTxListCommand(g *globalFlags) *cobra.Command {
	var f filterFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.withApp(cmd, func(a *app) error {
				s := a.books.State()
				filter, err := f.resolve(s)
				if err != nil {
					return err
				}
				return a.show(report.Transactions(s, filter))
			})
		},
	}
	f.bind(cmd, ledger.All)
	return cmd
}

func newTxAddCommand(g *globalFlags) *cobra.Command {
	var (
		typ, date, amount, account, costCenter, category, note string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			value, err := money.ParseAmount(amount)
			if err != nil {
				return err
			}
			return g.withApp(cmd, func(a *app) error {
				if date == "" {
					date = a.books.Now().Format("2006-01-02")
				}
				tx, err := a.books.AddTransaction(cmd.Context(), books.TxInput{
					Type:         model.TxType(typ),
					Date:         date,
					Amount:       value,
					AccountID:    account,
					CostCenterID: costCenter,
					Category:     category,
					Note:         note,
				})
				if err != nil {
					return err
				}
				a.printf("Recorded %s %s on %s (%s)\n", tx.Type, money.Format(tx.Amount, a.books.State().Cfg.Currency), tx.Date, tx.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&typ, "type", string(model.TypeExpense), "income or expense")
	cmd.Flags().StringVar(&date, "date", "", "date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&amount, "amount", "", "amount, comma or dot decimal (required)")
	cmd.Flags().StringVar(&account, "account", "", "account id or name (default first account)")
	cmd.Flags().StringVar(&costCenter, "cost-center", "", "cost center id or name (default first cost center)")
	cmd.Flags().StringVar(&category, "category", "", "category (required)")
	cmd.Flags().StringVar(&note, "note", "", "free-form note")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func newTxDeleteCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a transaction",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withApp(cmd, func(a *app) error {
				if err := a.books.DeleteTransaction(cmd.Context(), args[0]); err != nil {
					return err
				}
				a.printf("Deleted transaction %s\n", args[0])
				return nil
			})
		},
	}
}
