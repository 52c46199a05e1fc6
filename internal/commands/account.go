package commands

import (
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/gestao-mpe/gmpe/internal/money"
	"github.com/gestao-mpe/gmpe/internal/report"
)

func newAccountCommand(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "account",
		Aliases: []string{"accounts"},
		Short:   "Manage accounts",
	}
	cmd.AddCommand(newAccountListCommand(g), newAccountAddCommand(g), newAccountDeleteCommand(g))
	return cmd
}

func newAccountListCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts with their balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.withApp(cmd, func(a *app) error {
				return a.show(report.Accounts(a.books.State()))
			})
		},
	}
}

func newAccountAddCommand(g *globalFlags) *cobra.Command {
	var balance string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			initial, err := parseBalance(balance)
			if err != nil {
				return err
			}
			return g.withApp(cmd, func(a *app) error {
				acct, err := a.books.AddAccount(cmd.Context(), args[0], initial)
				if err != nil {
					return err
				}
				a.printf("Added account %s (%s)\n", acct.Name, acct.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&balance, "balance", "0", "initial balance")
	return cmd
}

// parseBalance accepts negative opening balances, unlike transaction amounts.
func parseBalance(s string) (decimal.Decimal, error) {
	if len(s) > 0 && s[0] == '-' {
		v, err := money.ParseAmount(s[1:])
		return v.Neg(), err
	}
	return money.ParseAmount(s)
}

func newAccountDeleteCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id-or-name>",
		Aliases: []string{"rm"},
		Short:   "Delete an account without transactions",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withApp(cmd, func(a *app) error {
				if err := a.books.DeleteAccount(cmd.Context(), args[0]); err != nil {
					return err
				}
				a.printf("Deleted account %s\n", args[0])
				return nil
			})
		},
	}
}
