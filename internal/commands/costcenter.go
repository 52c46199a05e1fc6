package commands

import (
	"github.com/spf13/cobra"

	"github.com/gestao-mpe/gmpe/internal/report"
)

func newCostCenterCommand(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "costcenter",
		Aliases: []string{"costcenters", "cc"},
		Short:   "Manage cost centers",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List cost centers",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return g.withApp(cmd, func(a *app) error {
					return a.show(report.CostCenters(a.books.State()))
				})
			},
		},
		&cobra.Command{
			Use:   "add <name>",
			Short: "Add a cost center",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return g.withApp(cmd, func(a *app) error {
					cc, err := a.books.AddCostCenter(cmd.Context(), args[0])
					if err != nil {
						return err
					}
					a.printf("Added cost center %s (%s)\n", cc.Name, cc.ID)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:     "delete <id-or-name>",
			Aliases: []string{"rm"},
			Short:   "Delete a cost center without transactions",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return g.withApp(cmd, func(a *app) error {
					if err := a.books.DeleteCostCenter(cmd.Context(), args[0]); err != nil {
						return err
					}
					a.printf("Deleted cost center %s\n", args[0])
					return nil
				})
			},
		},
	)
	return cmd
}
