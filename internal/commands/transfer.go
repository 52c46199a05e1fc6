package commands

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gestao-mpe/gmpe/internal/ledger"
)

func newExportCommand(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the ledger as CSV or the whole book as a JSON backup",
	}
	cmd.AddCommand(newExportCSVCommand(g), newExportBackupCommand(g))
	return cmd
}

func newExportCSVCommand(g *globalFlags) *cobra.Command {
	var (
		f   filterFlags
		out string
	)
	cmd := &cobra.Command{
		Use:   "csv",
		Short: "Export transactions as CSV; any filter flag exports the filtered view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.withApp(cmd, func(a *app) error {
				var filter *ledger.Filter
				if f.changed(cmd) {
					resolved, err := f.resolve(a.books.State())
					if err != nil {
						return err
					}
					filter = &resolved
				}

				var buf bytes.Buffer
				name, err := a.books.ExportCSV(&buf, filter)
				if err != nil {
					return err
				}
				path, err := writeOutput(a.out, out, name, buf.Bytes())
				if err != nil {
					return err
				}
				if path != "" {
					a.printf("Wrote %s\n", path)
				}
				return nil
			})
		},
	}
	f.bind(cmd, ledger.All)
	cmd.Flags().StringVarP(&out, "out", "o", "", `output file or directory, "-" for stdout`)
	return cmd
}

func newExportBackupCommand(g *globalFlags) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Write a JSON backup of the whole book",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.withApp(cmd, func(a *app) error {
				data, name, err := a.books.ExportBackup()
				if err != nil {
					return err
				}
				path, err := writeOutput(a.out, out, name, data)
				if err != nil {
					return err
				}
				if path != "" {
					a.printf("Wrote %s\n", path)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", `output file or directory, "-" for stdout`)
	return cmd
}

func newImportCommand(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a CSV ledger or restore a JSON backup",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "csv <file>",
			Short: "Merge transactions from a CSV file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("opening %s: %w", args[0], err)
				}
				defer f.Close()

				return g.withApp(cmd, func(a *app) error {
					res, err := a.books.ImportCSV(cmd.Context(), f)
					if err != nil {
						return err
					}
					a.printf("Imported %d transaction(s), skipped %d\n", res.Imported, res.Skipped)
					for _, name := range res.NewAccounts {
						a.printf("New account: %s\n", name)
					}
					for _, name := range res.NewCostCenters {
						a.printf("New cost center: %s\n", name)
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "backup <file>",
			Short: "Replace the book with a JSON backup",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				data, err := os.ReadFile(args[0])
				if err != nil {
					return fmt.Errorf("reading %s: %w", args[0], err)
				}
				return g.withApp(cmd, func(a *app) error {
					s, err := a.books.ImportBackup(cmd.Context(), data)
					if err != nil {
						return err
					}
					a.printf("Restored %d account(s), %d cost center(s), %d transaction(s)\n",
						len(s.Accounts), len(s.CostCenters), len(s.Tx))
					return nil
				})
			},
		},
	)
	return cmd
}
