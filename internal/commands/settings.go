package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gestao-mpe/gmpe/internal/money"
)

func newConfigCommand(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show and change book settings",
	}
	cmd.AddCommand(newConfigShowCommand(g), newConfigSetCommand(g), newConfigThemeCommand(g))
	return cmd
}

func newConfigShowCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print book settings and the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.withApp(cmd, func(a *app) error {
				s := a.books.State()
				data, err := yaml.Marshal(a.cfg)
				if err != nil {
					return fmt.Errorf("marshaling config: %w", err)
				}
				a.printf("company: %s\ncurrency: %s\ntheme: %s\nschema: %d (%s %s)\n\n%s",
					s.Cfg.Company, s.Cfg.Currency, s.Cfg.Theme, s.Meta.SchemaVersion, s.Meta.App, s.Meta.AppVersion, data)
				return nil
			})
		},
	}
}

func newConfigSetCommand(g *globalFlags) *cobra.Command {
	var company, currency string
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set company name and currency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.withApp(cmd, func(a *app) error {
				cur := a.books.State().Cfg
				if !cmd.Flags().Changed("company") {
					company = cur.Company
				}
				if !cmd.Flags().Changed("currency") {
					currency = cur.Currency
				}
				cfg, err := a.books.UpdateConfig(cmd.Context(), company, currency)
				if err != nil {
					return err
				}
				if !money.Supported(cfg.Currency) {
					a.log.Warn("currency has no formatting rules, amounts will use the fallback format", "currency", cfg.Currency)
				}
				a.printf("Saved: company %q, currency %s\n", cfg.Company, cfg.Currency)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&company, "company", "", "company name")
	cmd.Flags().StringVar(&currency, "currency", "", "ISO 4217 currency code; empty means BRL")
	return cmd
}

func newConfigThemeCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "theme <light|dark>",
		Short: "Set the theme used by auto-styled reports",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withApp(cmd, func(a *app) error {
				theme, err := a.books.SetTheme(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				a.printf("Theme: %s\n", theme)
				return nil
			})
		},
	}
}

func newSeedCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Add a month of sample transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.withApp(cmd, func(a *app) error {
				if err := a.books.Seed(cmd.Context()); err != nil {
					return err
				}
				a.printf("Added sample transactions\n")
				return nil
			})
		},
	}
}

func newWipeCommand(g *globalFlags) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "wipe",
		Short: "Delete every transaction, keeping accounts and settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New("refusing to wipe without --yes")
			}
			return g.withApp(cmd, func(a *app) error {
				n := len(a.books.State().Tx)
				if err := a.books.Wipe(cmd.Context()); err != nil {
					return err
				}
				a.printf("Deleted %d transaction(s)\n", n)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deleting every transaction")
	return cmd
}
