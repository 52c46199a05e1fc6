package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gestao-mpe/gmpe/internal/config"
)

type initOptions struct {
	driver   string
	path     string
	company  string
	currency string
	seed     bool
	force    bool
}

func newInitCommand(g *globalFlags) *cobra.Command {
	var opts initOptions

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a configuration file and an empty book",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				dir, err := filepath.Abs(args[0])
				if err != nil {
					return fmt.Errorf("resolving path: %w", err)
				}
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("creating directory: %w", err)
				}
				g.configPath = filepath.Join(dir, config.FileName)
			}
			return runInit(cmd, g, opts)
		},
	}

	cmd.Flags().StringVar(&opts.driver, "driver", config.DriverSQLite, "store driver: sqlite, dir or memory")
	cmd.Flags().StringVar(&opts.path, "path", "", "store path (defaults per driver)")
	cmd.Flags().StringVar(&opts.company, "company", "", "company name")
	cmd.Flags().StringVar(&opts.currency, "currency", "", "ISO 4217 currency code (default BRL)")
	cmd.Flags().BoolVar(&opts.seed, "seed", false, "add a month of sample transactions")
	cmd.Flags().BoolVar(&opts.force, "force", false, "overwrite an existing configuration file")

	return cmd
}

func runInit(cmd *cobra.Command, g *globalFlags, opts initOptions) error {
	if _, err := os.Stat(g.configPath); err == nil && !opts.force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", g.configPath)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking config: %w", err)
	}

	cfg := config.Default()
	cfg.Store.Driver = opts.driver
	switch {
	case opts.path != "":
		cfg.Store.Path = opts.path
	case opts.driver == config.DriverDir:
		cfg.Store.Path = "data"
	case opts.driver == config.DriverMemory:
		cfg.Store.Path = ""
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(g.configPath, cfg); err != nil {
		return err
	}

	return g.withApp(cmd, func(a *app) error {
		if _, err := a.books.UpdateConfig(cmd.Context(), opts.company, opts.currency); err != nil {
			return err
		}
		if opts.seed {
			if err := a.books.Seed(cmd.Context()); err != nil {
				return err
			}
		}
		a.printf("Initialized %s (store: %s %s)\n", g.configPath, a.cfg.Store.Driver, a.cfg.Store.Path)
		return nil
	})
}
