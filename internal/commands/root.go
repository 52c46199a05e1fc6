package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gestao-mpe/gmpe/internal/buildinfo"
	"github.com/gestao-mpe/gmpe/internal/config"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:     "gmpe",
		Short:   buildinfo.AppName + ": cash book, reports and insights for small businesses",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&g.configPath, "config", config.FileName, "configuration file")
	pf.StringVar(&g.envFile, "env-file", ".env", "dotenv file with GMPE_* overrides")
	pf.StringVar(&g.style, "style", "", "report style: auto, plain or a glamour style")

	rootCmd.AddCommand(
		newInitCommand(g),
		newAccountCommand(g),
		newCostCenterCommand(g),
		newTxCommand(g),
		newReportCommand(g),
		newInsightsCommand(g),
		newExportCommand(g),
		newImportCommand(g),
		newConfigCommand(g),
		newSeedCommand(g),
		newWipeCommand(g),
	)

	return rootCmd
}
