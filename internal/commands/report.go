package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/gestao-mpe/gmpe/internal/insights"
	"github.com/gestao-mpe/gmpe/internal/ledger"
	"github.com/gestao-mpe/gmpe/internal/report"
)

func newReportCommand(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Monthly summaries and projections",
	}
	cmd.AddCommand(newReportSummaryCommand(g), newReportProjectionCommand(g), newReportMonthsCommand(g), newReportYearsCommand(g))
	return cmd
}

func newReportSummaryCommand(g *globalFlags) *cobra.Command {
	var f filterFlags
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Totals, balance and impact rankings for a period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.withApp(cmd, func(a *app) error {
				s := a.books.State()
				if f.month == "" {
					f.month = ledger.CurrentMonth(a.books.Now())
				}
				filter, err := f.resolve(s)
				if err != nil {
					return err
				}
				return a.show(report.Summary(s, filter))
			})
		},
	}
	f.bind(cmd, "")
	return cmd
}

func newReportProjectionCommand(g *globalFlags) *cobra.Command {
	var month string
	cmd := &cobra.Command{
		Use:   "projection",
		Short: "Cash reserve targets from a month's expenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.withApp(cmd, func(a *app) error {
				if month == "" {
					month = ledger.CurrentMonth(a.books.Now())
				}
				s := a.books.State()
				return a.show(report.Projection(s, insights.Project(s, month)))
			})
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "month YYYY-MM (default current month)")
	return cmd
}

func newReportMonthsCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "months",
		Short: "List the months that have transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.withApp(cmd, func(a *app) error {
				a.printf("%s\n", strings.Join(ledger.MonthOptions(a.books.State(), a.books.Now()), "\n"))
				return nil
			})
		},
	}
}

func newReportYearsCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "years",
		Short: "List the years available to insights",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.withApp(cmd, func(a *app) error {
				a.printf("%s\n", strings.Join(ledger.Years(a.books.State(), a.books.Now()), "\n"))
				return nil
			})
		},
	}
}

func newInsightsCommand(g *globalFlags) *cobra.Command {
	var year string
	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Yearly runway, concentration and recurrence insights",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.withApp(cmd, func(a *app) error {
				if year == "" {
					year = a.books.Now().Format("2006")
				}
				s := a.books.State()
				return a.show(report.Insights(s, insights.Analyze(s, year)))
			})
		},
	}
	cmd.Flags().StringVar(&year, "year", "", "year YYYY (default current year)")
	return cmd
}
