package main

import (
	"fmt"
	"io"
	"os"

	"github.com/iwvelando/city-budget/internal/budget"
	"github.com/iwvelando/city-budget/internal/chart"
	"github.com/iwvelando/city-budget/pkg/constants"
	"github.com/iwvelando/city-budget/pkg/output"
	"github.com/iwvelando/city-budget/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// chartOptions carries the flags shared by the chart subcommands.
type chartOptions struct {
	outputFormat string
	outPath      string
}

// query computes a spec from a loaded budget.
type query func(b *budget.Budget, logger *zap.Logger) (chart.Spec, error)

func newChartCommand(opts *rootOptions) *cobra.Command {
	chartOpts := &chartOptions{}

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Compute a single chart and write it out",
		Long: `Compute one chart from the ledgers and write it as a text table,
CSV, JSON chart spec or standalone HTML page.

Example:
  city-budget chart split --year 2017 --ledger revenue
  city-budget chart trend --start 2 --end 5 --output-format csv
  city-budget chart departments --ledger expense --name Police --output-format html --out police.html`,
	}

	cmd.PersistentFlags().StringVar(&chartOpts.outputFormat, "output-format", "", "type of output override: pretty, csv, json, html")
	cmd.PersistentFlags().StringVar(&chartOpts.outPath, "out", "", "write the chart to this file instead of stdout")

	cmd.AddCommand(newSplitCommand(opts, chartOpts))
	cmd.AddCommand(newTrendCommand(opts, chartOpts))
	cmd.AddCommand(newDepartmentsCommand(opts, chartOpts))
	return cmd
}

func newSplitCommand(opts *rootOptions, chartOpts *chartOptions) *cobra.Command {
	var year, ledgerName string

	cmd := &cobra.Command{
		Use:   "split",
		Short: "Department split of one year as a pie chart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChart(cmd, opts, chartOpts, func(b *budget.Budget, _ *zap.Logger) (chart.Spec, error) {
				if year == "" {
					year = b.LatestYear()
				}
				if ledgerName == "" {
					return chart.ExpenseVsRevenue(b, year)
				}
				kind, err := budget.ParseKind(ledgerName)
				if err != nil {
					return chart.Spec{}, err
				}
				return chart.SplitByCategory(b, kind, year)
			})
		},
	}

	cmd.Flags().StringVar(&year, "year", "", "fiscal year to split (default latest)")
	cmd.Flags().StringVar(&ledgerName, "ledger", "", "single ledger to split (expense or revenue); both when empty")
	return cmd
}

func newTrendCommand(opts *rootOptions, chartOpts *chartOptions) *cobra.Command {
	var start, end int

	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Expense and revenue totals over a year range as grouped bars",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			endSet := cmd.Flags().Changed("end")
			return runChart(cmd, opts, chartOpts, func(b *budget.Budget, _ *zap.Logger) (chart.Spec, error) {
				if !endSet {
					end = len(b.Years()) - 1
				}
				return chart.AggregateTrend(b, start, end)
			})
		},
	}

	cmd.Flags().IntVar(&start, "start", 0, "index of the first year, oldest year is 0")
	cmd.Flags().IntVar(&end, "end", 0, "index of the last year (default latest)")
	return cmd
}

func newDepartmentsCommand(opts *rootOptions, chartOpts *chartOptions) *cobra.Command {
	var ledgerName string
	var names []string

	cmd := &cobra.Command{
		Use:   "departments",
		Short: "Yearly amounts of selected departments as lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChart(cmd, opts, chartOpts, func(b *budget.Budget, logger *zap.Logger) (chart.Spec, error) {
				kind, err := budget.ParseKind(ledgerName)
				if err != nil {
					return chart.Spec{}, err
				}
				for _, name := range chart.UnmatchedDepartments(b, kind, names) {
					logger.Warn("skipping unknown department",
						zap.String("op", "main.departments"),
						zap.String("ledger", string(kind)),
						zap.String("name", name),
					)
				}
				return chart.DepartmentTrend(b, kind, names), nil
			})
		},
	}

	cmd.Flags().StringVar(&ledgerName, "ledger", string(budget.Expense), "ledger to chart (expense or revenue)")
	cmd.Flags().StringArrayVar(&names, "name", nil, "department to include; repeat for several")
	return cmd
}

// runChart loads the budget, runs q and writes the resulting spec.
func runChart(cmd *cobra.Command, opts *rootOptions, chartOpts *chartOptions, q query) error {
	conf, logger, b, err := opts.loadBudget(cmd.Context())
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	outputFormat, err := resolveOutputFormat(chartOpts.outputFormat, conf.Output.Format)
	if err != nil {
		return err
	}

	spec, err := q(b, logger)
	if err != nil {
		return err
	}

	return writeSpec(cmd.OutOrStdout(), chartOpts.outPath, outputFormat, spec, logger)
}

// resolveOutputFormat applies the CLI override over the configured format.
func resolveOutputFormat(flagValue, configured string) (string, error) {
	outputFormat := flagValue
	if outputFormat == "" {
		outputFormat = configured
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return "", err
	}
	return outputFormat, nil
}

func writeSpec(stdout io.Writer, outPath, outputFormat string, spec chart.Spec, logger *zap.Logger) error {
	if outPath == "" {
		return output.Write(stdout, outputFormat, spec)
	}

	file, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outPath, err)
	}
	if err := output.Write(file, outputFormat, spec); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", outPath, err)
	}

	logger.Info("chart written",
		zap.String("op", "main.writeSpec"),
		zap.String("path", outPath),
		zap.String("format", outputFormat),
		zap.String("title", spec.Title),
	)
	return nil
}
