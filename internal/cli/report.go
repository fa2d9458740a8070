package cli

import (
	"github.com/spf13/cobra"

	"github.com/simaogato/stockwalk/internal/app"
	"github.com/simaogato/stockwalk/internal/usecase/report"
)

func newReportCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print every instrument's code and average closing price",
		Long: `Load the instruments, generate their histories and print, for each
instrument, its code and its average closing price.

Example:
  stockwalk report --config stockwalk.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, rc)
		},
	}
}

func runReport(cmd *cobra.Command, rc *RootConfig) error {
	cfg, err := setup(cmd, rc)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := app.New(ctx, cfg, app.Options{})
	if err != nil {
		return err
	}
	defer a.Close()

	lines, err := a.Report.Averages(ctx)
	if err != nil {
		return err
	}

	return report.Write(cmd.OutOrStdout(), lines)
}
