// Command wfhctl runs operational tasks against the attendance database.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cmlabs-hris/wfh-attendance-go/internal/app"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/config"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/domain/report"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "wfhctl",
		Short:         "Operational commands for the WFH attendance service",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(newMigrateCmd(), newPurgeTokensCmd(), newReportCmd())
	return root
}

// withApp loads config, builds the application and closes it after fn.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := app.NewLogger(cmd.ErrOrStderr(), cfg.App)
	slog.SetDefault(logger)

	a, err := app.New(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(cmd.Context(), a)
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				applied, err := a.DB.Migrate(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", len(applied))
				return nil
			})
		},
	}
}

func newPurgeTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge-tokens",
		Short: "Delete expired entries from the token blacklist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				deleted, err := a.AuthService.PurgeExpired(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "purged %d token(s)\n", deleted)
				return nil
			})
		},
	}
}

func newReportCmd() *cobra.Command {
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Print attendance reports as JSON",
	}

	var (
		year         int
		month        int
		employeeCode string
	)
	monthly := &cobra.Command{
		Use:   "monthly",
		Short: "Monthly attendance summary per employee",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := report.MonthlySummaryRequest{
				PeriodRequest: report.PeriodRequest{Year: year, Month: month},
			}
			if employeeCode != "" {
				req.EmployeeCode = &employeeCode
			}

			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				summary, err := a.ReportService.MonthlySummary(ctx, req)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			})
		},
	}
	monthly.Flags().IntVar(&year, "year", 0, "report year, e.g. 2024")
	monthly.Flags().IntVar(&month, "month", 0, "report month 1-12")
	monthly.Flags().StringVar(&employeeCode, "employee", "", "limit to one employee code")
	_ = monthly.MarkFlagRequired("year")
	_ = monthly.MarkFlagRequired("month")

	reportCmd.AddCommand(monthly)
	return reportCmd
}
