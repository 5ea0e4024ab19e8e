package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"kasa/internal/core"
)

var (
	summaryYear  int
	summaryMonth int
)

func init() {
	rootCmd.AddCommand(summaryCmd)
	now := time.Now()
	summaryCmd.Flags().IntVar(&summaryYear, "year", now.Year(), "Year of the summary")
	summaryCmd.Flags().IntVar(&summaryMonth, "month", int(now.Month()), "Month of the summary (1-12)")
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the monthly summary",
	RunE:  runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	if summaryMonth < 1 || summaryMonth > 12 {
		return fmt.Errorf("invalid month %d: must be 1-12", summaryMonth)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	engine, cleanup, err := openEngine(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = cleanup() }()

	s := engine.MonthlySummary(summaryYear, time.Month(summaryMonth))

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%04d-%02d\n", s.Year, s.Month)
	fmt.Fprintf(out, "  income:  %s\n", core.FormatAmount(s.Income))
	fmt.Fprintf(out, "  expense: %s\n", core.FormatAmount(s.Expense))
	fmt.Fprintf(out, "  net:     %s\n", core.FormatAmount(s.Net))
	if len(s.ByCategory) > 0 {
		fmt.Fprintln(out)
		for _, bucket := range s.ByCategory {
			fmt.Fprintf(out, "  %s %-20s %-8s %s\n", bucket.Icon, bucket.Name, bucket.Kind, core.FormatAmount(bucket.Total))
		}
	}
	return nil
}
