package cli

import (
	"time"

	"github.com/spf13/cobra"

	"kasa/internal/sheets/google"
)

var (
	exportYear  int
	exportMonth int
)

func init() {
	rootCmd.AddCommand(exportCmd)
	now := time.Now()
	exportCmd.Flags().IntVar(&exportYear, "year", now.Year(), "Year of the summary to export")
	exportCmd.Flags().IntVar(&exportMonth, "month", int(now.Month()), "Month of the summary to export (1-12)")
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a monthly summary to Google Sheets",
	RunE:  runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	logger := setupLogger()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.ValidateExport(); err != nil {
		return err
	}

	engine, cleanup, err := openEngine(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = cleanup() }()

	client, err := google.New(cmd.Context(), google.Options{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		SheetName:       cfg.GoogleSheetName,
		CredentialsJSON: cfg.GoogleOAuthClientJSON,
		CredentialsFile: cfg.GoogleOAuthClientFile,
	})
	if err != nil {
		return err
	}

	summary := engine.MonthlySummary(exportYear, time.Month(exportMonth))
	ref, err := client.ExportMonthlySummary(cmd.Context(), summary)
	if err != nil {
		return err
	}

	logger.Info("Export complete", "year", exportYear, "month", exportMonth, "range", ref)
	return nil
}
