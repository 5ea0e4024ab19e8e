// Package google implements the sheets export port against the Google
// Sheets API.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"kasa/internal/core"
	ports "kasa/internal/sheets"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var _ ports.SummaryExporter = (*Client)(nil)

// Options carries the credentials and target of the export. Exactly one
// of CredentialsJSON or CredentialsFile must be set.
type Options struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON string
	CredentialsFile string
}

func New(ctx context.Context, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	sheetName := strings.TrimSpace(opts.SheetName)
	if sheetName == "" {
		sheetName = "Summary"
	}

	var credentials []byte
	switch {
	case opts.CredentialsJSON != "":
		credentials = []byte(opts.CredentialsJSON)
	case opts.CredentialsFile != "":
		data, err := os.ReadFile(opts.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
		credentials = data
	default:
		return nil, errors.New("no Google credentials provided")
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentials),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: opts.SpreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// ExportMonthlySummary replaces the sheet contents with the summary:
// a totals header followed by one row per category bucket.
func (c *Client) ExportMonthlySummary(ctx context.Context, summary core.MonthlySummary) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	rows := [][]any{
		{"Month", fmt.Sprintf("%04d-%02d", summary.Year, summary.Month)},
		{"Income", summary.Income},
		{"Expense", summary.Expense},
		{"Net", summary.Net},
		{},
		{"Category", "Type", "Total"},
	}
	for _, bucket := range summary.ByCategory {
		rows = append(rows, []any{bucket.Name, string(bucket.Kind), bucket.Total})
	}

	clearRange := fmt.Sprintf("%s!A:C", c.sheetName)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return "", fmt.Errorf("clear sheet %s: %w", c.sheetName, err)
	}

	writeRange := fmt.Sprintf("%s!A1:C%d", c.sheetName, len(rows))
	vr := &gsheet.ValueRange{Values: rows}
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, writeRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
		return "", fmt.Errorf("update sheet %s: %w", c.sheetName, err)
	}

	slog.InfoContext(ctx, "Exported monthly summary",
		"spreadsheet_id", c.spreadsheetID,
		"sheet", c.sheetName,
		"rows", len(rows),
		"exported_at", time.Now().Format(time.RFC3339))

	return writeRange, nil
}
