package sheets

import (
	"context"

	"kasa/internal/core"
)

// SummaryExporter is the outbound port for pushing a monthly summary to
// an external spreadsheet.
type SummaryExporter interface {
	// ExportMonthlySummary writes the summary and returns a reference to
	// the written range.
	ExportMonthlySummary(ctx context.Context, summary core.MonthlySummary) (string, error)
}
