package export

import (
	"context"
	"io"
	"time"
)

// ExportService builds the monthly table and hands it to the delivery paths.
type ExportService interface {
	MonthlyTable(ctx context.Context, userID string, year int, month time.Month) (MonthlyTable, error)
	WriteCSV(w io.Writer, table MonthlyTable) error
	PostToSlack(ctx context.Context, table MonthlyTable) error
}
