package report

import (
	"context"
	"time"
)

// ReportService reads and edits daily reports. Creation and submission happen
// as side effects of the punch flow.
type ReportService interface {
	Get(ctx context.Context, userID string, date time.Time) (ReportResponse, error)
	Update(ctx context.Context, userID string, date time.Time, req UpdateReportRequest) (ReportResponse, error)
}
