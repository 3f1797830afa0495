package report

import (
	"context"
	"time"
)

// ReportRepository defines data access for daily reports and their tasks.
type ReportRepository interface {
	// GetByUserAndDate returns the report with tasks loaded, ordered by task
	// type then sort order. Nil when absent.
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*DailyReport, error)

	// Create persists a new report with its tasks.
	Create(ctx context.Context, rep DailyReport) (DailyReport, error)

	// MarkSubmitted flags the report submitted at the given time.
	MarkSubmitted(ctx context.Context, reportID string, at time.Time) error

	// ReplaceTasks swaps all tasks of one type on the report.
	ReplaceTasks(ctx context.Context, reportID string, taskType TaskType, tasks []DailyReportTask) error
}
