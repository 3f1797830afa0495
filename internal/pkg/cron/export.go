package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/shiftlog/shiftlog-backend-go/internal/domain/export"
)

// ExportJobs posts the previous month's attendance table to Slack for each
// configured user, on the schedule the scheduler runs it with.
type ExportJobs struct {
	exportService export.ExportService
	userIDs       []string
	loc           *time.Location
}

func NewExportJobs(exportService export.ExportService, userIDs []string, loc *time.Location) *ExportJobs {
	return &ExportJobs{
		exportService: exportService,
		userIDs:       userIDs,
		loc:           loc,
	}
}

// PostPreviousMonth delivers last month's table for every configured user.
// One failing user does not stop the rest.
func (j *ExportJobs) PostPreviousMonth(ctx context.Context) error {
	prev := time.Now().In(j.loc).AddDate(0, -1, 0)

	var firstErr error
	for _, userID := range j.userIDs {
		table, err := j.exportService.MonthlyTable(ctx, userID, prev.Year(), prev.Month())
		if err == nil {
			err = j.exportService.PostToSlack(ctx, table)
		}
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("export for user %s: %w", userID, err)
		}
	}
	return firstErr
}
