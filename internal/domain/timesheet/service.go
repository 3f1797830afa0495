package timesheet

import (
	"context"
	"time"
)

// TimesheetService is the punch state machine, the day replacement operation
// and the read-side aggregation. Callers own authentication; userID here is
// already resolved.
type TimesheetService interface {
	// Punch operations. Each validates the day's state and applies a single
	// targeted mutation; daily-report bookkeeping is best-effort and never
	// fails the punch.
	ClockIn(ctx context.Context, userID string, req ClockInRequest) (DayResponse, error)
	ClockOut(ctx context.Context, userID string, req ClockOutRequest) (DayResponse, error)
	StartBreak(ctx context.Context, userID string, req BreakRequest) (DayResponse, error)
	EndBreak(ctx context.Context, userID string, req BreakRequest) (DayResponse, error)

	// ReplaceDay overwrites all sessions for (user, date). Validation runs
	// before any deletion; the rewrite is atomic. Shared verbatim by the
	// self-service and admin edit flows.
	ReplaceDay(ctx context.Context, userID string, date time.Time, req ReplaceDayRequest) (DayResponse, error)

	// Reads.
	Day(ctx context.Context, userID string, date time.Time) (DayResponse, error)
	DayStatus(ctx context.Context, userID string, at time.Time) (DayStatusResponse, error)
	MonthlyRecords(ctx context.Context, userID string, year int, month time.Month) ([]AttendanceRecord, error)
	WeeklySummary(ctx context.Context, userID string, now time.Time) (WeeklySummaryResponse, error)
}
