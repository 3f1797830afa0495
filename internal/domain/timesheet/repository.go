package timesheet

import (
	"context"
	"time"
)

// TimesheetRepository defines data access for attendance records, their
// sessions and breaks. Dates are civil dates at midnight UTC. Operations on
// different (user, date) keys are independent; the store serializes writes
// to the same key.
type TimesheetRepository interface {
	// GetOrCreateRecord resolves the record for (user, date), creating it
	// lazily on first use. Idempotent.
	GetOrCreateRecord(ctx context.Context, userID string, date time.Time) (AttendanceRecord, error)

	// GetRecordByUserAndDate returns the record with sessions and breaks
	// loaded, sessions ordered by clock-in ascending. Nil when absent.
	GetRecordByUserAndDate(ctx context.Context, userID string, date time.Time) (*AttendanceRecord, error)

	// ListRecordsByDateRange returns fully loaded records in [from, to],
	// ordered by date ascending.
	ListRecordsByDateRange(ctx context.Context, userID string, from, to time.Time) ([]AttendanceRecord, error)

	// GetActiveSession returns the open session on (user, date), nil if none.
	GetActiveSession(ctx context.Context, userID string, date time.Time) (*WorkSession, error)

	// CreateSession opens a new session on the record.
	CreateSession(ctx context.Context, recordID string, clockIn time.Time) (WorkSession, error)

	// CloseSession sets the session's clock-out.
	CloseSession(ctx context.Context, sessionID string, clockOut time.Time) error

	// GetOpenBreak returns the most recently started ongoing break of the
	// session (start descending, limit 1), nil if none.
	GetOpenBreak(ctx context.Context, sessionID string) (*Break, error)

	// CreateBreak opens a new break on the session.
	CreateBreak(ctx context.Context, sessionID string, start time.Time) (Break, error)

	// CloseBreak sets the break's end.
	CloseBreak(ctx context.Context, breakID string, end time.Time) error

	// ReplaceDaySessions atomically deletes the record's sessions (breaks
	// first) and inserts the given ones. Readers never observe the day
	// half-rewritten.
	ReplaceDaySessions(ctx context.Context, recordID string, sessions []WorkSession) error
}
