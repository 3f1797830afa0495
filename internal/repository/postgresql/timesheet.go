package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shiftlog/shiftlog-backend-go/internal/domain/timesheet"
	"github.com/shiftlog/shiftlog-backend-go/internal/pkg/database"
)

// Schema expectations: attendance_records has UNIQUE (user_id, date);
// work_sessions has a partial unique index on (record_id) WHERE clock_out IS
// NULL; session_breaks has one on (session_id) WHERE end_at IS NULL. Those
// indexes back the single-open-session and single-open-break invariants
// against concurrent punches racing past the application-level checks.
type timesheetRepository struct {
	db *database.DB
}

func NewTimesheetRepository(db *database.DB) timesheet.TimesheetRepository {
	return &timesheetRepository{db: db}
}

// GetOrCreateRecord implements timesheet.TimesheetRepository.
func (r *timesheetRepository) GetOrCreateRecord(ctx context.Context, userID string, date time.Time) (timesheet.AttendanceRecord, error) {
	q := GetQuerier(ctx, r.db)

	// Upsert so concurrent callers converge on the same row.
	query := `
		INSERT INTO attendance_records (user_id, date)
		VALUES ($1, $2)
		ON CONFLICT (user_id, date) DO UPDATE SET updated_at = now()
		RETURNING id, user_id, date, created_at, updated_at
	`

	var rec timesheet.AttendanceRecord
	err := q.QueryRow(ctx, query, userID, date).Scan(
		&rec.ID, &rec.UserID, &rec.Date, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return timesheet.AttendanceRecord{}, fmt.Errorf("failed to get or create attendance record: %w", err)
	}
	rec.Date = rec.Date.UTC()

	return rec, nil
}

// GetRecordByUserAndDate implements timesheet.TimesheetRepository.
func (r *timesheetRepository) GetRecordByUserAndDate(ctx context.Context, userID string, date time.Time) (*timesheet.AttendanceRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, date, created_at, updated_at
		FROM attendance_records
		WHERE user_id = $1
		  AND date = $2
	`

	var rec timesheet.AttendanceRecord
	err := q.QueryRow(ctx, query, userID, date).Scan(
		&rec.ID, &rec.UserID, &rec.Date, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance record: %w", err)
	}
	rec.Date = rec.Date.UTC()

	if err := r.loadSessions(ctx, []*timesheet.AttendanceRecord{&rec}); err != nil {
		return nil, err
	}

	return &rec, nil
}

// ListRecordsByDateRange implements timesheet.TimesheetRepository.
func (r *timesheetRepository) ListRecordsByDateRange(ctx context.Context, userID string, from, to time.Time) ([]timesheet.AttendanceRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, date, created_at, updated_at
		FROM attendance_records
		WHERE user_id = $1
		  AND date >= $2
		  AND date <= $3
		ORDER BY date ASC
	`

	rows, err := q.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance records: %w", err)
	}
	defer rows.Close()

	var records []timesheet.AttendanceRecord
	for rows.Next() {
		var rec timesheet.AttendanceRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Date, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		rec.Date = rec.Date.UTC()
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance records: %w", err)
	}

	ptrs := make([]*timesheet.AttendanceRecord, len(records))
	for i := range records {
		ptrs[i] = &records[i]
	}
	if err := r.loadSessions(ctx, ptrs); err != nil {
		return nil, err
	}

	return records, nil
}

// loadSessions attaches sessions (clock-in ascending) and their breaks
// (start ascending) to the given records.
func (r *timesheetRepository) loadSessions(ctx context.Context, records []*timesheet.AttendanceRecord) error {
	if len(records) == 0 {
		return nil
	}
	q := GetQuerier(ctx, r.db)

	recordIDs := make([]string, 0, len(records))
	byRecord := make(map[string]*timesheet.AttendanceRecord, len(records))
	for _, rec := range records {
		recordIDs = append(recordIDs, rec.ID)
		byRecord[rec.ID] = rec
	}

	sessionQuery := `
		SELECT id, record_id, clock_in, clock_out
		FROM work_sessions
		WHERE record_id = ANY($1)
		ORDER BY clock_in ASC
	`
	rows, err := q.Query(ctx, sessionQuery, recordIDs)
	if err != nil {
		return fmt.Errorf("failed to query work sessions: %w", err)
	}
	defer rows.Close()

	sessionIDs := make([]string, 0)
	bySession := make(map[string]*timesheet.WorkSession)
	for rows.Next() {
		var s timesheet.WorkSession
		if err := rows.Scan(&s.ID, &s.RecordID, &s.ClockIn, &s.ClockOut); err != nil {
			return fmt.Errorf("failed to scan work session: %w", err)
		}
		rec := byRecord[s.RecordID]
		rec.Sessions = append(rec.Sessions, s)
		sessionIDs = append(sessionIDs, s.ID)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate work sessions: %w", err)
	}
	rows.Close()

	if len(sessionIDs) == 0 {
		return nil
	}
	for _, rec := range records {
		for i := range rec.Sessions {
			bySession[rec.Sessions[i].ID] = &rec.Sessions[i]
		}
	}

	breakQuery := `
		SELECT id, session_id, start_at, end_at
		FROM session_breaks
		WHERE session_id = ANY($1)
		ORDER BY start_at ASC
	`
	breakRows, err := q.Query(ctx, breakQuery, sessionIDs)
	if err != nil {
		return fmt.Errorf("failed to query session breaks: %w", err)
	}
	defer breakRows.Close()

	for breakRows.Next() {
		var b timesheet.Break
		if err := breakRows.Scan(&b.ID, &b.SessionID, &b.StartAt, &b.EndAt); err != nil {
			return fmt.Errorf("failed to scan session break: %w", err)
		}
		if s, ok := bySession[b.SessionID]; ok {
			s.Breaks = append(s.Breaks, b)
		}
	}
	if err := breakRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate session breaks: %w", err)
	}

	return nil
}

// GetActiveSession implements timesheet.TimesheetRepository.
func (r *timesheetRepository) GetActiveSession(ctx context.Context, userID string, date time.Time) (*timesheet.WorkSession, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT s.id, s.record_id, s.clock_in, s.clock_out
		FROM work_sessions s
		JOIN attendance_records r ON r.id = s.record_id
		WHERE r.user_id = $1
		  AND r.date = $2
		  AND s.clock_out IS NULL
		ORDER BY s.clock_in DESC
		LIMIT 1
	`

	var s timesheet.WorkSession
	err := q.QueryRow(ctx, query, userID, date).Scan(&s.ID, &s.RecordID, &s.ClockIn, &s.ClockOut)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active session: %w", err)
	}

	return &s, nil
}

// CreateSession implements timesheet.TimesheetRepository.
func (r *timesheetRepository) CreateSession(ctx context.Context, recordID string, clockIn time.Time) (timesheet.WorkSession, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO work_sessions (record_id, clock_in)
		VALUES ($1, $2)
		RETURNING id
	`

	s := timesheet.WorkSession{RecordID: recordID, ClockIn: clockIn}
	if err := q.QueryRow(ctx, query, recordID, clockIn).Scan(&s.ID); err != nil {
		return timesheet.WorkSession{}, fmt.Errorf("failed to create work session: %w", err)
	}

	return s, nil
}

// CloseSession implements timesheet.TimesheetRepository.
func (r *timesheetRepository) CloseSession(ctx context.Context, sessionID string, clockOut time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `UPDATE work_sessions SET clock_out = $2 WHERE id = $1`

	tag, err := q.Exec(ctx, query, sessionID, clockOut)
	if err != nil {
		return fmt.Errorf("failed to close work session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return timesheet.ErrNoActiveSession
	}

	return nil
}

// GetOpenBreak implements timesheet.TimesheetRepository.
func (r *timesheetRepository) GetOpenBreak(ctx context.Context, sessionID string) (*timesheet.Break, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, session_id, start_at, end_at
		FROM session_breaks
		WHERE session_id = $1
		  AND end_at IS NULL
		ORDER BY start_at DESC
		LIMIT 1
	`

	var b timesheet.Break
	err := q.QueryRow(ctx, query, sessionID).Scan(&b.ID, &b.SessionID, &b.StartAt, &b.EndAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get open break: %w", err)
	}

	return &b, nil
}

// CreateBreak implements timesheet.TimesheetRepository.
func (r *timesheetRepository) CreateBreak(ctx context.Context, sessionID string, start time.Time) (timesheet.Break, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO session_breaks (session_id, start_at)
		VALUES ($1, $2)
		RETURNING id
	`

	b := timesheet.Break{SessionID: sessionID, StartAt: start}
	if err := q.QueryRow(ctx, query, sessionID, start).Scan(&b.ID); err != nil {
		return timesheet.Break{}, fmt.Errorf("failed to create break: %w", err)
	}

	return b, nil
}

// CloseBreak implements timesheet.TimesheetRepository.
func (r *timesheetRepository) CloseBreak(ctx context.Context, breakID string, end time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `UPDATE session_breaks SET end_at = $2 WHERE id = $1`

	tag, err := q.Exec(ctx, query, breakID, end)
	if err != nil {
		return fmt.Errorf("failed to close break: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return timesheet.ErrNoActiveBreak
	}

	return nil
}

// ReplaceDaySessions implements timesheet.TimesheetRepository.
// The teardown and rebuild run in one transaction, so concurrent readers see
// either the old day or the new one, never an empty or partial day.
func (r *timesheetRepository) ReplaceDaySessions(ctx context.Context, recordID string, sessions []timesheet.WorkSession) error {
	return WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		deleteBreaks := `
			DELETE FROM session_breaks
			WHERE session_id IN (SELECT id FROM work_sessions WHERE record_id = $1)
		`
		if _, err := tx.Exec(ctx, deleteBreaks, recordID); err != nil {
			return fmt.Errorf("failed to delete session breaks: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM work_sessions WHERE record_id = $1`, recordID); err != nil {
			return fmt.Errorf("failed to delete work sessions: %w", err)
		}

		insertSession := `
			INSERT INTO work_sessions (record_id, clock_in, clock_out)
			VALUES ($1, $2, $3)
			RETURNING id
		`
		insertBreak := `
			INSERT INTO session_breaks (session_id, start_at, end_at)
			VALUES ($1, $2, $3)
		`
		for _, s := range sessions {
			var sessionID string
			if err := tx.QueryRow(ctx, insertSession, recordID, s.ClockIn, s.ClockOut).Scan(&sessionID); err != nil {
				return fmt.Errorf("failed to insert work session: %w", err)
			}
			for _, b := range s.Breaks {
				if _, err := tx.Exec(ctx, insertBreak, sessionID, b.StartAt, b.EndAt); err != nil {
					return fmt.Errorf("failed to insert session break: %w", err)
				}
			}
		}

		return nil
	})
}
