// Package memory provides map-backed repositories with the same semantics as
// the PostgreSQL ones. Used by the service tests; not for production.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shiftlog/shiftlog-backend-go/internal/domain/timesheet"
)

type TimesheetRepository struct {
	mu       sync.RWMutex
	records  map[string]*timesheet.AttendanceRecord // by record ID
	sessions map[string]*timesheet.WorkSession      // by session ID
	breaks   map[string]*timesheet.Break            // by break ID
}

func NewTimesheetRepository() *TimesheetRepository {
	return &TimesheetRepository{
		records:  make(map[string]*timesheet.AttendanceRecord),
		sessions: make(map[string]*timesheet.WorkSession),
		breaks:   make(map[string]*timesheet.Break),
	}
}

func (r *TimesheetRepository) findRecord(userID string, date time.Time) *timesheet.AttendanceRecord {
	for _, rec := range r.records {
		if rec.UserID == userID && rec.Date.Equal(date) {
			return rec
		}
	}
	return nil
}

// GetOrCreateRecord implements timesheet.TimesheetRepository.
func (r *TimesheetRepository) GetOrCreateRecord(ctx context.Context, userID string, date time.Time) (timesheet.AttendanceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec := r.findRecord(userID, date); rec != nil {
		return *rec, nil
	}

	now := time.Now().UTC()
	rec := &timesheet.AttendanceRecord{
		ID:        uuid.NewString(),
		UserID:    userID,
		Date:      date,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.records[rec.ID] = rec
	return *rec, nil
}

// GetRecordByUserAndDate implements timesheet.TimesheetRepository.
func (r *TimesheetRepository) GetRecordByUserAndDate(ctx context.Context, userID string, date time.Time) (*timesheet.AttendanceRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec := r.findRecord(userID, date)
	if rec == nil {
		return nil, nil
	}
	loaded := r.loadRecord(rec)
	return &loaded, nil
}

// ListRecordsByDateRange implements timesheet.TimesheetRepository.
func (r *TimesheetRepository) ListRecordsByDateRange(ctx context.Context, userID string, from, to time.Time) ([]timesheet.AttendanceRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []timesheet.AttendanceRecord
	for _, rec := range r.records {
		if rec.UserID != userID || rec.Date.Before(from) || rec.Date.After(to) {
			continue
		}
		result = append(result, r.loadRecord(rec))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})
	return result, nil
}

// loadRecord returns a copy with sessions (clock-in ascending) and breaks
// (start ascending) attached. Caller holds the lock.
func (r *TimesheetRepository) loadRecord(rec *timesheet.AttendanceRecord) timesheet.AttendanceRecord {
	loaded := *rec
	loaded.Sessions = nil

	for _, s := range r.sessions {
		if s.RecordID != rec.ID {
			continue
		}
		session := *s
		session.Breaks = nil
		for _, b := range r.breaks {
			if b.SessionID == s.ID {
				session.Breaks = append(session.Breaks, *b)
			}
		}
		sort.Slice(session.Breaks, func(i, j int) bool {
			return session.Breaks[i].StartAt.Before(session.Breaks[j].StartAt)
		})
		loaded.Sessions = append(loaded.Sessions, session)
	}
	sort.Slice(loaded.Sessions, func(i, j int) bool {
		return loaded.Sessions[i].ClockIn.Before(loaded.Sessions[j].ClockIn)
	})
	return loaded
}

// GetActiveSession implements timesheet.TimesheetRepository.
func (r *TimesheetRepository) GetActiveSession(ctx context.Context, userID string, date time.Time) (*timesheet.WorkSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec := r.findRecord(userID, date)
	if rec == nil {
		return nil, nil
	}

	var latest *timesheet.WorkSession
	for _, s := range r.sessions {
		if s.RecordID != rec.ID || s.ClockOut != nil {
			continue
		}
		if latest == nil || s.ClockIn.After(latest.ClockIn) {
			latest = s
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

// CreateSession implements timesheet.TimesheetRepository.
func (r *TimesheetRepository) CreateSession(ctx context.Context, recordID string, clockIn time.Time) (timesheet.WorkSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := &timesheet.WorkSession{
		ID:       uuid.NewString(),
		RecordID: recordID,
		ClockIn:  clockIn,
	}
	r.sessions[s.ID] = s
	return *s, nil
}

// CloseSession implements timesheet.TimesheetRepository.
func (r *TimesheetRepository) CloseSession(ctx context.Context, sessionID string, clockOut time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		return timesheet.ErrNoActiveSession
	}
	out := clockOut
	s.ClockOut = &out
	return nil
}

// GetOpenBreak implements timesheet.TimesheetRepository.
func (r *TimesheetRepository) GetOpenBreak(ctx context.Context, sessionID string) (*timesheet.Break, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *timesheet.Break
	for _, b := range r.breaks {
		if b.SessionID != sessionID || b.EndAt != nil {
			continue
		}
		if latest == nil || b.StartAt.After(latest.StartAt) {
			latest = b
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

// CreateBreak implements timesheet.TimesheetRepository.
func (r *TimesheetRepository) CreateBreak(ctx context.Context, sessionID string, start time.Time) (timesheet.Break, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b := &timesheet.Break{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		StartAt:   start,
	}
	r.breaks[b.ID] = b
	return *b, nil
}

// CloseBreak implements timesheet.TimesheetRepository.
func (r *TimesheetRepository) CloseBreak(ctx context.Context, breakID string, end time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.breaks[breakID]
	if !ok {
		return timesheet.ErrNoActiveBreak
	}
	endAt := end
	b.EndAt = &endAt
	return nil
}

// ReplaceDaySessions implements timesheet.TimesheetRepository. The lock makes
// the teardown and rebuild atomic with respect to readers.
func (r *TimesheetRepository) ReplaceDaySessions(ctx context.Context, recordID string, sessions []timesheet.WorkSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, s := range r.sessions {
		if s.RecordID != recordID {
			continue
		}
		for bid, b := range r.breaks {
			if b.SessionID == s.ID {
				delete(r.breaks, bid)
			}
		}
		delete(r.sessions, id)
	}

	for _, s := range sessions {
		stored := s
		stored.ID = uuid.NewString()
		stored.RecordID = recordID
		breaks := stored.Breaks
		stored.Breaks = nil
		r.sessions[stored.ID] = &stored

		for _, b := range breaks {
			storedBreak := b
			storedBreak.ID = uuid.NewString()
			storedBreak.SessionID = stored.ID
			r.breaks[storedBreak.ID] = &storedBreak
		}
	}

	return nil
}
